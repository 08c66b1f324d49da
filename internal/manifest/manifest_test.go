// Copyright 2026 The abi-framework Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "plugin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAndValidateAccepts(t *testing.T) {
	path := writeManifest(t, `
name: rust-bindgen-shim
version: 1.2.0
description: renders Rust FFI bindings
kind: external
command: ["{repo_root}/tools/bindgen", "--target", "{target}", "--idl", "{idl}"]
supported_targets: ["mylib"]
`)
	m, err := LoadAndValidate(path)
	require.NoError(t, err)
	assert.Equal(t, "rust-bindgen-shim", m.Name)
	assert.Equal(t, "1.2.0", m.Version)
	assert.Equal(t, "external", m.Kind)
	assert.Equal(t, []string{"{repo_root}/tools/bindgen", "--target", "{target}", "--idl", "{idl}"}, m.Command)
	assert.Equal(t, []string{"mylib"}, m.SupportedTargets)
}

func TestValidateRejectsMissingName(t *testing.T) {
	err := Validate(Manifest{Version: "1.0.0", Kind: "external", Command: []string{"x"}})
	assert.ErrorContains(t, err, "name is required")
}

func TestValidateRejectsMissingVersion(t *testing.T) {
	err := Validate(Manifest{Name: "x", Kind: "external", Command: []string{"x"}})
	assert.ErrorContains(t, err, "version is required")
}

func TestValidateRejectsUnknownKind(t *testing.T) {
	err := Validate(Manifest{Name: "x", Version: "1.0.0", Kind: "builtin", Command: []string{"x"}})
	assert.ErrorContains(t, err, `kind "builtin"`)
}

func TestValidateRejectsEmptyCommand(t *testing.T) {
	err := Validate(Manifest{Name: "x", Version: "1.0.0", Kind: "external"})
	assert.ErrorContains(t, err, "command must have at least one element")
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeManifest(t, "name: [unterminated\n")
	_, err := Load(path)
	assert.Error(t, err)
}
