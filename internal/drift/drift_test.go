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

package drift

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUnchangedWhenBytesEqual(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.h")
	require.NoError(t, os.WriteFile(path, []byte("content\n"), 0o644))

	res, err := Check(path, []byte("content\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, res.Status)
}

func TestCheckUpdatedWritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.h")

	res, err := Check(path, []byte("content\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, res.Status)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content\n", string(got))
}

func TestCheckDryRunDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.h")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	res, err := Check(path, []byte("new\n"), Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, StatusWouldWrite, res.Status)
	assert.Contains(t, res.UnifiedDiff, "-old")
	assert.Contains(t, res.UnifiedDiff, "+new")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(got))
}

func TestCheckModeReportsDriftWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.h")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	res, err := Check(path, []byte("new\n"), Options{Check: true})
	require.NoError(t, err)
	assert.Equal(t, StatusDrift, res.Status)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(got))
}

func TestCheckNormalizesCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.h")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	res, err := Check(path, []byte("a\r\nb\r\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, res.Status)
}

func TestHasCodegenDrift(t *testing.T) {
	assert.False(t, HasCodegenDrift([]Result{{Status: StatusUnchanged}, {Status: StatusUpdated}}))
	assert.True(t, HasCodegenDrift([]Result{{Status: StatusUnchanged}, {Status: StatusDrift}}))
	assert.True(t, HasCodegenDrift([]Result{{Status: StatusWouldWrite}}))
}

func TestHasSyncDriftIgnoresOrder(t *testing.T) {
	assert.False(t, HasSyncDrift([]string{"b", "a"}, []string{"a", "b"}))
	assert.True(t, HasSyncDrift([]string{"a"}, []string{"a", "b"}))
}
