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

// Package manifest parses and validates the YAML manifest an external
// plugin generator ships alongside its command template. Per spec §1,
// a plugin's manifest is validated but its rendering is opaque: the
// core never inspects what the generator writes, only that the
// manifest describing it is well-formed.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes one external generator plugin.
type Manifest struct {
	Name            string   `yaml:"name"`
	Version         string   `yaml:"version"`
	Description     string   `yaml:"description"`
	Kind            string   `yaml:"kind"`
	Command         []string `yaml:"command"`
	SupportedTargets []string `yaml:"supported_targets,omitempty"`
}

// Load reads and parses a manifest file; it does not validate it.
func Load(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: reading %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: parsing %s: %w", path, err)
	}
	return m, nil
}

// Validate checks the required fields and enumerated values of a
// loaded manifest.
func Validate(m Manifest) error {
	if m.Name == "" {
		return fmt.Errorf("manifest: name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("manifest: version is required")
	}
	if m.Kind != "external" {
		return fmt.Errorf("manifest: kind %q is not one of: external", m.Kind)
	}
	if len(m.Command) == 0 {
		return fmt.Errorf("manifest: command must have at least one element")
	}
	return nil
}

// LoadAndValidate is the composition `validate-plugin-manifest` drives.
func LoadAndValidate(path string) (Manifest, error) {
	m, err := Load(path)
	if err != nil {
		return Manifest{}, err
	}
	if err := Validate(m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
