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

package config

import (
	"encoding/json"
	"os"

	"github.com/abi-framework/abi-framework/internal/ferr"
)

// SchemaValidator is the optional external jsonschema collaborator spec
// §1 lists as a contract-only dependency. Nothing in this module
// implements one; Load works correctly with a nil validator.
type SchemaValidator interface {
	ValidateConfig(raw []byte) error
}

// SchemaValidatorAbsentNote is the doctor-reportable note spec §6
// requires when no schema validator is configured: "jsonschema
// availability is auto-detected; absent it, schema validation is
// silently skipped with a doctor-reported note."
const SchemaValidatorAbsentNote = "jsonschema validator not configured: schema validation skipped"

// Load reads, decodes and validates the configuration document at path.
// If validator is non-nil it runs against the raw document before
// structural validation.
func Load(path string, validator SchemaValidator) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, ferr.Wrap(ferr.KindConfig, err, "reading config %q", path)
	}

	if validator != nil {
		if err := validator.ValidateConfig(raw); err != nil {
			return Config{}, ferr.Wrap(ferr.KindConfig, err, "schema validation failed for %q", path)
		}
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, ferr.Wrap(ferr.KindConfig, err, "parsing config %q", path)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
