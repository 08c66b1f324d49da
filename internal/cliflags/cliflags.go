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

// Package cliflags holds flag defaults, usage strings and validators
// shared across the abi-framework subcommands.
package cliflags

import (
	"fmt"
	"regexp"
)

const (
	ConfigUsage = `path to the JSON configuration file`

	TargetUsage = `target name as declared in the configuration's "targets" map`

	BaselineUsage = `path to a stored baseline snapshot JSON file`

	OutputDirDefault = "."
	OutputDirUsage   = `directory reports and artifacts are written under`

	FailOnWarningsDefault = false
	FailOnWarningsUsage   = `promote warnings to a failing report`

	DryRunDefault = false
	DryRunUsage   = `report what would change without writing any file`

	CheckDefault = false
	CheckUsage   = `fail if rendering would change an on-disk artifact`
)

var targetNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// IsValidTargetName reports whether s is safe to use as a target name:
// no spaces, shell metacharacters or path separators, so it needs no
// escaping when substituted into a generator command template or used
// as a filename component.
func IsValidTargetName(s string) bool {
	return targetNameRe.MatchString(s)
}

// RequireTarget validates a --target flag's value, returning a usage
// error a cobra RunE can return directly.
func RequireTarget(target string) error {
	if target == "" {
		return fmt.Errorf("--target is required")
	}
	if !IsValidTargetName(target) {
		return fmt.Errorf("--target %q is not a valid target name", target)
	}
	return nil
}

// RequireConfig validates a --config flag's value.
func RequireConfig(config string) error {
	if config == "" {
		return fmt.Errorf("--config is required")
	}
	return nil
}
