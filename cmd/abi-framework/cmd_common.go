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

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abi-framework/abi-framework/internal/config"
	"github.com/abi-framework/abi-framework/internal/environment"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/orchestrator"
	"github.com/abi-framework/abi-framework/internal/policy"
)

// loadConfig reads the configuration at path. No SchemaValidator is
// wired: config.SchemaValidatorAbsentNote documents the resulting
// doctor-reported gap.
func loadConfig(path string) (config.Config, error) {
	return config.Load(path, nil)
}

// baseRunOptions builds the RunOptions common to every orchestrator
// invocation, resolving the process environment once per command.
func baseRunOptions() orchestrator.RunOptions {
	return orchestrator.RunOptions{Env: environment.FromOS()}
}

func printJSON(v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ferr.Wrap(ferr.KindConfig, err, "encoding output")
	}
	fmt.Println(string(raw))
	return nil
}

func writeOrPrintJSON(v interface{}, output string) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ferr.Wrap(ferr.KindConfig, err, "encoding output")
	}
	if output == "" {
		fmt.Println(string(raw))
		return nil
	}
	if err := os.WriteFile(output, raw, 0o644); err != nil {
		return ferr.Wrap(ferr.KindConfig, err, "writing %q", output)
	}
	return nil
}

// resultsByTarget runs every outcome's policy.Result into a map keyed
// by target name, for the renderers that need that shape.
func resultsByTarget(outcomes []orchestrator.TargetOutcome) map[string]policy.Result {
	out := make(map[string]policy.Result, len(outcomes))
	for _, o := range outcomes {
		out[o.Target] = o.Result
	}
	return out
}

// headerPathsByTarget resolves each target's configured header path,
// for SARIF's synthetic result locations.
func headerPathsByTarget(cfg config.Config) map[string]string {
	out := make(map[string]string, len(cfg.Targets))
	for name, t := range cfg.Targets {
		out[name] = t.Header.Path
	}
	return out
}

// anyFatal reports the first fatal error among outcomes, if any.
func anyFatal(outcomes []orchestrator.TargetOutcome) error {
	for _, o := range outcomes {
		if o.FatalErr != nil {
			return o.FatalErr
		}
	}
	return nil
}

// anyFailed reports whether any outcome's policy result failed.
func anyFailed(outcomes []orchestrator.TargetOutcome) bool {
	for _, o := range outcomes {
		if o.Result.Status != "" && o.Result.Status != "pass" {
			return true
		}
	}
	return false
}

// pathExists reports whether a path can be stat'd.
func pathExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// anyDrift reports whether any outcome observed sync or codegen drift.
func anyDrift(outcomes []orchestrator.TargetOutcome) bool {
	for _, o := range outcomes {
		if o.HasSyncDrift || o.HasCodegenDrift {
			return true
		}
	}
	return false
}
