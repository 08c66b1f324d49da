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
	"os"

	"github.com/spf13/cobra"

	"github.com/abi-framework/abi-framework/internal/cliflags"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/orchestrator"
	"github.com/abi-framework/abi-framework/internal/render"
)

func newVerifyCmd() *cobra.Command {
	var configPath, target, baselineRoot string
	var failOnWarnings, skipBinary bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "run the full ABI pipeline for one target and report pass/fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliflags.RequireConfig(configPath); err != nil {
				return ferr.New(ferr.KindConfig, "%s", err.Error())
			}
			if err := cliflags.RequireTarget(target); err != nil {
				return ferr.New(ferr.KindConfig, "%s", err.Error())
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			opts := baseRunOptions()
			opts.BaselineRoot = baselineRoot
			opts.FailOnWarnings = failOnWarnings
			opts.SkipBinary = skipBinary

			out := orchestrator.RunTarget(cmd.Context(), target, cfg, opts)
			if out.FatalErr != nil {
				return out.FatalErr
			}
			if err := printJSON(out.Result); err != nil {
				return err
			}
			if out.Result.Status != "pass" {
				return reportFailedErr{message: "target " + target + " failed policy verification"}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	cmd.Flags().StringVar(&target, "target", "", cliflags.TargetUsage)
	cmd.Flags().StringVar(&baselineRoot, "baseline-root", "", "directory baseline paths are resolved relative to")
	cmd.Flags().BoolVar(&failOnWarnings, "fail-on-warnings", cliflags.FailOnWarningsDefault, cliflags.FailOnWarningsUsage)
	cmd.Flags().BoolVar(&skipBinary, "skip-binary", false, "elide the binary export probe even if a path is configured")
	return cmd
}

func newVerifyAllCmd() *cobra.Command {
	var configPath, baselineRoot, sarifReport string
	var failOnWarnings, skipBinary bool

	cmd := &cobra.Command{
		Use:   "verify-all",
		Short: "run the full ABI pipeline for every configured target",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliflags.RequireConfig(configPath); err != nil {
				return ferr.New(ferr.KindConfig, "%s", err.Error())
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			opts := baseRunOptions()
			opts.BaselineRoot = baselineRoot
			opts.FailOnWarnings = failOnWarnings
			opts.SkipBinary = skipBinary

			outcomes := orchestrator.RunAll(cmd.Context(), cfg, opts)
			if err := anyFatal(outcomes); err != nil {
				return err
			}
			results := resultsByTarget(outcomes)
			if err := printJSON(results); err != nil {
				return err
			}
			if sarifReport != "" {
				sarif := render.BuildSarif(results, headerPathsByTarget(cfg))
				raw, err := json.MarshalIndent(sarif, "", "  ")
				if err != nil {
					return ferr.Wrap(ferr.KindConfig, err, "encoding SARIF output")
				}
				if err := os.WriteFile(sarifReport, raw, 0o644); err != nil {
					return ferr.Wrap(ferr.KindConfig, err, "writing %q", sarifReport)
				}
			}
			if anyFailed(outcomes) {
				return reportFailedErr{message: "one or more targets failed policy verification"}
			}
			if anyDrift(outcomes) {
				return reportFailedErr{message: "one or more targets have sync or codegen drift"}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	cmd.Flags().StringVar(&baselineRoot, "baseline-root", "", "directory baseline paths are resolved relative to")
	cmd.Flags().StringVar(&sarifReport, "sarif-report", "", "optional file to write a SARIF 2.1.0 document of policy errors and warnings")
	cmd.Flags().BoolVar(&failOnWarnings, "fail-on-warnings", cliflags.FailOnWarningsDefault, cliflags.FailOnWarningsUsage)
	cmd.Flags().BoolVar(&skipBinary, "skip-binary", false, "elide the binary export probe even if a path is configured")
	return cmd
}
