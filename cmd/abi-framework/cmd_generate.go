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
	"github.com/spf13/cobra"

	"github.com/abi-framework/abi-framework/internal/cliflags"
	"github.com/abi-framework/abi-framework/internal/drift"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/orchestrator"
)

func newGenerateCmd() *cobra.Command {
	var configPath, target, outputDir string
	var dryRun, check bool

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"codegen"},
		Short:   "render the IDL document and derived artifacts (C header, export map, bindings generators) for a target",
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
			opts.OutputDir = outputDir
			opts.DryRun = dryRun
			opts.Check = check

			out := orchestrator.RunTarget(cmd.Context(), target, cfg, opts)
			if out.FatalErr != nil {
				return out.FatalErr
			}
			if err := printJSON(out.IDL); err != nil {
				return err
			}
			if check && out.HasCodegenDrift {
				return reportFailedErr{message: "generated artifacts for " + target + " drifted from what's on disk"}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	cmd.Flags().StringVar(&target, "target", "", cliflags.TargetUsage)
	cmd.Flags().StringVar(&outputDir, "output", cliflags.OutputDirDefault, cliflags.OutputDirUsage)
	cmd.Flags().BoolVar(&dryRun, "dry-run", cliflags.DryRunDefault, cliflags.DryRunUsage)
	cmd.Flags().BoolVar(&check, "check", cliflags.CheckDefault, cliflags.CheckUsage)
	return cmd
}

func newSyncCmd() *cobra.Command {
	var configPath, target string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "check a target's expected-symbol sidecar against its parsed header symbols",
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

			snap, err := orchestrator.BuildTargetSnapshot(cmd.Context(), target, cfg, baseRunOptions())
			if err != nil {
				return err
			}
			if err := printJSON(snap.Bindings); err != nil {
				return err
			}
			if snap.Bindings.Available && drift.HasSyncDrift(snap.Header.Symbols, snap.Bindings.Symbols) {
				return reportFailedErr{message: "target " + target + " has a sync drift between its header and expected-symbol sidecar"}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	cmd.Flags().StringVar(&target, "target", "", cliflags.TargetUsage)
	return cmd
}
