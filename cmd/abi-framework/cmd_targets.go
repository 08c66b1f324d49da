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
	"github.com/abi-framework/abi-framework/internal/config"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/orchestrator"
)

// TargetSummary is one line of `list-targets`' output.
type TargetSummary struct {
	Name         string `json:"name"`
	HeaderPath   string `json:"header_path"`
	BaselinePath string `json:"baseline_path"`
	CodegenOn    bool   `json:"codegen_enabled"`
}

func newListTargetsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list-targets",
		Short: "list every target declared in the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliflags.RequireConfig(configPath); err != nil {
				return ferr.New(ferr.KindConfig, "%s", err.Error())
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			summaries := make([]TargetSummary, 0, len(cfg.Targets))
			for _, name := range cfg.SortedTargetNames() {
				t := cfg.Targets[name]
				summaries = append(summaries, TargetSummary{
					Name:         name,
					HeaderPath:   t.Header.Path,
					BaselinePath: t.BaselinePath,
					CodegenOn:    t.Codegen.Enabled,
				})
			}
			return printJSON(summaries)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	return cmd
}

func newInitTargetCmd() *cobra.Command {
	var configPath, name, headerPath string

	cmd := &cobra.Command{
		Use:   "init-target",
		Short: "add a new target with sane defaults to the configuration and write it back",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliflags.RequireConfig(configPath); err != nil {
				return ferr.New(ferr.KindConfig, "%s", err.Error())
			}
			if err := cliflags.RequireTarget(name); err != nil {
				return ferr.New(ferr.KindConfig, "%s", err.Error())
			}
			if headerPath == "" {
				return ferr.New(ferr.KindConfig, "--header is required")
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				if !os.IsNotExist(unwrapOSError(err)) {
					return err
				}
				cfg = config.Config{Targets: map[string]config.Target{}}
			}
			if _, exists := cfg.Targets[name]; exists {
				return ferr.New(ferr.KindConfig, "target %q already exists", name)
			}
			if cfg.Targets == nil {
				cfg.Targets = map[string]config.Target{}
			}

			cfg.Targets[name] = config.Target{
				BaselinePath: "baselines/" + name + ".json",
				Header: config.Header{
					Path:      headerPath,
					ApiMacro:  "",
					CallMacro: "",
				},
			}

			raw, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return ferr.Wrap(ferr.KindConfig, err, "encoding configuration")
			}
			if err := os.WriteFile(configPath, raw, 0o644); err != nil {
				return ferr.Wrap(ferr.KindConfig, err, "writing configuration to %q", configPath)
			}
			return printJSON(cfg.Targets[name])
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	cmd.Flags().StringVar(&name, "name", "", "new target's name")
	cmd.Flags().StringVar(&headerPath, "header", "", "path to the new target's C header file")
	return cmd
}

func newRegenBaselinesCmd() *cobra.Command {
	var configPath, target, baselineRoot string

	cmd := &cobra.Command{
		Use:   "regen-baselines",
		Short: "overwrite stored baselines with freshly built snapshots for one or every target",
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
			opts.UpdateBaselines = true

			if target != "" {
				out := orchestrator.RunTarget(cmd.Context(), target, cfg, opts)
				if out.FatalErr != nil {
					return out.FatalErr
				}
				return printJSON(out.Snapshot)
			}

			outcomes := orchestrator.RunAll(cmd.Context(), cfg, opts)
			if err := anyFatal(outcomes); err != nil {
				return err
			}
			return printJSON(outcomes)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	cmd.Flags().StringVar(&target, "target", "", "optional target name; regenerates every target's baseline when omitted")
	cmd.Flags().StringVar(&baselineRoot, "baseline-root", "", "directory baseline paths are resolved relative to")
	return cmd
}

func unwrapOSError(err error) error {
	if fe, ok := ferr.As(err); ok && fe.Cause != nil {
		return fe.Cause
	}
	return err
}
