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

	"github.com/spf13/cobra"

	"github.com/abi-framework/abi-framework/internal/cliflags"
	"github.com/abi-framework/abi-framework/internal/differ"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/orchestrator"
	"github.com/abi-framework/abi-framework/internal/snapshot"
)

func newSnapshotCmd() *cobra.Command {
	var configPath, target, binaryPath, output string
	var skipBinary bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "parse a target's header and write its ABI snapshot",
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

			opts := orchestrator.RunOptions{SkipBinary: skipBinary}
			if binaryPath != "" {
				t := cfg.Targets[target]
				t.Binary.Path = binaryPath
				cfg.Targets[target] = t
			}

			snap, err := orchestrator.BuildTargetSnapshot(cmd.Context(), target, cfg, opts)
			if err != nil {
				return err
			}
			return writeSnapshot(snap, output)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	cmd.Flags().StringVar(&target, "target", "", cliflags.TargetUsage)
	cmd.Flags().StringVar(&binaryPath, "binary", "", "path to the compiled shared library, overriding the configured one")
	cmd.Flags().BoolVar(&skipBinary, "skip-binary", false, "elide the binary export probe even if a path is configured")
	cmd.Flags().StringVar(&output, "output", "", "file to write the snapshot JSON to (default: stdout)")
	return cmd
}

func writeSnapshot(snap snapshot.Snapshot, output string) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return ferr.Wrap(ferr.KindConfig, err, "encoding snapshot")
	}
	if output == "" {
		fmt.Println(string(raw))
		return nil
	}
	if err := os.WriteFile(output, raw, 0o644); err != nil {
		return ferr.Wrap(ferr.KindConfig, err, "writing snapshot to %q", output)
	}
	return nil
}

func newDiffCmd() *cobra.Command {
	var baselinePath, currentPath string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "compare two snapshot files",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline, err := readSnapshotFile(baselinePath)
			if err != nil {
				return err
			}
			current, err := readSnapshotFile(currentPath)
			if err != nil {
				return err
			}

			report := differ.Diff(baseline, current, differ.Options{})
			raw, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return ferr.Wrap(ferr.KindConfig, err, "encoding diff report")
			}
			fmt.Println(string(raw))
			if report.Status != "pass" {
				return reportFailedErr{message: "diff reports errors, see above"}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baselinePath, "baseline", "", cliflags.BaselineUsage)
	cmd.Flags().StringVar(&currentPath, "current", "", "path to the current snapshot JSON file")
	return cmd
}

func readSnapshotFile(path string) (snapshot.Snapshot, error) {
	if path == "" {
		return snapshot.Snapshot{}, ferr.New(ferr.KindConfig, "a snapshot path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return snapshot.Snapshot{}, ferr.Wrap(ferr.KindConfig, err, "reading snapshot %q", path)
	}
	var snap snapshot.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snapshot.Snapshot{}, ferr.Wrap(ferr.KindConfig, err, "parsing snapshot %q", path)
	}
	return snap, nil
}
