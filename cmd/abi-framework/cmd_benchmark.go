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

	"github.com/abi-framework/abi-framework/internal/benchmark"
	"github.com/abi-framework/abi-framework/internal/cliflags"
	"github.com/abi-framework/abi-framework/internal/ferr"
)

func newBenchmarkCmd() *cobra.Command {
	var configPath, output string
	var iterations int

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "time the pipeline for every configured target and write a timing report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliflags.RequireConfig(configPath); err != nil {
				return ferr.New(ferr.KindConfig, "%s", err.Error())
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			report := benchmark.Run(cmd.Context(), cfg, baseRunOptions(), iterations)
			if output != "" {
				if err := benchmark.SaveReport(output, report); err != nil {
					return err
				}
			}
			return printJSON(report)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	cmd.Flags().StringVar(&output, "output", "", "file to save the timing report to, for later `benchmark-gate` comparison")
	cmd.Flags().IntVar(&iterations, "iterations", 5, "number of timed repetitions per target")
	return cmd
}

func newBenchmarkGateCmd() *cobra.Command {
	var baselinePath, currentPath string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "benchmark-gate",
		Short: "fail if a current timing report regressed past a percentage threshold against a stored baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if baselinePath == "" || currentPath == "" {
				return ferr.New(ferr.KindConfig, "--baseline and --current are both required")
			}
			base, err := benchmark.LoadReport(baselinePath)
			if err != nil {
				return err
			}
			cur, err := benchmark.LoadReport(currentPath)
			if err != nil {
				return err
			}

			regressions := benchmark.Gate(base, cur, threshold)
			if err := printJSON(regressions); err != nil {
				return err
			}
			if len(regressions) > 0 {
				return reportFailedErr{message: "one or more targets regressed past the benchmark threshold"}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baselinePath, "baseline", "", "path to a stored baseline timing report")
	cmd.Flags().StringVar(&currentPath, "current", "", "path to the current timing report")
	cmd.Flags().Float64Var(&threshold, "threshold", 20.0, "maximum allowed percentage increase in mean runtime before the gate fails")
	return cmd
}
