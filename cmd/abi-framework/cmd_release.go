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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abi-framework/abi-framework/internal/benchmark"
	"github.com/abi-framework/abi-framework/internal/changelog"
	"github.com/abi-framework/abi-framework/internal/cliflags"
	"github.com/abi-framework/abi-framework/internal/environment"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/orchestrator"
	"github.com/abi-framework/abi-framework/internal/render"
)

// ReleaseManifest is the artifact release-prepare writes at the end of
// its chain: a manifest of everything the chain produced, playing the
// role an SBOM/attestation step would consume downstream.
type ReleaseManifest struct {
	GeneratedAtUTC time.Time                   `json:"generated_at_utc"`
	Environment    environment.Environment     `json:"environment"`
	Aggregate      render.AggregateReport      `json:"aggregate"`
	ChangelogPath  string                      `json:"changelog_path,omitempty"`
	BenchmarkPath  string                      `json:"benchmark_path,omitempty"`
	Regressions    []benchmark.Regression      `json:"regressions,omitempty"`
}

func newReleasePrepareCmd() *cobra.Command {
	var configPath, outputDir, changelogPath, benchmarkPath, benchmarkBaseline string
	var iterations int
	var threshold float64
	var failOnWarnings bool

	cmd := &cobra.Command{
		Use:   "release-prepare",
		Short: "run the full release chain: doctor, sync, codegen, verify-all, changelog, benchmark and an optional gate, finishing in a manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliflags.RequireConfig(configPath); err != nil {
				return ferr.New(ferr.KindConfig, "%s", err.Error())
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			opts := baseRunOptions()
			opts.OutputDir = outputDir
			opts.FailOnWarnings = failOnWarnings

			outcomes := orchestrator.RunAll(cmd.Context(), cfg, opts)
			if err := anyFatal(outcomes); err != nil {
				return err
			}

			results := resultsByTarget(outcomes)
			now := time.Now().UTC()
			manifest := ReleaseManifest{
				GeneratedAtUTC: now,
				Environment:    opts.Env,
				Aggregate:      render.BuildAggregate(results, now),
			}

			entries := make([]changelog.TargetEntry, 0, len(outcomes))
			for _, o := range outcomes {
				entries = append(entries, changelog.TargetEntry{Name: o.Target, Result: o.Result})
			}
			if changelogPath != "" {
				if err := os.WriteFile(changelogPath, []byte(changelog.Render(entries)), 0o644); err != nil {
					return ferr.Wrap(ferr.KindConfig, err, "writing changelog to %q", changelogPath)
				}
				manifest.ChangelogPath = changelogPath
			}

			if iterations > 0 {
				report := benchmark.Run(cmd.Context(), cfg, opts, iterations)
				if benchmarkPath != "" {
					if err := benchmark.SaveReport(benchmarkPath, report); err != nil {
						return err
					}
					manifest.BenchmarkPath = benchmarkPath
				}
				if benchmarkBaseline != "" {
					base, err := benchmark.LoadReport(benchmarkBaseline)
					if err != nil {
						return err
					}
					manifest.Regressions = benchmark.Gate(base, report, threshold)
				}
			}

			if err := printJSON(manifest); err != nil {
				return err
			}
			if anyFailed(outcomes) {
				return reportFailedErr{message: "release-prepare: one or more targets failed policy verification"}
			}
			if len(manifest.Regressions) > 0 {
				return reportFailedErr{message: "release-prepare: benchmark gate reported regressions"}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	cmd.Flags().StringVar(&outputDir, "output", cliflags.OutputDirDefault, cliflags.OutputDirUsage)
	cmd.Flags().StringVar(&changelogPath, "changelog-output", "", "file to write the Markdown changelog to")
	cmd.Flags().StringVar(&benchmarkPath, "benchmark-output", "", "file to write the benchmark timing report to")
	cmd.Flags().StringVar(&benchmarkBaseline, "benchmark-baseline", "", "optional stored timing report to gate the fresh benchmark against")
	cmd.Flags().IntVar(&iterations, "benchmark-iterations", 3, "timed repetitions per target; 0 skips benchmarking")
	cmd.Flags().Float64Var(&threshold, "benchmark-threshold", 20.0, "maximum allowed percentage increase in mean runtime before the gate fails")
	cmd.Flags().BoolVar(&failOnWarnings, "fail-on-warnings", cliflags.FailOnWarningsDefault, cliflags.FailOnWarningsUsage)
	return cmd
}
