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

// Command abi-framework is the CLI entry point: snapshot, verify,
// diff, codegen, sync, changelog, doctor and the rest of the
// subcommands spec.md §6 lists, wired to the internal packages that
// implement them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/obslog"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "abi-framework",
	Short: "ABI governance for native C shared libraries",
	Long: `abi-framework parses C headers into normalized ABI snapshots, diffs
them against stored baselines with SemVer classification, enforces
policy and waiver rules, emits a language-neutral IDL, renders derived
artifacts, detects drift, and orchestrates the whole pipeline per
target with aggregate reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := obslog.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		obslog.Sync(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	rootCmd.AddCommand(
		newSnapshotCmd(),
		newDiffCmd(),
		newVerifyCmd(),
		newVerifyAllCmd(),
		newGenerateCmd(),
		newSyncCmd(),
		newChangelogCmd(),
		newDoctorCmd(),
		newWaiverAuditCmd(),
		newBenchmarkCmd(),
		newBenchmarkGateCmd(),
		newValidatePluginManifestCmd(),
		newListTargetsCmd(),
		newInitTargetCmd(),
		newRegenBaselinesCmd(),
		newReleasePrepareCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// reportFailedErr signals a non-fatal report failure (policy errors,
// drift in check mode): exit 1, not the exit-2 fatal-tool/config path.
type reportFailedErr struct{ message string }

func (e reportFailedErr) Error() string { return e.message }

// exitCodeFor maps an error to the process exit code spec §6/§7
// define: 0 pass (unreachable here -- Execute only returns non-nil
// errors), 1 for policy/drift/report failures, 2 for configuration or
// fatal tool errors, falling back to 2 for anything untyped.
func exitCodeFor(err error) int {
	fmt.Fprintln(os.Stderr, "abi_framework error: "+err.Error())
	if fe, ok := ferr.As(err); ok {
		return fe.Kind.ExitCode()
	}
	if _, ok := err.(reportFailedErr); ok {
		return 1
	}
	return 2
}
