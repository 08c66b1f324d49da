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

	"github.com/spf13/cobra"

	"github.com/abi-framework/abi-framework/internal/changelog"
	"github.com/abi-framework/abi-framework/internal/cliflags"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/orchestrator"
)

func newChangelogCmd() *cobra.Command {
	var configPath, output string
	var html bool

	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "render the Markdown (or HTML) changelog across every configured target",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliflags.RequireConfig(configPath); err != nil {
				return ferr.New(ferr.KindConfig, "%s", err.Error())
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			outcomes := orchestrator.RunAll(cmd.Context(), cfg, baseRunOptions())
			if err := anyFatal(outcomes); err != nil {
				return err
			}

			entries := make([]changelog.TargetEntry, 0, len(outcomes))
			for _, o := range outcomes {
				entries = append(entries, changelog.TargetEntry{Name: o.Target, Result: o.Result})
			}
			markdown := changelog.Render(entries)

			var content []byte
			if html {
				content = changelog.RenderHTML(markdown)
			} else {
				content = []byte(markdown)
			}

			if output == "" {
				_, err := os.Stdout.Write(content)
				return err
			}
			if err := os.WriteFile(output, content, 0o644); err != nil {
				return ferr.Wrap(ferr.KindConfig, err, "writing changelog to %q", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	cmd.Flags().StringVar(&output, "output", "", "file to write the changelog to (default: stdout)")
	cmd.Flags().BoolVar(&html, "html", false, "render HTML instead of Markdown")
	return cmd
}
