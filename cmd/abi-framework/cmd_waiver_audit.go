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
	"time"

	"github.com/spf13/cobra"

	"github.com/abi-framework/abi-framework/internal/cliflags"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/policy"
)

func newWaiverAuditCmd() *cobra.Command {
	var configPath, target string

	cmd := &cobra.Command{
		Use:   "waiver-audit",
		Short: "report every configured waiver's metadata and expiry standing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliflags.RequireConfig(configPath); err != nil {
				return ferr.New(ferr.KindConfig, "%s", err.Error())
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			root := cfg.Policy
			eff := root
			if target != "" {
				t, ok := cfg.Targets[target]
				if !ok {
					return ferr.New(ferr.KindConfig, "unknown target %q", target)
				}
				eff = policy.Resolve(root, t.Policy)
			}

			entries := policy.AuditWaivers(eff, time.Now().UTC())
			if err := printJSON(entries); err != nil {
				return err
			}
			for _, e := range entries {
				if e.Expired || e.MetadataErr != "" {
					return reportFailedErr{message: "one or more waivers failed audit"}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	cmd.Flags().StringVar(&target, "target", "", "optional target name, to audit its resolved policy rather than the root policy")
	return cmd
}
