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
	"github.com/abi-framework/abi-framework/internal/config"
	"github.com/abi-framework/abi-framework/internal/environment"
	"github.com/abi-framework/abi-framework/internal/ferr"
)

// DoctorReport is what the `doctor` subcommand prints: the resolved
// environment, which target headers and baselines exist on disk, and
// any configuration gaps worth a standing note.
type DoctorReport struct {
	Environment environment.Environment `json:"environment"`
	Notes       []string                `json:"notes"`
	Targets     []DoctorTarget          `json:"targets"`
}

// DoctorTarget is one target's on-disk readiness.
type DoctorTarget struct {
	Name             string `json:"name"`
	HeaderExists     bool   `json:"header_exists"`
	BaselineExists   bool   `json:"baseline_exists"`
	BinaryConfigured bool   `json:"binary_configured"`
	LayoutEnabled    bool   `json:"layout_enabled"`
	CodegenEnabled   bool   `json:"codegen_enabled"`
}

func newDoctorCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "report the resolved environment and per-target configuration readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliflags.RequireConfig(configPath); err != nil {
				return ferr.New(ferr.KindConfig, "%s", err.Error())
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			report := DoctorReport{
				Environment: environment.FromOS(),
				Notes:       []string{config.SchemaValidatorAbsentNote},
			}
			for _, name := range cfg.SortedTargetNames() {
				t := cfg.Targets[name]
				report.Targets = append(report.Targets, DoctorTarget{
					Name:             name,
					HeaderExists:     pathExists(t.Header.Path),
					BaselineExists:   pathExists(t.BaselinePath),
					BinaryConfigured: t.Binary.Path != "",
					LayoutEnabled:    t.Header.Layout.Enabled,
					CodegenEnabled:   t.Codegen.Enabled,
				})
			}
			return printJSON(report)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", cliflags.ConfigUsage)
	return cmd
}
