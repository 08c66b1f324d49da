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

	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/manifest"
)

func newValidatePluginManifestCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "validate-plugin-manifest",
		Short: "validate an external generator's plugin manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			if manifestPath == "" {
				return ferr.New(ferr.KindConfig, "--manifest is required")
			}
			m, err := manifest.LoadAndValidate(manifestPath)
			if err != nil {
				return ferr.Wrap(ferr.KindConfig, err, "validating plugin manifest %q", manifestPath)
			}
			return printJSON(m)
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to the plugin manifest YAML file")
	return cmd
}
