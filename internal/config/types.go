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

// Package config decodes and validates the JSON configuration document
// spec §6 defines: a root policy plus a map of per-target header,
// bindings, binary, codegen and policy-override blocks.
package config

import (
	"sort"

	"github.com/abi-framework/abi-framework/internal/artifact"
	"github.com/abi-framework/abi-framework/internal/cheader"
	"github.com/abi-framework/abi-framework/internal/policy"
)

// Config is the top-level document one invocation loads.
type Config struct {
	Policy  policy.Policy     `json:"policy"`
	Targets map[string]Target `json:"targets"`
}

// Target is one named target's full configuration.
type Target struct {
	BaselinePath string        `json:"baseline_path"`
	Header       Header        `json:"header"`
	Bindings     Bindings      `json:"bindings"`
	Binary       Binary        `json:"binary"`
	Codegen      Codegen       `json:"codegen"`
	Policy       policy.Policy `json:"policy"`
}

// Header configures the C1 parse of this target's header file.
type Header struct {
	Path          string                `json:"path"`
	ApiMacro      string                `json:"api_macro"`
	CallMacro     string                `json:"call_macro"`
	SymbolPrefix  string                `json:"symbol_prefix"`
	VersionMacros cheader.VersionMacros `json:"version_macros"`
	Parser        Parser                `json:"parser"`
	Types         Types                 `json:"types"`
	Layout        Layout                `json:"layout"`
}

// Parser selects and configures the C1 backend.
type Parser struct {
	Backend         string   `json:"backend"`
	Compiler        string   `json:"compiler"`
	Candidates      []string `json:"candidates"`
	Flags           []string `json:"flags"`
	IncludeDirs     []string `json:"include_dirs"`
	FallbackToRegex bool     `json:"fallback_to_regex"`
}

// Types configures enum/struct discovery and the snapshot's own
// {type_policy, strict_semver} pair (spec §3's Snapshot.policy).
type Types struct {
	EnumNamePattern   string   `json:"enum_name_pattern"`
	StructNamePattern string   `json:"struct_name_pattern"`
	IgnoreEnums       []string `json:"ignore_enums"`
	TypePolicy        string   `json:"type_policy"`
	StrictSemver      bool     `json:"strict_semver"`
}

// Layout configures the optional C2 struct-layout probe.
type Layout struct {
	Enabled  bool     `json:"enabled"`
	Compiler string   `json:"compiler"`
	Flags    []string `json:"flags"`
	Structs  []string `json:"structs"`
	WorkDir  string   `json:"work_dir"`
}

// Bindings configures the expected-symbol sidecar and downstream
// generators.
type Bindings struct {
	ExpectedSymbols   []string                  `json:"expected_symbols"`
	SymbolDocs        map[string]string         `json:"symbol_docs"`
	DeprecatedSymbols []string                  `json:"deprecated_symbols"`
	Generators        []artifact.GeneratorSpec  `json:"generators"`
}

// Binary configures the optional C2 binary-export probe.
type Binary struct {
	Path                    string `json:"path"`
	AllowNonPrefixedExports bool   `json:"allow_non_prefixed_exports"`
}

// Codegen configures C6/C7 IDL and artifact output for this target.
type Codegen struct {
	Enabled                   bool              `json:"enabled"`
	IDLOutputPath             string            `json:"idl_output_path"`
	NativeHeaderOutputPath    string            `json:"native_header_output_path"`
	NativeExportMapOutputPath string            `json:"native_export_map_output_path"`
	NativeHeaderGuard         string            `json:"native_header_guard"`
	NativeAPIMacro            string            `json:"native_api_macro"`
	NativeCallMacro           string            `json:"native_call_macro"`
	IncludeSymbols            []string          `json:"include_symbols"`
	IncludeSymbolsRegex       []string          `json:"include_symbols_regex"`
	ExcludeSymbols            []string          `json:"exclude_symbols"`
	ExcludeSymbolsRegex       []string          `json:"exclude_symbols_regex"`
	NativeConstants           map[string]string `json:"native_constants"`
	IDLSchemaVersion          int               `json:"idl_schema_version"`
}

// SortedTargetNames returns target names in the sorted order spec §5
// mandates every command process them in.
func (c Config) SortedTargetNames() []string {
	out := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
