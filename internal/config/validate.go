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

package config

import (
	"regexp"

	"github.com/abi-framework/abi-framework/internal/differ"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/policy"
)

var targetNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Validate checks required keys and enumerated field values per spec
// §7's config-error taxonomy. It returns the first violation found, as
// a *ferr.Error with KindConfig.
func Validate(cfg Config) error {
	if err := validatePolicy(cfg.Policy, "policy"); err != nil {
		return err
	}
	if len(cfg.Targets) == 0 {
		return ferr.New(ferr.KindConfig, "config has no targets")
	}
	for name, t := range cfg.Targets {
		if !targetNameRe.MatchString(name) {
			return ferr.New(ferr.KindConfig, "target name %q is not a valid identifier", name)
		}
		if err := validateTarget(name, t); err != nil {
			return err
		}
	}
	return nil
}

func validateTarget(name string, t Target) error {
	if t.Header.Path == "" {
		return ferr.New(ferr.KindConfig, "target %q: header.path is required", name)
	}
	if t.Header.SymbolPrefix == "" {
		return ferr.New(ferr.KindConfig, "target %q: header.symbol_prefix is required", name)
	}
	switch t.Header.Parser.Backend {
	case "", "regex", "clang_preprocess":
	default:
		return ferr.New(ferr.KindConfig, "target %q: header.parser.backend %q is not one of regex, clang_preprocess", name, t.Header.Parser.Backend)
	}

	for _, g := range t.Bindings.Generators {
		if g.Kind != "external" {
			return ferr.New(ferr.KindConfig, "target %q: generator kind %q is not one of: external", name, g.Kind)
		}
		if len(g.Command) == 0 {
			return ferr.New(ferr.KindConfig, "target %q: generator entry has an empty command template", name)
		}
	}

	if t.Codegen.IDLSchemaVersion != 0 && t.Codegen.IDLSchemaVersion != 1 {
		return ferr.New(ferr.KindConfig, "target %q: idl_schema_version %d is fatal, only 1 is supported", name, t.Codegen.IDLSchemaVersion)
	}

	return validatePolicy(t.Policy, "target "+name+".policy")
}

func validatePolicy(p policy.Policy, where string) error {
	switch p.MaxAllowedClassification {
	case "", differ.ClassificationNone, differ.ClassificationAdditive, differ.ClassificationBreaking:
	default:
		return ferr.New(ferr.KindConfig, "%s: max_allowed_classification %q is not one of none, additive, breaking", where, p.MaxAllowedClassification)
	}
	for _, r := range p.Rules {
		switch r.Severity {
		case policy.SeverityError, policy.SeverityWarning:
		default:
			return ferr.New(ferr.KindConfig, "%s: rule %q has invalid severity %q", where, r.ID, r.Severity)
		}
	}
	for _, w := range p.Waivers {
		switch w.Severity {
		case policy.SeverityError, policy.SeverityWarning, policy.SeverityAny:
		default:
			return ferr.New(ferr.KindConfig, "%s: waiver %q has invalid severity %q", where, w.ID, w.Severity)
		}
	}
	return nil
}
