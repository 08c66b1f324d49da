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

package cheader

import (
	"context"
	"regexp"
	"strings"

	"github.com/abi-framework/abi-framework/internal/environment"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/runner"
	"github.com/abi-framework/abi-framework/internal/semver"
)

// VersionMacros names the three `#define` macros the version triple is
// read from.
type VersionMacros struct {
	Major, Minor, Patch string
}

func (v VersionMacros) withDefaults(prefix string) VersionMacros {
	if v.Major == "" {
		v.Major = strings.ToUpper(prefix) + "_VERSION_MAJOR"
	}
	if v.Minor == "" {
		v.Minor = strings.ToUpper(prefix) + "_VERSION_MINOR"
	}
	if v.Patch == "" {
		v.Patch = strings.ToUpper(prefix) + "_VERSION_PATCH"
	}
	return v
}

// Backend selects the C1 parsing strategy.
type Backend string

const (
	BackendRegex           Backend = "regex"
	BackendClangPreprocess Backend = "clang_preprocess"
)

// ClangOptions configures the clang-preprocess backend.
type ClangOptions struct {
	Compiler        string
	Candidates      []string
	Flags           []string
	IncludeDirs     []string
	FallbackToRegex bool
}

// Options configures one Parse call. SymbolPrefix, ApiMacro and CallMacro
// are mandatory for the regex backend; SymbolPrefix alone drives function
// matching in clang-preprocess mode.
type Options struct {
	ApiMacro          string
	CallMacro         string
	SymbolPrefix      string
	VersionMacros     VersionMacros
	Backend           Backend
	Clang             ClangOptions
	EnumNamePattern   *regexp.Regexp
	StructNamePattern *regexp.Regexp
	IgnoreEnums       map[string]bool

	Runner runner.CommandRunner
	Env    environment.Environment
}

func (o Options) enumPattern() *regexp.Regexp {
	if o.EnumNamePattern != nil {
		return o.EnumNamePattern
	}
	return regexp.MustCompile(`^` + regexp.QuoteMeta(o.SymbolPrefix) + `[a-zA-Z0-9_]*_t$`)
}

func (o Options) structPattern() *regexp.Regexp {
	if o.StructNamePattern != nil {
		return o.StructNamePattern
	}
	return regexp.MustCompile(`^` + regexp.QuoteMeta(o.SymbolPrefix) + `[a-zA-Z0-9_]*_t$`)
}

// Parse runs the full C1 pipeline over raw header source: backend
// resolution (with regex fallback), version extraction, and the
// backend-independent enum/struct/opaque/callback/constant passes.
func Parse(ctx context.Context, raw string, opts Options) (Payload, error) {
	if opts.SymbolPrefix == "" {
		return Payload{}, ferr.New(ferr.KindConfig, "symbol_prefix is required")
	}
	opts.VersionMacros = opts.VersionMacros.withDefaults(opts.SymbolPrefix)

	stripped := StripComments(raw)

	version, err := extractVersion(raw, opts.VersionMacros)
	if err != nil {
		return Payload{}, err
	}

	backend := opts.Backend
	if backend == "" {
		backend = BackendRegex
	}

	var functions map[string]Function
	fallbackUsed := false
	fallbackReason := ""

	switch backend {
	case BackendRegex:
		functions, err = parseFunctionsRegex(stripped, opts)
		if err != nil {
			return Payload{}, err
		}
	case BackendClangPreprocess:
		functions, err = parseFunctionsClang(ctx, raw, opts)
		if err != nil {
			if !opts.Clang.FallbackToRegex {
				return Payload{}, ferr.Wrap(ferr.KindTool, err, "clang-preprocess backend failed, no fallback configured")
			}
			fallbackUsed = true
			fallbackReason = err.Error()
			functions, err = parseFunctionsRegex(stripped, opts)
			if err != nil {
				return Payload{}, err
			}
			backend = BackendRegex
		}
	default:
		return Payload{}, ferr.New(ferr.KindConfig, "unknown parser backend %q", backend)
	}

	if len(functions) == 0 {
		return Payload{}, ferr.New(ferr.KindParser, "no ABI functions found")
	}
	for name := range functions {
		if !strings.HasPrefix(name, opts.SymbolPrefix) {
			return Payload{}, ferr.New(ferr.KindParser, "function %q does not match symbol_prefix %q", name, opts.SymbolPrefix)
		}
	}

	enums, err := parseEnums(stripped, opts)
	if err != nil {
		return Payload{}, err
	}
	structs, err := parseStructs(stripped, opts)
	if err != nil {
		return Payload{}, err
	}
	opaques := parseOpaqueHandles(stripped, opts)
	callbacks := parseCallbacks(stripped, opts)
	constants := parseConstants(stripped, opts)

	return Payload{
		Functions:      functions,
		Enums:          enums,
		Structs:        structs,
		OpaqueHandles:  opaques,
		Callbacks:      callbacks,
		Constants:      constants,
		Version:        version,
		Backend:        string(backend),
		FallbackUsed:   fallbackUsed,
		FallbackReason: fallbackReason,
	}, nil
}

var defineRe = regexp.MustCompile(`(?m)^\s*#\s*define\s+([A-Za-z_][A-Za-z0-9_]*)\s+(.+?)\s*$`)

// extractVersion requires exactly one `#define <MACRO> <int>` for each of
// the three version macros, on the comment-stripped raw text (spec §4.1's
// version extraction runs on raw text so macros inside comments are never
// mistaken for the real thing, hence stripping first).
func extractVersion(raw string, macros VersionMacros) (semver.Version, error) {
	stripped := StripComments(raw)
	values := map[string]int{}
	for _, m := range defineRe.FindAllStringSubmatch(stripped, -1) {
		name, expr := m[1], m[2]
		if name != macros.Major && name != macros.Minor && name != macros.Patch {
			continue
		}
		v, ok := evalIntExpr(stripIntegerSuffix(strings.TrimSpace(expr)))
		if !ok {
			continue
		}
		if _, dup := values[name]; dup {
			return semver.Version{}, ferr.New(ferr.KindParser, "version macro %s defined more than once", name)
		}
		values[name] = int(v)
	}
	major, okMajor := values[macros.Major]
	minor, okMinor := values[macros.Minor]
	patch, okPatch := values[macros.Patch]
	if !okMajor || !okMinor || !okPatch {
		return semver.Version{}, ferr.New(ferr.KindParser,
			"required version macro missing (need %s, %s, %s)", macros.Major, macros.Minor, macros.Patch)
	}
	return semver.New(major, minor, patch), nil
}
