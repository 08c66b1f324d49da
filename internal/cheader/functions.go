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
	"os"
	"regexp"
	"strings"

	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/runner"
)

// parseFunctionsRegex matches spec §4.1's regex-mode shape:
// `<api_macro> <ret> <call_macro> <name>(<params>);` with '.' spanning
// lines. This is the contract: every exported function must be decorated
// with both macros.
func parseFunctionsRegex(stripped string, opts Options) (map[string]Function, error) {
	if opts.ApiMacro == "" || opts.CallMacro == "" {
		return nil, ferr.New(ferr.KindConfig, "api_macro and call_macro are required for the regex backend")
	}
	pattern, err := regexp.Compile(`(?s)\b` + regexp.QuoteMeta(opts.ApiMacro) +
		`\b\s+(.+?)\s+\b` + regexp.QuoteMeta(opts.CallMacro) +
		`\b\s+(` + regexp.QuoteMeta(opts.SymbolPrefix) + `[A-Za-z0-9_]*)\s*\(([\s\S]*?)\)\s*;`)
	if err != nil {
		return nil, ferr.Wrap(ferr.KindParser, err, "invalid api/call macro pattern")
	}

	out := map[string]Function{}
	for _, m := range pattern.FindAllStringSubmatch(stripped, -1) {
		ret := Canonicalize(m[1])
		name := strings.TrimSpace(m[2])
		params := Canonicalize(m[3])
		out[name] = Function{Name: name, ReturnType: ret, ParametersRaw: params}
	}
	return out, nil
}

var clangPreprocessFuncRe = regexp.MustCompile(`(?s)(?m)^\s*(\w[\w\s\*]*?)\s+(%PREFIX%[A-Za-z0-9_]*)\s*\(([\s\S]*?)\)\s*;`)

// parseFunctionsClang resolves and spawns a C preprocessor per spec §4.1's
// compiler-resolution order (explicit compiler, configured candidates,
// platform defaults, environment overrides), then matches the simpler
// `<ret> <name>(<params>);` shape against its stdout -- macros are assumed
// already consumed by the preprocessor.
func parseFunctionsClang(ctx context.Context, raw string, opts Options) (map[string]Function, error) {
	compiler, err := resolveCompiler(opts)
	if err != nil {
		return nil, err
	}
	if opts.Runner == nil {
		return nil, ferr.New(ferr.KindTool, "clang-preprocess backend requires a CommandRunner")
	}

	tmp, err := os.CreateTemp("", "abi-framework-*.h")
	if err != nil {
		return nil, ferr.Wrap(ferr.KindTool, err, "failed to create temp header for preprocessing")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(raw); err != nil {
		tmp.Close()
		return nil, ferr.Wrap(ferr.KindTool, err, "failed to write temp header")
	}
	tmp.Close()

	args := []string{"-E", "-P"}
	for _, d := range opts.Clang.IncludeDirs {
		args = append(args, "-I"+d)
	}
	args = append(args, opts.Clang.Flags...)
	args = append(args, tmp.Name())

	res, err := opts.Runner.Run(ctx, "", compiler, args...)
	if err != nil {
		return nil, ferr.Wrap(ferr.KindTool, err, "preprocessor %q failed to run", compiler)
	}
	if res.ExitCode != 0 {
		return nil, ferr.New(ferr.KindTool, "preprocessor %q exited %d: %s", compiler, res.ExitCode, res.Stderr)
	}

	stripped := StripComments(res.Stdout)
	pattern := regexp.MustCompile(strings.ReplaceAll(clangPreprocessFuncRe.String(), "%PREFIX%", regexp.QuoteMeta(opts.SymbolPrefix)))

	out := map[string]Function{}
	for _, m := range pattern.FindAllStringSubmatch(stripped, -1) {
		ret := Canonicalize(m[1])
		name := strings.TrimSpace(m[2])
		params := Canonicalize(m[3])
		out[name] = Function{Name: name, ReturnType: ret, ParametersRaw: params}
	}
	return out, nil
}

// resolveCompiler implements spec §4.1's preprocessor resolution order:
// explicit `compiler`, then configured candidates, then platform
// defaults, then environment overrides (ABI_CLANG, LLVM_CLANG, CC).
func resolveCompiler(opts Options) (string, error) {
	candidates := []string{}
	if opts.Clang.Compiler != "" {
		candidates = append(candidates, opts.Clang.Compiler)
	}
	candidates = append(candidates, opts.Clang.Candidates...)
	candidates = append(candidates, "clang", "cc", "gcc")
	if opts.Env.AbiClang != "" {
		candidates = append(candidates, opts.Env.AbiClang)
	}
	if opts.Env.LLVMClang != "" {
		candidates = append(candidates, opts.Env.LLVMClang)
	}
	if opts.Env.CC != "" {
		candidates = append(candidates, opts.Env.CC)
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if runner.LookPath(c) != "" {
			return c, nil
		}
	}
	return "", ferr.New(ferr.KindTool, "no C preprocessor resolved (tried explicit, candidates, platform defaults, ABI_CLANG/LLVM_CLANG/CC)")
}
