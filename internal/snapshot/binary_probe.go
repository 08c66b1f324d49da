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

package snapshot

import (
	"context"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/abi-framework/abi-framework/internal/runner"
)

// BinaryProbeOptions configures the binary export probe. A zero-value
// Path means "no binary configured"; the probe then returns
// Binary{Available:false} without attempting anything.
type BinaryProbeOptions struct {
	Path         string
	SymbolPrefix string
	Tools        []string // overrides the platform default preference order
	GOOS         string   // overrides runtime.GOOS, for tests
}

// platformToolOrder is the fixed per-platform symbol-listing tool
// preference order spec §4.2 names.
func platformToolOrder(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"nm", "dyld_info"}
	case "windows":
		return []string{"dumpbin", "llvm-nm"}
	case "linux":
		return []string{"nm", "objdump", "readelf"}
	default:
		return []string{"nm", "objdump"}
	}
}

var stdcallDecorationRe = regexp.MustCompile(`@\d+$`)

// canonicalizeExportedSymbol strips a leading underscore (the classic
// C-name-mangling prefix many toolchains add on Windows/macOS) and a
// trailing `@<digits>` stdcall decoration, so the binary's raw export
// names compare directly against the header's undecorated symbol names.
func canonicalizeExportedSymbol(raw string) (canonical string, wasDecorated bool) {
	s := raw
	s = stdcallDecorationRe.ReplaceAllString(s, "")
	if s != raw {
		wasDecorated = true
	}
	if strings.HasPrefix(s, "_") {
		s = strings.TrimPrefix(s, "_")
		wasDecorated = true
	}
	return s, wasDecorated
}

// ProbeBinary lists a shared library's exported symbols and canonicalizes
// them, per spec §4.2. Any failure to locate a tool or run it produces
// Binary{Available:false, Reason:...} rather than a fatal error -- the
// binary sidecar is optional by design.
func ProbeBinary(ctx context.Context, r runner.CommandRunner, opts BinaryProbeOptions) Binary {
	if opts.Path == "" {
		return Binary{Available: false, Reason: "no binary configured"}
	}

	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	tools := opts.Tools
	if len(tools) == 0 {
		tools = platformToolOrder(goos)
	}

	var lastErr string
	for _, tool := range tools {
		path := runner.LookPath(tool)
		if path == "" {
			lastErr = tool + " not found on PATH"
			continue
		}
		args := symbolListArgs(tool, opts.Path)
		res, err := r.Run(ctx, "", tool, args...)
		if err != nil {
			lastErr = tool + ": " + err.Error()
			continue
		}
		if res.ExitCode != 0 {
			lastErr = tool + ": exit " + strconv.Itoa(res.ExitCode)
			continue
		}
		raw := extractSymbolNames(tool, res.Stdout)
		return buildBinarySnapshot(tool, raw, opts.SymbolPrefix)
	}

	if lastErr == "" {
		lastErr = "no symbol-listing tool available"
	}
	return Binary{Available: false, Reason: lastErr}
}

func symbolListArgs(tool, path string) []string {
	switch tool {
	case "nm":
		return []string{"-D", "--defined-only", path}
	case "objdump":
		return []string{"-T", path}
	case "readelf":
		return []string{"--dyn-syms", path}
	case "dumpbin":
		return []string{"/EXPORTS", path}
	case "llvm-nm", "dyld_info":
		return []string{"-g", path}
	default:
		return []string{path}
	}
}

var nmLineRe = regexp.MustCompile(`(?m)^[0-9a-fA-F]*\s*[A-Za-z]\s+(\S+)\s*$`)
var dumpbinLineRe = regexp.MustCompile(`(?m)^\s*\d+\s+[0-9A-Fa-f]+\s+[0-9A-Fa-f]+\s+(\S+)`)

func extractSymbolNames(tool, stdout string) []string {
	var re *regexp.Regexp
	switch tool {
	case "dumpbin":
		re = dumpbinLineRe
	default:
		re = nmLineRe
	}
	var out []string
	for _, m := range re.FindAllStringSubmatch(stdout, -1) {
		out = append(out, m[1])
	}
	return out
}

func buildBinarySnapshot(tool string, raw []string, prefix string) Binary {
	symbolSet := map[string]bool{}
	var nonPrefixed, decorated []string
	for _, name := range raw {
		canon, wasDecorated := canonicalizeExportedSymbol(name)
		if wasDecorated {
			decorated = append(decorated, name)
		}
		if !strings.HasPrefix(canon, prefix) {
			nonPrefixed = append(nonPrefixed, canon)
			continue
		}
		symbolSet[canon] = true
	}

	symbols := make([]string, 0, len(symbolSet))
	for s := range symbolSet {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	sort.Strings(nonPrefixed)
	sort.Strings(decorated)

	return Binary{
		Available:          true,
		Symbols:            symbols,
		NonPrefixedExports: nonPrefixed,
		DecoratedExports:   decorated,
		Tool:               tool,
	}
}
