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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abi-framework/abi-framework/internal/cheader"
	"github.com/abi-framework/abi-framework/internal/runner"
)

// LayoutProbeOptions configures the struct layout probe.
type LayoutProbeOptions struct {
	HeaderPath string
	Compiler   string // resolved compiler path/name; empty disables the probe
	Flags      []string
	Structs    map[string]cheader.Struct
	WorkDir    string // directory the probe program is written to and run from
}

type layoutProbeRecord struct {
	Name      string           `json:"name"`
	Size      int64            `json:"size"`
	Alignment int64            `json:"alignment"`
	Offsets   map[string]int64 `json:"offsets"`
}

// ProbeLayout synthesizes a small C program that prints each struct's
// sizeof/_Alignof/offsetof as JSON, compiles it with opts.Compiler, and
// runs it, per spec §4.2. Any failure along the way (no compiler, compile
// error, run error, malformed output) yields
// LayoutProbe{Available:false, Reason:...} rather than a fatal error.
func ProbeLayout(ctx context.Context, r runner.CommandRunner, opts LayoutProbeOptions) LayoutProbe {
	if opts.Compiler == "" {
		return LayoutProbe{Available: false, Reason: "no layout-probe compiler configured"}
	}
	if len(opts.Structs) == 0 {
		return LayoutProbe{Available: false, Reason: "no structs to probe"}
	}

	names := make([]string, 0, len(opts.Structs))
	for name := range opts.Structs {
		names = append(names, name)
	}
	sort.Strings(names)

	workDir := opts.WorkDir
	if workDir == "" {
		var err error
		workDir, err = os.MkdirTemp("", "abi-layout-probe-*")
		if err != nil {
			return LayoutProbe{Available: false, Reason: "mkdtemp: " + err.Error()}
		}
		defer os.RemoveAll(workDir)
	}

	src := generateLayoutProbeSource(opts.HeaderPath, names, opts.Structs)
	srcPath := filepath.Join(workDir, "abi_layout_probe.c")
	if err := os.WriteFile(srcPath, []byte(src), 0o644); err != nil {
		return LayoutProbe{Available: false, Reason: "write probe source: " + err.Error()}
	}

	binPath := filepath.Join(workDir, "abi_layout_probe.out")
	compileArgs := append(append([]string{}, opts.Flags...), "-o", binPath, srcPath)
	if res, err := r.Run(ctx, workDir, opts.Compiler, compileArgs...); err != nil || res.ExitCode != 0 {
		reason := "compile failed"
		if err != nil {
			reason += ": " + err.Error()
		} else {
			reason += ": " + firstLine(res.Stderr)
		}
		return LayoutProbe{Available: false, Reason: reason}
	}

	res, err := r.Run(ctx, workDir, binPath)
	if err != nil {
		return LayoutProbe{Available: false, Reason: "run probe: " + err.Error()}
	}
	if res.ExitCode != 0 {
		return LayoutProbe{Available: false, Reason: "probe exited " + fmt.Sprint(res.ExitCode) + ": " + firstLine(res.Stderr)}
	}

	var records []layoutProbeRecord
	if err := json.Unmarshal([]byte(res.Stdout), &records); err != nil {
		return LayoutProbe{Available: false, Reason: "malformed probe output: " + err.Error()}
	}

	structs := make(map[string]StructLayout, len(records))
	for _, rec := range records {
		structs[rec.Name] = StructLayout{Size: rec.Size, Alignment: rec.Alignment, Offsets: rec.Offsets}
	}
	return LayoutProbe{Available: true, Structs: structs}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// generateLayoutProbeSource emits a freestanding-ish C program: include the
// target header, then for each struct print one JSON object with its size,
// alignment, and per-field byte offset, assembled as a JSON array on
// stdout.
func generateLayoutProbeSource(headerPath string, names []string, structs map[string]cheader.Struct) string {
	var b strings.Builder
	b.WriteString("#include <stdio.h>\n")
	b.WriteString("#include <stddef.h>\n")
	fmt.Fprintf(&b, "#include %q\n\n", headerPath)
	b.WriteString("int main(void) {\n")
	b.WriteString("  printf(\"[\");\n")
	for i, name := range names {
		st := structs[name]
		if i > 0 {
			b.WriteString("  printf(\",\");\n")
		}
		fmt.Fprintf(&b, "  printf(\"{\\\"name\\\":\\\"%s\\\",\\\"size\\\":%%zu,\\\"alignment\\\":%%zu,\\\"offsets\\\":{\", (size_t)sizeof(%s), (size_t)_Alignof(%s));\n",
			name, name, name)
		for j, f := range st.Fields {
			if j > 0 {
				b.WriteString("  printf(\",\");\n")
			}
			fmt.Fprintf(&b, "  printf(\"\\\"%s\\\":%%zu\", (size_t)offsetof(%s, %s));\n", f.Name, name, f.Name)
		}
		b.WriteString("  printf(\"}\");\n")
	}
	b.WriteString("  printf(\"]\\n\");\n")
	b.WriteString("  return 0;\n")
	b.WriteString("}\n")
	return b.String()
}
