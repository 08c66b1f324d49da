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
	"fmt"
	"regexp"
	"strings"

	"github.com/abi-framework/abi-framework/internal/fingerprint"
)

var structTypedefRe = regexp.MustCompile(`(?s)typedef\s+struct(?:\s+\w+)?\s*\{([\s\S]*?)\}\s*([A-Za-z_][A-Za-z0-9_]*)\s*;`)

var funcPointerFieldRe = regexp.MustCompile(`\(\s*\*\s*([A-Za-z_]\w*)\s*\)\s*\(`)
var bitfieldRe = regexp.MustCompile(`\b([A-Za-z_]\w*)\s*:\s*[0-9]+\s*$`)
var arrayFieldRe = regexp.MustCompile(`\b([A-Za-z_]\w*)\s*((?:\[[^\]]*\])+)\s*$`)
var trailingIdentRe = regexp.MustCompile(`\b([A-Za-z_]\w*)\s*$`)

// parseStructs finds every `typedef struct [TAG] { ... } NAME;` whose NAME
// matches the configured pattern.
func parseStructs(stripped string, opts Options) (map[string]Struct, error) {
	pattern := opts.structPattern()
	out := map[string]Struct{}
	for _, m := range structTypedefRe.FindAllStringSubmatch(stripped, -1) {
		body, name := m[1], strings.TrimSpace(m[2])
		if !pattern.MatchString(name) {
			continue
		}
		fields := splitStructDecls(body)
		out[name] = Struct{
			Name:        name,
			Fields:      fields,
			Fingerprint: fingerprintStructFields(fields),
		}
	}
	return out, nil
}

// splitStructDecls concatenates lines until a top-level ';' terminates a
// declaration, skipping preprocessor lines (spec §4.1). Each declaration
// is then classified and named.
func splitStructDecls(body string) []StructField {
	var decls []string
	var cur strings.Builder
	for _, line := range strings.Split(body, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		cur.WriteString(" ")
		cur.WriteString(line)
		if strings.Contains(line, ";") {
			// Split on ';' inside this accumulated chunk: most
			// declarations are one-per-line, but this also copes with
			// "int a; int b;" on one physical line.
			chunk := cur.String()
			parts := strings.Split(chunk, ";")
			for i := 0; i < len(parts)-1; i++ {
				d := strings.TrimSpace(parts[i])
				if d != "" {
					decls = append(decls, d)
				}
			}
			cur.Reset()
			cur.WriteString(parts[len(parts)-1])
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		decls = append(decls, strings.TrimSpace(cur.String()))
	}

	fields := make([]StructField, 0, len(decls))
	unnamed := 0
	for _, d := range decls {
		name, declaration := classifyFieldDecl(d)
		if name == "" {
			name = fmt.Sprintf("__unnamed_%d", unnamed)
			unnamed++
		}
		fields = append(fields, StructField{Name: name, Declaration: declaration})
	}
	return fields
}

// classifyFieldDecl identifies a struct field's name from its declaration
// shape: function-pointer (`(*name)(`), bitfield (`name : bits`), array
// (`name[dim]`), or a plain `type name`. It returns "" for a name it
// can't extract (the caller assigns a synthetic __unnamed_N).
func classifyFieldDecl(d string) (name string, declaration string) {
	declaration = Canonicalize(d)
	if m := funcPointerFieldRe.FindStringSubmatch(d); m != nil {
		return m[1], declaration
	}
	if m := bitfieldRe.FindStringSubmatch(d); m != nil {
		return m[1], declaration
	}
	if m := arrayFieldRe.FindStringSubmatch(d); m != nil {
		return m[1], declaration
	}
	if m := trailingIdentRe.FindStringSubmatch(d); m != nil {
		// A bare type with no field name (e.g. just "int") has exactly
		// one identifier and nothing before it to be a type; treat that
		// as unparseable rather than misreading the type as the name.
		before := strings.TrimSpace(d[:len(d)-len(m[0])])
		if before == "" {
			return "", declaration
		}
		return m[1], declaration
	}
	return "", declaration
}

func fingerprintStructFields(fields []StructField) string {
	out := make([]string, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Name, f.Declaration)
	}
	return fingerprint.Of(out...)
}
