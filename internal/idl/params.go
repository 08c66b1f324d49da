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

package idl

import (
	"regexp"
	"strings"

	"github.com/abi-framework/abi-framework/internal/cheader"
)

var (
	funcPointerParamRe = regexp.MustCompile(`^(.+?)\(\s*\*\s*([A-Za-z_]\w*)\s*\)\s*\((.*)\)$`)
	arrayParamRe       = regexp.MustCompile(`^(.+?)\b([A-Za-z_]\w*)\s*\[\s*\w*\s*\]$`)
	trailingNameRe     = regexp.MustCompile(`([A-Za-z_]\w*)\s*$`)
)

// ParseParameters splits a canonical parameters_raw string into ordered
// parameters per spec §4.5: a function-pointer parameter is detected via
// `(*name)(...)`, an array parameter `T name[N]` is rewritten to pointer
// type `T*`, and `...` becomes one variadic parameter.
func ParseParameters(parametersRaw string) []Parameter {
	raw := strings.TrimSpace(parametersRaw)
	if raw == "" || raw == "void" {
		return nil
	}

	var out []Parameter
	for _, part := range splitTopLevelCommas(raw) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "..." {
			out = append(out, Parameter{Name: "...", Variadic: true})
			continue
		}
		out = append(out, parseOneParameter(part))
	}
	return out
}

func parseOneParameter(decl string) Parameter {
	decl = cheader.Canonicalize(decl)

	if m := funcPointerParamRe.FindStringSubmatch(decl); m != nil {
		retType := strings.TrimSpace(m[1])
		name := m[2]
		params := strings.TrimSpace(m[3])
		cType := retType + " (*)(" + params + ")"
		return Parameter{Name: name, CType: cType, PointerDepth: countStars(retType) + 1}
	}

	if m := arrayParamRe.FindStringSubmatch(decl); m != nil {
		baseType := strings.TrimSpace(m[1])
		name := m[2]
		cType := baseType + "*"
		return Parameter{Name: name, CType: strings.TrimSpace(cType), PointerDepth: countStars(baseType) + 1}
	}

	m := trailingNameRe.FindStringSubmatch(decl)
	if m == nil {
		return Parameter{CType: decl}
	}
	name := m[1]
	typePart := strings.TrimSpace(decl[:len(decl)-len(m[0])])
	return Parameter{Name: name, CType: typePart, PointerDepth: countStars(typePart)}
}

func countStars(s string) int {
	return strings.Count(s, "*")
}

// splitTopLevelCommas splits on commas that are not inside parentheses
// (guards against splitting a function-pointer parameter's own argument
// list).
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
