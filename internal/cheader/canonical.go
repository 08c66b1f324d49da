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
	"regexp"
	"strings"
)

var callingConventionTokens = regexp.MustCompile(
	`\b(__cdecl|__stdcall|__fastcall|__vectorcall|__thiscall)\b`)

var whitespaceRun = regexp.MustCompile(`\s+`)
var boolKeyword = regexp.MustCompile(`\b_Bool\b`)
var starRun = regexp.MustCompile(`\s*\*\s*`)

// Canonicalize reduces a type or parameter-list string to the canonical
// form spec §4.1 defines: the only thing compared across snapshots. It is
// idempotent: Canonicalize(Canonicalize(s)) == Canonicalize(s).
func Canonicalize(s string) string {
	s = stripAttributeCalls(s, "__attribute__")
	s = stripAttributeCalls(s, "__declspec")
	s = callingConventionTokens.ReplaceAllString(s, "")
	s = boolKeyword.ReplaceAllString(s, "bool")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = starRun.ReplaceAllString(s, "*")
	return strings.TrimSpace(s)
}

// stripAttributeCalls deletes every balanced `marker(...)` call in s using
// paren-depth tracking, so nested parens inside the call body (as in
// `__attribute__((aligned(16)))`) don't truncate the deletion early. A
// marker occurrence not immediately followed by '(' (ignoring spaces) is
// left untouched -- it isn't a macro call.
func stripAttributeCalls(s string, marker string) string {
	var out strings.Builder
	for {
		idx := strings.Index(s, marker)
		if idx < 0 {
			out.WriteString(s)
			return out.String()
		}
		out.WriteString(s[:idx])

		rest := s[idx+len(marker):]
		trimmed := strings.TrimLeft(rest, " \t")
		if len(trimmed) == 0 || trimmed[0] != '(' {
			out.WriteString(marker)
			s = rest
			continue
		}

		depth := 0
		end := -1
		for i := 0; i < len(trimmed); i++ {
			switch trimmed[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = i + 1
				}
			}
			if end >= 0 {
				break
			}
		}
		if end < 0 {
			// Unbalanced parens: leave the rest of the string untouched
			// rather than loop forever.
			out.WriteString(marker)
			out.WriteString(rest)
			return out.String()
		}
		s = trimmed[end:]
	}
}
