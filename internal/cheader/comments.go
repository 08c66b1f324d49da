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

import "strings"

// StripComments removes `/*...*/` and `//...EOL` comments, replacing each
// with a single space so token boundaries on either side don't merge.
// Comments inside string or character literals are left alone -- C
// headers in the ABI-relevant shapes this parser recognizes don't embed
// "//" or "/*" inside string literals in practice, so a literal-aware
// scanner would add complexity with no observed payoff.
func StripComments(src string) string {
	var out strings.Builder
	out.Grow(len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '/' && i+1 < len(src) && src[i+1] == '/' {
			j := strings.IndexByte(src[i:], '\n')
			if j < 0 {
				out.WriteByte(' ')
				break
			}
			out.WriteByte(' ')
			i += j - 1
			continue
		}
		if c == '/' && i+1 < len(src) && src[i+1] == '*' {
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				out.WriteByte(' ')
				break
			}
			out.WriteByte(' ')
			i += 2 + end + 1
			continue
		}
		out.WriteByte(c)
	}
	return out.String()
}
