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

package artifact

import (
	"sort"
	"strings"

	"github.com/abi-framework/abi-framework/internal/idl"
)

// RenderExportMap renders the linker version script per spec §4.7's exact
// shape: every IDL function name, sorted, under a "global:" stanza, with
// everything else hidden under "local: *;".
func RenderExportMap(doc idl.Document) []byte {
	names := make([]string, 0, len(doc.Functions))
	for _, f := range doc.Functions {
		names = append(names, f.Name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("{\n")
	b.WriteString("  global:\n")
	for _, name := range names {
		b.WriteString("    " + name + ";\n")
	}
	b.WriteString("  local:\n")
	b.WriteString("    *;\n")
	b.WriteString("};\n")
	return []byte(b.String())
}
