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

// parseConstants collects `#define NAME VALUE` where NAME starts with
// UPPER(symbol_prefix), excluding the version triple macros (those are
// surfaced separately as Payload.Version).
func parseConstants(stripped string, opts Options) map[string]string {
	upperPrefix := strings.ToUpper(opts.SymbolPrefix)
	versionMacros := map[string]bool{
		opts.VersionMacros.Major: true,
		opts.VersionMacros.Minor: true,
		opts.VersionMacros.Patch: true,
	}

	out := map[string]string{}
	for _, m := range defineRe.FindAllStringSubmatch(stripped, -1) {
		name, value := m[1], m[2]
		if !strings.HasPrefix(name, upperPrefix) {
			continue
		}
		if versionMacros[name] {
			continue
		}
		out[name] = normalizeWhitespace(value)
	}
	return out
}

func normalizeWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}
