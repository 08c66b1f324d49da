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

// Go's regexp package (RE2) has no backreferences, so the two occurrences
// of X in `typedef struct X X;` are captured as separate groups and
// compared for equality in Go rather than matched with `\1`.
var opaqueHandleRe = regexp.MustCompile(`typedef\s+struct\s+([A-Za-z_]\w*)\s+([A-Za-z_]\w*)\s*;`)

// parseOpaqueHandles matches `typedef struct X X;` where X starts with
// symbol_prefix and ends in "_t".
func parseOpaqueHandles(stripped string, opts Options) map[string]OpaqueHandle {
	out := map[string]OpaqueHandle{}
	for _, m := range opaqueHandleRe.FindAllStringSubmatch(stripped, -1) {
		if m[1] != m[2] {
			continue
		}
		name := m[1]
		if strings.HasPrefix(name, opts.SymbolPrefix) && strings.HasSuffix(name, "_t") {
			out[name] = OpaqueHandle{Name: name}
		}
	}
	return out
}

var callbackTypedefReTemplate = `(?s)typedef\s+(.+?)\s*\(\s*%CALLMACRO%\s*\*\s*(%PREFIX%[A-Za-z0-9_]*_cb)\s*\)\s*\(([\s\S]*?)\)\s*;`

// parseCallbacks matches `typedef <ret> (<call_macro> * name)(...);` where
// name matches `<prefix>..._cb`, preserving the raw declaration
// (whitespace-normalized) for downstream emission.
func parseCallbacks(stripped string, opts Options) map[string]Callback {
	callMacro := opts.CallMacro
	if callMacro == "" {
		callMacro = `\w*`
	} else {
		callMacro = regexp.QuoteMeta(callMacro)
	}
	pattern := strings.NewReplacer(
		"%CALLMACRO%", callMacro,
		"%PREFIX%", regexp.QuoteMeta(opts.SymbolPrefix),
	).Replace(callbackTypedefReTemplate)
	re := regexp.MustCompile(pattern)

	out := map[string]Callback{}
	for _, m := range re.FindAllStringSubmatch(stripped, -1) {
		ret, name, params := Canonicalize(m[1]), strings.TrimSpace(m[2]), Canonicalize(m[3])
		decl := "typedef " + ret + " (" + opts.CallMacro + " *" + name + ")(" + params + ")"
		out[name] = Callback{Name: name, Declaration: decl}
	}
	return out
}
