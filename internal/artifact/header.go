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

// Package artifact implements the C7 Artifact Renderer: turning an IDL
// document back into the downstream files a native build consumes (a
// canonical C header, a linker export map) and dispatching the
// external generators a target configures.
package artifact

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/abi-framework/abi-framework/internal/cgenutil"
	"github.com/abi-framework/abi-framework/internal/cheader"
	"github.com/abi-framework/abi-framework/internal/idl"
)

// HeaderOptions supplements the IDL document's own Codegen block with the
// bits a target's config contributes but the IDL schema has no room for:
// extra hand-specified constants the generated header should also carry.
type HeaderOptions struct {
	ExtraConstants map[string]string
}

var macroBaseTrim = regexp.MustCompile(`_API$`)
var nonMacroChar = regexp.MustCompile(`[^A-Za-z0-9_]`)

// RenderHeader assembles the canonical C header per spec §4.7: include
// guard, extern "C" guard, stddef/stdint/stdbool includes, an
// import/export macro block, prefixed constants, the version triple,
// opaque typedefs, callback typedefs, enums, structs and function
// declarations, each block sorted and deduplicated where the spec calls
// for it. The result is reindented by cgenutil before being returned.
func RenderHeader(doc idl.Document, opts HeaderOptions) []byte {
	guard := doc.Codegen.NativeHeaderGuard
	if guard == "" {
		guard = sanitizeMacroName(doc.Target) + "_H_"
	}
	apiMacro := doc.Codegen.NativeAPIMacro
	callMacro := doc.Codegen.NativeCallMacro
	versionPrefix := sanitizeMacroName(doc.Target)

	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s\n", guard)
	fmt.Fprintf(&b, "#define %s\n", guard)
	b.WriteString("\n")
	b.WriteString("#ifdef __cplusplus\n")
	b.WriteString("extern \"C\" {\n")
	b.WriteString("#endif  // extern \"C\"\n")
	b.WriteString("\n")
	b.WriteString("#include <stddef.h>\n")
	b.WriteString("#include <stdint.h>\n")
	b.WriteString("#include <stdbool.h>\n")
	b.WriteString("\n")

	if apiMacro != "" {
		base := macroBaseTrim.ReplaceAllString(apiMacro, "")
		fmt.Fprintf(&b, "#if defined(_WIN32) && defined(%s_DLL)\n", base)
		fmt.Fprintf(&b, "#if defined(%s_EXPORTS)\n", base)
		fmt.Fprintf(&b, "#define %s __declspec(dllexport)\n", apiMacro)
		b.WriteString("#else\n")
		fmt.Fprintf(&b, "#define %s __declspec(dllimport)\n", apiMacro)
		b.WriteString("#endif\n")
		b.WriteString("#else\n")
		fmt.Fprintf(&b, "#define %s\n", apiMacro)
		b.WriteString("#endif\n")
		b.WriteString("\n")
	}

	constants := mergedConstants(doc.HeaderTypes.Constants, opts.ExtraConstants)
	for _, name := range sortedKeys(constants) {
		fmt.Fprintf(&b, "#define %s %s\n", name, constants[name])
	}
	if len(constants) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "#define %s_VERSION_MAJOR %d\n", versionPrefix, doc.AbiVersion.Major)
	fmt.Fprintf(&b, "#define %s_VERSION_MINOR %d\n", versionPrefix, doc.AbiVersion.Minor)
	fmt.Fprintf(&b, "#define %s_VERSION_PATCH %d\n", versionPrefix, doc.AbiVersion.Patch)
	b.WriteString("\n")

	// idl.Build derives a forward typedef for any "..._t" handle referenced
	// only in a signature or struct field (spec §8 scenario 5), so this
	// loop covers both explicitly-declared and derived opaque handles.
	for _, name := range sortedOpaqueHandleNames(doc.HeaderTypes.OpaqueHandles) {
		fmt.Fprintf(&b, "typedef struct %s %s;\n", name, name)
	}
	if len(doc.HeaderTypes.OpaqueHandles) > 0 {
		b.WriteString("\n")
	}

	for _, name := range sortedCallbackNames(doc.HeaderTypes.Callbacks) {
		cb := doc.HeaderTypes.Callbacks[name]
		fmt.Fprintf(&b, "%s;\n", cb.Declaration)
	}
	if len(doc.HeaderTypes.Callbacks) > 0 {
		b.WriteString("\n")
	}

	for _, name := range sortedEnumNames(doc.HeaderTypes.Enums) {
		renderEnum(&b, doc.HeaderTypes.Enums[name])
	}

	for _, name := range sortedStructNames(doc.HeaderTypes.Structs) {
		renderStruct(&b, doc.HeaderTypes.Structs[name])
	}

	names := make([]string, 0, len(doc.Functions))
	byName := make(map[string]idl.Function, len(doc.Functions))
	for _, f := range doc.Functions {
		names = append(names, f.Name)
		byName[f.Name] = f
	}
	sort.Strings(names)
	for _, name := range names {
		renderFunctionDecl(&b, byName[name], apiMacro, callMacro)
	}

	b.WriteString("\n")
	b.WriteString("#ifdef __cplusplus\n")
	b.WriteString("}  // extern \"C\"\n")
	b.WriteString("#endif  // extern \"C\"\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "#endif  /* %s */\n", guard)

	return cgenutil.FormatBytes(nil, []byte(b.String()))
}

func sanitizeMacroName(s string) string {
	return strings.ToUpper(nonMacroChar.ReplaceAllString(s, "_"))
}

func mergedConstants(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func renderEnum(b *strings.Builder, e cheader.Enum) {
	fmt.Fprintf(b, "typedef enum {\n")
	for _, m := range e.Members {
		switch {
		case m.ValueExpr != nil:
			fmt.Fprintf(b, "%s = %s,\n", m.Name, *m.ValueExpr)
		case m.Value != nil:
			fmt.Fprintf(b, "%s = %d,\n", m.Name, *m.Value)
		default:
			fmt.Fprintf(b, "%s,\n", m.Name)
		}
	}
	fmt.Fprintf(b, "} %s;\n\n", e.Name)
}

func renderStruct(b *strings.Builder, s cheader.Struct) {
	fmt.Fprintf(b, "typedef struct {\n")
	for _, f := range s.Fields {
		fmt.Fprintf(b, "%s;\n", f.Declaration)
	}
	fmt.Fprintf(b, "} %s;\n\n", s.Name)
}

func renderFunctionDecl(b *strings.Builder, f idl.Function, apiMacro, callMacro string) {
	tokens := make([]string, 0, 4)
	if apiMacro != "" {
		tokens = append(tokens, apiMacro)
	}
	tokens = append(tokens, f.CReturnType)
	if callMacro != "" {
		tokens = append(tokens, callMacro)
	}
	fmt.Fprintf(b, "%s %s(%s);\n", strings.Join(tokens, " "), f.Name, renderParamList(f.Parameters))
}

func renderParamList(params []idl.Parameter) string {
	if len(params) == 0 {
		return "void"
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		switch {
		case p.Variadic:
			parts = append(parts, "...")
		case strings.Contains(p.CType, "(*)"):
			parts = append(parts, strings.Replace(p.CType, "(*)", "(*"+p.Name+")", 1))
		case p.Name == "":
			parts = append(parts, p.CType)
		default:
			parts = append(parts, p.CType+" "+p.Name)
		}
	}
	return strings.Join(parts, ", ")
}

func sortedOpaqueHandleNames(m map[string]cheader.OpaqueHandle) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedCallbackNames(m map[string]cheader.Callback) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedEnumNames(m map[string]cheader.Enum) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedStructNames(m map[string]cheader.Struct) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
