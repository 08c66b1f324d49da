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
	"sort"

	"github.com/abi-framework/abi-framework/internal/cheader"
	"github.com/abi-framework/abi-framework/internal/fingerprint"
)

// typedefNamePattern matches a bare `..._t` identifier, the shape C1's
// opaque-handle detector itself requires.
var typedefNamePattern = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*_t\b`)

// Options configures one Build call.
type Options struct {
	Target  string
	Source  string
	Filter  SymbolFilter
	Codegen Codegen
}

// Build assembles the C6 IDL document from a header payload.
func Build(payload cheader.Payload, opts Options) Document {
	names := make([]string, 0, len(payload.Functions))
	for name := range payload.Functions {
		if opts.Filter.Includes(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	functions := make([]Function, 0, len(names))
	for _, name := range names {
		fn := payload.Functions[name]
		params := ParseParameters(fn.ParametersRaw)
		f := Function{
			Name:           fn.Name,
			CReturnType:    fn.ReturnType,
			CParametersRaw: fn.ParametersRaw,
			Parameters:     params,
			Availability:   Availability{SinceAbi: payload.Version},
		}
		f.StableID = stableID(f)
		functions = append(functions, f)
	}

	opaqueHandles := payload.OpaqueHandles
	if len(opaqueHandles) == 0 {
		opaqueHandles = deriveOpaqueHandles(functions, payload.Structs, payload.Enums)
	}

	doc := Document{
		IdlSchemaVersion: SchemaVersion,
		Tool:             "abi-framework",
		Target:           opts.Target,
		AbiVersion:       payload.Version,
		Source:           opts.Source,
		Summary: Summary{
			FunctionCount: len(functions),
			EnumCount:     len(payload.Enums),
			StructCount:   len(payload.Structs),
		},
		Functions: functions,
		HeaderTypes: HeaderTypes{
			Enums:         payload.Enums,
			Structs:       payload.Structs,
			OpaqueHandles: opaqueHandles,
			Callbacks:     payload.Callbacks,
			Constants:     payload.Constants,
		},
		Codegen: opts.Codegen,
	}
	doc.ContentFingerprint = contentFingerprint(doc)
	return doc
}

// deriveOpaqueHandles implements spec §8 scenario 5: when a header never
// declares `typedef struct X X;` for a handle it still passes by pointer,
// scan every function's return type and parameter types, plus every
// struct field declaration, for bare `..._t` tokens and synthesize a
// forward typedef for each one not already a known enum or struct name.
// Only runs when C1 found no explicit opaque handles, matching the
// explicit-list-wins precedence the original codegen applies.
func deriveOpaqueHandles(functions []Function, structs map[string]cheader.Struct, enums map[string]cheader.Enum) map[string]cheader.OpaqueHandle {
	candidates := map[string]struct{}{}
	for _, f := range functions {
		for _, tok := range typedefNamePattern.FindAllString(f.CReturnType, -1) {
			candidates[tok] = struct{}{}
		}
		for _, p := range f.Parameters {
			for _, tok := range typedefNamePattern.FindAllString(p.CType, -1) {
				candidates[tok] = struct{}{}
			}
		}
	}
	for _, s := range structs {
		for _, field := range s.Fields {
			for _, tok := range typedefNamePattern.FindAllString(field.Declaration, -1) {
				candidates[tok] = struct{}{}
			}
		}
	}

	out := map[string]cheader.OpaqueHandle{}
	for name := range candidates {
		if _, isEnum := enums[name]; isEnum {
			continue
		}
		if _, isStruct := structs[name]; isStruct {
			continue
		}
		out[name] = cheader.OpaqueHandle{Name: name}
	}
	return out
}

// stableID hashes (name, c_return_type, [(param_name, c_type)]) so it
// never changes when unrelated functions change.
func stableID(f Function) string {
	fields := []string{f.Name, f.CReturnType}
	for _, p := range f.Parameters {
		fields = append(fields, p.Name, p.CType)
	}
	return fingerprint.Of(fields...)
}

// contentFingerprint hashes (target, abi_version, flat sorted function
// triples) so identical ABI surfaces on identical targets yield
// identical fingerprints regardless of map/slice iteration order.
func contentFingerprint(doc Document) string {
	triples := make([]string, 0, len(doc.Functions))
	for _, f := range doc.Functions {
		triples = append(triples, f.Name+"\x1f"+f.CReturnType+"\x1f"+f.CParametersRaw)
	}
	sort.Strings(triples)

	fields := append([]string{doc.Target, doc.AbiVersion.String()}, triples...)
	return fingerprint.Of(fields...)
}
