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

// Package cheader implements the C1 Header Parser: turning a C header into
// the normalized records spec.md §4.1 describes, without a full C11
// front end. Two backends share the same post-processing: a default regex
// backend matching the macro-decorated shapes the ABI contract requires,
// and a clang-preprocess backend for headers where that contract is
// inconvenient.
package cheader

import (
	"sort"

	"github.com/abi-framework/abi-framework/internal/semver"
)

// Function is a HeaderFunction: one exported ABI function.
type Function struct {
	Name          string
	ReturnType    string
	ParametersRaw string
}

// Signature is spec §3's `"<return_type> (<parameters_raw>)"`.
func (f Function) Signature() string {
	return f.ReturnType + " (" + f.ParametersRaw + ")"
}

// EnumMember is one ordered (name, value) pair inside an enum.
type EnumMember struct {
	Name       string
	Value      *int64
	ValueExpr  *string
}

// Enum is a HeaderEnum.
type Enum struct {
	Name        string
	Members     []EnumMember
	Fingerprint string
}

// StructField is one ordered (field_name, declaration) pair. Identity is
// position + declaration, not name: names may repeat as __unnamed_N.
type StructField struct {
	Name        string
	Declaration string
}

// Struct is a HeaderStruct.
type Struct struct {
	Name        string
	Fields      []StructField
	Fingerprint string
}

// OpaqueHandle is an OpaqueHandleTypedef: `typedef struct X X;` where X
// matches `<prefix>..._t`.
type OpaqueHandle struct {
	Name string
}

// Callback is a CallbackTypedef: `typedef <ret> (<call_macro> * name)(...)`.
type Callback struct {
	Name        string
	Declaration string
}

// Payload is the complete normalized parse of one header.
type Payload struct {
	Functions     map[string]Function
	Enums         map[string]Enum
	Structs       map[string]Struct
	OpaqueHandles map[string]OpaqueHandle
	Callbacks     map[string]Callback
	Constants     map[string]string
	Version       semver.Version
	Backend       string // "regex" or "clang_preprocess"
	FallbackUsed  bool
	FallbackReason string
}

// Symbols returns the sorted set of function names, matching spec §4.2's
// `header.symbols = sorted keys of header.functions` invariant.
func (p Payload) Symbols() []string {
	out := make([]string, 0, len(p.Functions))
	for name := range p.Functions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
