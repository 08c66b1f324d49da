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

// Package idl implements C6: flattening a header payload into the
// stable, fingerprinted Interface Description external generators
// consume.
package idl

import (
	"github.com/abi-framework/abi-framework/internal/cheader"
	"github.com/abi-framework/abi-framework/internal/semver"
)

const SchemaVersion = 1

// Parameter is one ordered function parameter, post-array/function-
// pointer rewriting.
type Parameter struct {
	Name         string `json:"name"`
	CType        string `json:"c_type"`
	PointerDepth int    `json:"pointer_depth"`
	Variadic     bool   `json:"variadic"`
}

// Availability records the ABI version a function first appeared in.
// abi-framework doesn't track per-symbol history across baselines, so
// this always mirrors the document's own abi_version; it exists so the
// shape matches what downstream generators expect.
type Availability struct {
	SinceAbi semver.Version `json:"since_abi"`
}

// Function is one IDL-level function entry.
type Function struct {
	Name          string        `json:"name"`
	CReturnType   string        `json:"c_return_type"`
	CParametersRaw string       `json:"c_parameters_raw"`
	Parameters    []Parameter   `json:"parameters"`
	Documentation string        `json:"documentation,omitempty"`
	Deprecated    bool          `json:"deprecated,omitempty"`
	Availability  Availability  `json:"availability"`
	StableID      string        `json:"stable_id"`
}

// HeaderTypes copies the non-function header records verbatim, keys
// sorted at serialization time by virtue of Go's map JSON encoding.
type HeaderTypes struct {
	Enums         map[string]cheader.Enum         `json:"enums"`
	Structs       map[string]cheader.Struct        `json:"structs"`
	OpaqueHandles map[string]cheader.OpaqueHandle  `json:"opaque_handles"`
	Callbacks     map[string]cheader.Callback       `json:"callbacks"`
	Constants     map[string]string                 `json:"constants"`
}

// Codegen mirrors the subset of target codegen config useful to
// downstream consumers reading the IDL in isolation.
type Codegen struct {
	NativeHeaderGuard string `json:"native_header_guard,omitempty"`
	NativeAPIMacro    string `json:"native_api_macro,omitempty"`
	NativeCallMacro   string `json:"native_call_macro,omitempty"`
}

// Summary is a small at-a-glance count block.
type Summary struct {
	FunctionCount int `json:"function_count"`
	EnumCount     int `json:"enum_count"`
	StructCount   int `json:"struct_count"`
}

// Document is the complete C6 output, `idl_schema_version=1`.
type Document struct {
	IdlSchemaVersion  int            `json:"idl_schema_version"`
	Tool              string         `json:"tool"`
	ContentFingerprint string        `json:"content_fingerprint"`
	Target            string         `json:"target"`
	AbiVersion        semver.Version `json:"abi_version"`
	Source            string         `json:"source,omitempty"`
	Summary           Summary        `json:"summary"`
	Functions         []Function     `json:"functions"`
	HeaderTypes       HeaderTypes    `json:"header_types"`
	Codegen           Codegen        `json:"codegen"`
}
