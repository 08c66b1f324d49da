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

// Package snapshot implements C2: composing a header parse, an expected
// binding symbol list, and the two optional sidecar probes (binary
// exports, struct layout) into one versioned, self-validating Snapshot
// document -- the sole persisted record of a target's ABI surface.
package snapshot

import (
	"time"

	"github.com/abi-framework/abi-framework/internal/cheader"
	"github.com/abi-framework/abi-framework/internal/semver"
)

// Policy is the subset of policy configuration carried inside the
// snapshot itself (spec §3: `policy:{type_policy,strict_semver}`).
type Policy struct {
	TypePolicy   string `json:"type_policy,omitempty"`
	StrictSemver bool   `json:"strict_semver,omitempty"`
}

// Header mirrors cheader.Payload in the snapshot's serialized shape.
type Header struct {
	Symbols       []string                     `json:"symbols"`
	Functions     map[string]cheader.Function  `json:"functions"`
	Enums         map[string]cheader.Enum      `json:"enums"`
	Structs       map[string]cheader.Struct    `json:"structs"`
	OpaqueHandles map[string]cheader.OpaqueHandle `json:"opaque_handles"`
	Callbacks     map[string]cheader.Callback  `json:"callbacks"`
	Constants     map[string]string            `json:"constants"`
	Backend       string                       `json:"backend"`
}

// Bindings is the expected-symbol sidecar (spec §3 Bindings).
type Bindings struct {
	Available bool     `json:"available"`
	Symbols   []string `json:"symbols,omitempty"`
}

// Binary is the binary-export-probe sidecar.
type Binary struct {
	Available         bool     `json:"available"`
	Reason            string   `json:"reason,omitempty"`
	Symbols           []string `json:"symbols,omitempty"`
	NonPrefixedExports []string `json:"non_prefixed_exports,omitempty"`
	DecoratedExports  []string `json:"decorated_exports,omitempty"`
	Tool              string   `json:"tool,omitempty"`
}

// LayoutProbe is the struct-layout-probe sidecar.
type LayoutProbe struct {
	Available bool                         `json:"available"`
	Reason    string                       `json:"reason,omitempty"`
	Structs   map[string]StructLayout      `json:"structs,omitempty"`
}

// StructLayout is one struct's measured size/alignment/offsets.
type StructLayout struct {
	Size      int64            `json:"size"`
	Alignment int64            `json:"alignment"`
	Offsets   map[string]int64 `json:"offsets"`
}

// Snapshot is the complete, versioned record of an ABI surface at one
// point in time (spec §3).
type Snapshot struct {
	Tool           string        `json:"tool"`
	Target         string        `json:"target"`
	GeneratedAtUTC time.Time     `json:"generated_at_utc"`
	AbiVersion     semver.Version `json:"abi_version"`
	Policy         Policy        `json:"policy"`
	Header         Header        `json:"header"`
	Bindings       Bindings      `json:"bindings"`
	Binary         Binary        `json:"binary"`
	Layout         LayoutProbe   `json:"layout"`
}
