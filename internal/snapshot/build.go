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

package snapshot

import (
	"context"
	"sort"
	"time"

	"github.com/abi-framework/abi-framework/internal/cheader"
	"github.com/abi-framework/abi-framework/internal/runner"
)

// Options configures one Build call: the already-parsed header payload
// plus the two optional sidecar probe configurations. ExpectedSymbols
// being nil (as opposed to empty-but-non-nil) is what spec §4.2 means by
// "bindings not configured" -- Bindings.Available is false in that case.
type Options struct {
	Target         string
	TypePolicy     string
	StrictSemver   bool
	ExpectedSymbols []string

	Binary BinaryProbeOptions
	Layout LayoutProbeOptions

	Runner runner.CommandRunner
}

// Build assembles a Snapshot from a header payload and the configured
// sidecar probes, enforcing the invariants spec §4.2 lists:
//   - header.symbols is the sorted set of parsed function names
//   - bindings.available iff an expected_symbols list was configured
//   - binary.available implies binary.symbols is the sorted canonical
//     prefixed-export set (already guaranteed by ProbeBinary)
func Build(ctx context.Context, payload cheader.Payload, opts Options) Snapshot {
	symbols := payload.Symbols()

	bindings := Bindings{Available: opts.ExpectedSymbols != nil}
	if bindings.Available {
		syms := append([]string{}, opts.ExpectedSymbols...)
		sort.Strings(syms)
		bindings.Symbols = syms
	}

	binary := Binary{Available: false, Reason: "no binary configured"}
	if opts.Binary.Path != "" {
		binary = ProbeBinary(ctx, opts.Runner, opts.Binary)
	}

	layout := LayoutProbe{Available: false, Reason: "no layout-probe compiler configured"}
	if opts.Layout.Compiler != "" {
		layout = ProbeLayout(ctx, opts.Runner, opts.Layout)
	}

	return Snapshot{
		Tool:           "abi-framework",
		Target:         opts.Target,
		GeneratedAtUTC: time.Now().UTC(),
		AbiVersion:     payload.Version,
		Policy: Policy{
			TypePolicy:   opts.TypePolicy,
			StrictSemver: opts.StrictSemver,
		},
		Header: Header{
			Symbols:       symbols,
			Functions:     payload.Functions,
			Enums:         payload.Enums,
			Structs:       payload.Structs,
			OpaqueHandles: payload.OpaqueHandles,
			Callbacks:     payload.Callbacks,
			Constants:     payload.Constants,
			Backend:       payload.Backend,
		},
		Bindings: bindings,
		Binary:   binary,
		Layout:   layout,
	}
}
