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

// Package fingerprint computes the deterministic structural hashes spec.md
// uses for HeaderEnum, HeaderStruct and the IDL's content_fingerprint /
// stable_id. It is pure algorithm (no I/O, no ambient concern), so it is
// built on crypto/sha256 rather than a third-party library -- see
// DESIGN.md for why no pack dependency offers this primitive.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Of hashes an ordered sequence of fields, each joined by a separator byte
// that cannot appear unescaped in any field, into a stable hex digest.
// Two calls with the same ordered fields always produce the same digest;
// reordering fields changes the digest, which is the point -- fingerprints
// are defined over *ordered* structural records (spec §3).
func Of(fields ...string) string {
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{0x1f}) // ASCII unit separator
	}
	return hex.EncodeToString(h.Sum(nil))
}

// OfSorted hashes a set of fields after sorting them, for contexts where
// the fingerprint must be independent of iteration order (spec §4.5's
// content_fingerprint requirement).
func OfSorted(fields []string) string {
	sorted := append([]string(nil), fields...)
	sort.Strings(sorted)
	return Of(sorted...)
}
