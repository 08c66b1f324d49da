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

import "regexp"

// SymbolFilter configures which functions spec §4.5's codegen filter
// includes.
type SymbolFilter struct {
	IncludeSymbols      []string
	IncludeSymbolsRegex []string
	ExcludeSymbols      []string
	ExcludeSymbolsRegex []string
}

// Includes reports whether name passes the filter:
// include_symbols ∩ include_symbols_regex ∩ ¬exclude_symbols ∩
// ¬exclude_symbols_regex. An empty allow-list (both forms) means "allow
// everything not explicitly excluded".
func (f SymbolFilter) Includes(name string) bool {
	if contains(f.ExcludeSymbols, name) {
		return false
	}
	for _, pat := range f.ExcludeSymbolsRegex {
		if mustMatch(pat, name) {
			return false
		}
	}

	// Each configured allow-form narrows the set further (set
	// intersection); an unconfigured form imposes no restriction.
	if len(f.IncludeSymbols) > 0 && !contains(f.IncludeSymbols, name) {
		return false
	}
	if len(f.IncludeSymbolsRegex) > 0 && !anyMatch(f.IncludeSymbolsRegex, name) {
		return false
	}
	return true
}

func contains(items []string, s string) bool {
	for _, i := range items {
		if i == s {
			return true
		}
	}
	return false
}

func anyMatch(patterns []string, s string) bool {
	for _, pat := range patterns {
		if mustMatch(pat, s) {
			return true
		}
	}
	return false
}

func mustMatch(pattern, s string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}
