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

// Package differ implements C3 (structural diffing between two
// snapshots) and C4 (the SemVer gate derived from the diff's
// classification).
package differ

import "github.com/abi-framework/abi-framework/internal/semver"

// Classification is the overall verdict a Report carries.
type Classification string

const (
	ClassificationNone     Classification = "none"
	ClassificationAdditive Classification = "additive"
	ClassificationBreaking Classification = "breaking"
)

// rank orders classifications for the differ's "worse of" comparisons.
// The policy engine's ceiling check keeps its own ordering table.
func (c Classification) rank() int {
	switch c {
	case ClassificationBreaking:
		return 2
	case ClassificationAdditive:
		return 1
	default:
		return 0
	}
}

// Less reports whether c is a strictly milder classification than o.
func (c Classification) Less(o Classification) bool { return c.rank() < o.rank() }

// Worse returns whichever of c, o ranks higher.
func Worse(c, o Classification) Classification {
	if o.rank() > c.rank() {
		return o
	}
	return c
}

// EnumDiff is one enum's member-level delta.
type EnumDiff struct {
	Name          string   `json:"name"`
	RemovedMembers []string `json:"removed_members,omitempty"`
	AddedMembers   []string `json:"added_members,omitempty"`
	ChangedMembers []string `json:"changed_members,omitempty"`
}

// StructDiff is one struct's field-level delta.
type StructDiff struct {
	Name          string   `json:"name"`
	RemovedFields []string `json:"removed_fields,omitempty"`
	AddedFields   []string `json:"added_fields,omitempty"`
	ChangedFields []string `json:"changed_fields,omitempty"`
	BaseIsPrefix  bool     `json:"base_is_prefix,omitempty"`
	Breaking      bool     `json:"breaking"`
}

// LayoutDiff is one struct's measured-layout delta.
type LayoutDiff struct {
	Name             string   `json:"name"`
	SizeChanged      bool     `json:"size_changed,omitempty"`
	AlignmentChanged bool     `json:"alignment_changed,omitempty"`
	OffsetsChanged   []string `json:"offsets_changed,omitempty"`
	Asymmetric       bool     `json:"asymmetric,omitempty"`
}

// Report is the complete C3/C4 output for one target.
type Report struct {
	Status                string          `json:"status"`
	ChangeClassification  Classification  `json:"change_classification"`
	RequiredBump          semver.Bump     `json:"required_bump"`
	BaselineVersion       semver.Version  `json:"baseline_version"`
	CurrentVersion        semver.Version  `json:"current_version"`
	RecommendedNextVersion semver.Version `json:"recommended_next_version"`

	RemovedSymbols    []string `json:"removed_symbols,omitempty"`
	AddedSymbols      []string `json:"added_symbols,omitempty"`
	ChangedSignatures []string `json:"changed_signatures,omitempty"`

	EnumDiff   []EnumDiff   `json:"enum_diff,omitempty"`
	StructDiff []StructDiff `json:"struct_diff,omitempty"`
	LayoutDiff []LayoutDiff `json:"layout_diff,omitempty"`

	BreakingReasons []string `json:"breaking_reasons,omitempty"`
	AdditiveReasons []string `json:"additive_reasons,omitempty"`
	Errors          []string `json:"errors,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}
