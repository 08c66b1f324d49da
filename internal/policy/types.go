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

// Package policy implements C5: resolving the effective per-target
// policy, applying predicate rules that promote warnings/errors, and
// applying targeted waivers against the resulting buckets.
package policy

import "github.com/abi-framework/abi-framework/internal/differ"

// Predicate is one rule's `when` object. Every non-nil/non-empty gate
// must hold for the rule to fire.
type Predicate struct {
	ClassificationIn    []differ.Classification `json:"classification_in,omitempty"`
	ClassificationNotIn []differ.Classification `json:"classification_not_in,omitempty"`

	RemovedSymbolsCountGt    *int `json:"removed_symbols_count_gt,omitempty"`
	AddedSymbolsCountGt      *int `json:"added_symbols_count_gt,omitempty"`
	ChangedSignaturesCountGt *int `json:"changed_signatures_count_gt,omitempty"`
	BreakingReasonsCountGt   *int `json:"breaking_reasons_count_gt,omitempty"`
	AdditiveReasonsCountGt   *int `json:"additive_reasons_count_gt,omitempty"`
	WarningsCountGt          *int `json:"warnings_count_gt,omitempty"`
	ErrorsCountGt            *int `json:"errors_count_gt,omitempty"`

	RemovedSymbolsRegexAll    []string `json:"removed_symbols_regex_all,omitempty"`
	AddedSymbolsRegexAll      []string `json:"added_symbols_regex_all,omitempty"`
	ChangedSignaturesRegexAll []string `json:"changed_signatures_regex_all,omitempty"`
	BreakingReasonsRegexAll   []string `json:"breaking_reasons_regex_all,omitempty"`
	AdditiveReasonsRegexAll   []string `json:"additive_reasons_regex_all,omitempty"`
	WarningsRegexAll          []string `json:"warnings_regex_all,omitempty"`
	ErrorsRegexAll            []string `json:"errors_regex_all,omitempty"`

	RemovedSymbolsRegexAny    []string `json:"removed_symbols_regex_any,omitempty"`
	AddedSymbolsRegexAny      []string `json:"added_symbols_regex_any,omitempty"`
	ChangedSignaturesRegexAny []string `json:"changed_signatures_regex_any,omitempty"`
	BreakingReasonsRegexAny   []string `json:"breaking_reasons_regex_any,omitempty"`
	AdditiveReasonsRegexAny   []string `json:"additive_reasons_regex_any,omitempty"`
	WarningsRegexAny          []string `json:"warnings_regex_any,omitempty"`
	ErrorsRegexAny            []string `json:"errors_regex_any,omitempty"`
}

// Severity is a rule's or waiver's severity level.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityAny     Severity = "any" // waivers only
)

// Rule is one configured PolicyRule.
type Rule struct {
	ID       string    `json:"id"`
	Enabled  bool      `json:"enabled"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	When     Predicate `json:"when"`
}

// Waiver is one configured PolicyWaiver.
type Waiver struct {
	ID             string   `json:"id"`
	TargetPatterns []string `json:"target_patterns,omitempty"`
	Severity       Severity `json:"severity"`
	MessagePattern string   `json:"message_pattern"`
	ExpiresUTC     string   `json:"expires_utc,omitempty"`
	CreatedUTC     string   `json:"created_utc,omitempty"`
	Owner          string   `json:"owner,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	ApprovedBy     string   `json:"approved_by,omitempty"`
	Ticket         string   `json:"ticket,omitempty"`
}

// WaiverRequirements is the metadata-enforcement configuration applied
// during waiver normalization.
type WaiverRequirements struct {
	RequireOwner          bool `json:"require_owner,omitempty"`
	RequireReason         bool `json:"require_reason,omitempty"`
	RequireExpiresUTC     bool `json:"require_expires_utc,omitempty"`
	RequireApprovedBy     bool `json:"require_approved_by,omitempty"`
	RequireTicket         bool `json:"require_ticket,omitempty"`
	MaxTTLDays            *int `json:"max_ttl_days,omitempty"`
	WarnExpiringWithinDays int  `json:"warn_expiring_within_days,omitempty"`
}

// Policy is one root-or-target PolicyConfig, pre-resolution.
type Policy struct {
	MaxAllowedClassification differ.Classification `json:"max_allowed_classification,omitempty"`
	FailOnWarnings           bool                   `json:"fail_on_warnings,omitempty"`
	RequireLayoutProbe       bool                   `json:"require_layout_probe,omitempty"`
	Rules                    []Rule                 `json:"rules,omitempty"`
	Waivers                  []Waiver               `json:"waivers,omitempty"`
	WaiverRequirements       WaiverRequirements     `json:"waiver_requirements,omitempty"`

	AllowNonPrefixedExports      bool `json:"allow_non_prefixed_exports,omitempty"`
	StructTailAdditionIsBreaking bool `json:"struct_tail_addition_is_breaking,omitempty"`
}

// WaiverApplication is one successfully-applied waiver, recorded on the
// Report for audit purposes.
type WaiverApplication struct {
	WaiverID string `json:"waiver_id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Result carries C5's mutations to a differ.Report plus its own audit
// trail fields.
type Result struct {
	Report            differ.Report
	RulesApplied      []string
	WaiversApplied    []WaiverApplication
	Status            string // "pass" or "fail"
}
