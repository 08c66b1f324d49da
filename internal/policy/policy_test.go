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

package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abi-framework/abi-framework/internal/differ"
	"github.com/abi-framework/abi-framework/internal/snapshot"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(waiverTimeLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolveTargetOverridesRoot(t *testing.T) {
	root := Policy{MaxAllowedClassification: differ.ClassificationAdditive, FailOnWarnings: false}
	target := Policy{MaxAllowedClassification: differ.ClassificationBreaking}
	eff := Resolve(root, target)
	assert.Equal(t, differ.ClassificationBreaking, eff.MaxAllowedClassification)
}

func TestResolveRulesAreUnion(t *testing.T) {
	root := Policy{Rules: []Rule{{ID: "root-rule"}}}
	target := Policy{Rules: []Rule{{ID: "target-rule"}}}
	eff := Resolve(root, target)
	require.Len(t, eff.Rules, 2)
	assert.Equal(t, "root-rule", eff.Rules[0].ID)
	assert.Equal(t, "target-rule", eff.Rules[1].ID)
}

func TestCeilingViolationAddsError(t *testing.T) {
	report := differ.Report{ChangeClassification: differ.ClassificationBreaking}
	eff := Policy{MaxAllowedClassification: differ.ClassificationAdditive}
	res, err := Apply(report, "mylib", snapshot.Snapshot{}, eff, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "fail", res.Status)
	assert.NotEmpty(t, res.Report.Errors)
}

func TestRequireLayoutProbeWithoutOneFails(t *testing.T) {
	report := differ.Report{ChangeClassification: differ.ClassificationNone}
	eff := Policy{MaxAllowedClassification: differ.ClassificationBreaking, RequireLayoutProbe: true}
	res, err := Apply(report, "mylib", snapshot.Snapshot{Layout: snapshot.LayoutProbe{Available: false}}, eff, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "fail", res.Status)
}

func TestRuleFiresOnClassificationGate(t *testing.T) {
	report := differ.Report{ChangeClassification: differ.ClassificationBreaking, BreakingReasons: []string{"function removed"}}
	eff := Policy{
		MaxAllowedClassification: differ.ClassificationBreaking,
		Rules: []Rule{
			{ID: "no-breaking", Enabled: true, Severity: SeverityError, Message: "breaking changes are forbidden",
				When: Predicate{ClassificationIn: []differ.Classification{differ.ClassificationBreaking}}},
		},
	}
	res, err := Apply(report, "mylib", snapshot.Snapshot{}, eff, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "fail", res.Status)
	assert.Contains(t, res.RulesApplied, "no-breaking")
	found := false
	for _, e := range res.Report.Errors {
		if e == "[policy:no-breaking] mylib: breaking changes are forbidden" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRuleCountGtGate(t *testing.T) {
	report := differ.Report{
		ChangeClassification: differ.ClassificationBreaking,
		RemovedSymbols:        []string{"a", "b", "c"},
	}
	threshold := 2
	eff := Policy{
		MaxAllowedClassification: differ.ClassificationBreaking,
		Rules: []Rule{
			{ID: "too-many-removed", Enabled: true, Severity: SeverityWarning, Message: "too many removals",
				When: Predicate{RemovedSymbolsCountGt: &threshold}},
		},
	}
	res, err := Apply(report, "mylib", snapshot.Snapshot{}, eff, time.Now())
	require.NoError(t, err)
	assert.Contains(t, res.RulesApplied, "too-many-removed")
}

func TestRuleRegexAnyGate(t *testing.T) {
	report := differ.Report{
		ChangeClassification: differ.ClassificationBreaking,
		RemovedSymbols:        []string{"mylib_internal_helper"},
	}
	eff := Policy{
		MaxAllowedClassification: differ.ClassificationBreaking,
		Rules: []Rule{
			{ID: "internal-removed", Enabled: true, Severity: SeverityWarning, Message: "internal symbol removed",
				When: Predicate{RemovedSymbolsRegexAny: []string{"_internal_"}}},
		},
	}
	res, err := Apply(report, "mylib", snapshot.Snapshot{}, eff, time.Now())
	require.NoError(t, err)
	assert.Contains(t, res.RulesApplied, "internal-removed")
}

func TestDisabledRuleNeverFires(t *testing.T) {
	report := differ.Report{ChangeClassification: differ.ClassificationBreaking}
	eff := Policy{
		MaxAllowedClassification: differ.ClassificationBreaking,
		Rules: []Rule{
			{ID: "disabled-rule", Enabled: false, Severity: SeverityError, Message: "should never fire",
				When: Predicate{ClassificationIn: []differ.Classification{differ.ClassificationBreaking}}},
		},
	}
	res, err := Apply(report, "mylib", snapshot.Snapshot{}, eff, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, res.RulesApplied, "disabled-rule")
}

func TestWaiverRemovesMatchedErrorFirstMatchWins(t *testing.T) {
	report := differ.Report{
		ChangeClassification: differ.ClassificationBreaking,
		Errors:                []string{`function "mylib_old_fn" removed`},
	}
	eff := Policy{
		MaxAllowedClassification: differ.ClassificationBreaking,
		Waivers: []Waiver{
			{ID: "known-removal", Severity: SeverityAny, MessagePattern: "mylib_old_fn"},
		},
	}
	res, err := Apply(report, "mylib", snapshot.Snapshot{}, eff, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "pass", res.Status)
	require.Len(t, res.WaiversApplied, 1)
	assert.Equal(t, "known-removal", res.WaiversApplied[0].WaiverID)
	assert.Empty(t, res.Report.Errors)
}

func TestWaiverExpiredWarnsAndDoesNotApply(t *testing.T) {
	report := differ.Report{
		ChangeClassification: differ.ClassificationBreaking,
		Errors:                []string{`function "mylib_old_fn" removed`},
	}
	eff := Policy{
		MaxAllowedClassification: differ.ClassificationBreaking,
		Waivers: []Waiver{
			{ID: "expired-waiver", Severity: SeverityAny, MessagePattern: "mylib_old_fn", ExpiresUTC: "2020-01-01T00:00:00Z"},
		},
	}
	res, err := Apply(report, "mylib", snapshot.Snapshot{}, eff, mustTime("2026-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, "fail", res.Status)
	assert.NotEmpty(t, res.Report.Errors)
	found := false
	for _, w := range res.Report.Warnings {
		if w == "waiver 'expired-waiver' expired at 2020-01-01T00:00:00Z" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWaiverTargetPatternMustMatch(t *testing.T) {
	report := differ.Report{
		ChangeClassification: differ.ClassificationBreaking,
		Errors:                []string{`function "mylib_old_fn" removed`},
	}
	eff := Policy{
		MaxAllowedClassification: differ.ClassificationBreaking,
		Waivers: []Waiver{
			{ID: "other-target-only", Severity: SeverityAny, MessagePattern: "mylib_old_fn", TargetPatterns: []string{"^other_target$"}},
		},
	}
	res, err := Apply(report, "mylib", snapshot.Snapshot{}, eff, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "fail", res.Status)
	assert.Empty(t, res.WaiversApplied)
}

func TestNormalizeWaiverMissingRequiredFieldIsFatal(t *testing.T) {
	report := differ.Report{ChangeClassification: differ.ClassificationNone}
	eff := Policy{
		MaxAllowedClassification: differ.ClassificationBreaking,
		Waivers: []Waiver{
			{ID: "no-owner", Severity: SeverityAny, MessagePattern: ".*"},
		},
		WaiverRequirements: WaiverRequirements{RequireOwner: true},
	}
	_, err := Apply(report, "mylib", snapshot.Snapshot{}, eff, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner")
}

func TestNormalizeWaiverMaxTTLExceededIsFatal(t *testing.T) {
	report := differ.Report{ChangeClassification: differ.ClassificationNone}
	maxTTL := 7
	eff := Policy{
		MaxAllowedClassification: differ.ClassificationBreaking,
		Waivers: []Waiver{
			{ID: "long-ttl", Severity: SeverityAny, MessagePattern: ".*",
				CreatedUTC: "2026-01-01T00:00:00Z", ExpiresUTC: "2026-06-01T00:00:00Z"},
		},
		WaiverRequirements: WaiverRequirements{MaxTTLDays: &maxTTL},
	}
	_, err := Apply(report, "mylib", snapshot.Snapshot{}, eff, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ttl")
}

func TestFailOnWarningsPromotesWarningOnlyReportToFail(t *testing.T) {
	report := differ.Report{ChangeClassification: differ.ClassificationNone, Warnings: []string{"bindings not configured"}}
	eff := Policy{MaxAllowedClassification: differ.ClassificationBreaking, FailOnWarnings: true}
	res, err := Apply(report, "mylib", snapshot.Snapshot{}, eff, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "fail", res.Status)
}
