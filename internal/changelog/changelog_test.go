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

package changelog

import (
	"testing"

	"github.com/abi-framework/abi-framework/internal/differ"
	"github.com/abi-framework/abi-framework/internal/policy"
	"github.com/abi-framework/abi-framework/internal/semver"
	"github.com/stretchr/testify/assert"
)

func sampleEntries() []TargetEntry {
	return []TargetEntry{
		{
			Name: "zeta",
			Result: policy.Result{
				Status: "pass",
				Report: differ.Report{
					ChangeClassification:   differ.ClassificationAdditive,
					RequiredBump:           semver.BumpMinor,
					BaselineVersion:        semver.Version{Major: 1, Minor: 2, Patch: 0},
					RecommendedNextVersion: semver.Version{Major: 1, Minor: 3, Patch: 0},
					AddedSymbols:           []string{"zeta_new"},
					AdditiveReasons:        []string{`function "zeta_new" added`},
				},
			},
		},
		{
			Name: "alpha",
			Result: policy.Result{
				Status: "fail",
				Report: differ.Report{
					ChangeClassification: differ.ClassificationBreaking,
					RequiredBump:         semver.BumpMajor,
					RemovedSymbols:       []string{"alpha_old"},
					BreakingReasons:      []string{`function "alpha_old" removed`},
					Errors:               []string{"header symbol missing from bindings"},
				},
				WaiversApplied: []policy.WaiverApplication{
					{WaiverID: "WAIVER-1", Severity: "error", Message: "pre-approved removal"},
				},
			},
		},
	}
}

func TestRenderOrdersTargetsAlphabetically(t *testing.T) {
	out := Render(sampleEntries())
	alphaIdx := indexOf(out, "## alpha")
	zetaIdx := indexOf(out, "## zeta")
	assert.Greater(t, alphaIdx, 0)
	assert.Greater(t, zetaIdx, alphaIdx)
}

func TestRenderIncludesSummaryTable(t *testing.T) {
	out := Render(sampleEntries())
	assert.Contains(t, out, "| Target | Status | Classification | Bump | Next Version |")
	assert.Contains(t, out, "[alpha](#alpha)")
	assert.Contains(t, out, "[zeta](#zeta)")
}

func TestRenderIncludesBreakingAndAdditiveSections(t *testing.T) {
	out := Render(sampleEntries())
	assert.Contains(t, out, "### Breaking changes")
	assert.Contains(t, out, `function "alpha_old" removed`)
	assert.Contains(t, out, "### Additive changes")
	assert.Contains(t, out, `function "zeta_new" added`)
}

func TestRenderIncludesWaiversAndErrors(t *testing.T) {
	out := Render(sampleEntries())
	assert.Contains(t, out, "### Waivers applied")
	assert.Contains(t, out, "WAIVER-1")
	assert.Contains(t, out, "### Errors")
}

func TestRenderHTMLProducesHeadings(t *testing.T) {
	html := string(RenderHTML("# Title\n\n## Section\n"))
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<h2")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
