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
	"fmt"
	"time"

	"github.com/abi-framework/abi-framework/internal/differ"
	"github.com/abi-framework/abi-framework/internal/snapshot"
)

// Apply is C5's entry point: given the already-diffed report, the
// resolved effective policy, the target name, and the current snapshot
// (for the layout-probe requirement check), it returns a copy of the
// report with its error/warning buckets updated, plus the audit trail.
//
// Waiver metadata is normalized (and any violation surfaced as a fatal
// configuration error) before anything else runs, per spec §4.4.
func Apply(report differ.Report, target string, current snapshot.Snapshot, eff Policy, now time.Time) (Result, error) {
	for _, w := range eff.Waivers {
		if err := normalizeWaiver(w, eff.WaiverRequirements); err != nil {
			return Result{}, err
		}
	}

	r := report

	if ceilingViolated(r.ChangeClassification, eff.MaxAllowedClassification) {
		r.Errors = append(r.Errors, fmt.Sprintf(
			"classification %q exceeds max_allowed_classification %q", r.ChangeClassification, eff.MaxAllowedClassification))
	}
	if eff.RequireLayoutProbe && !current.Layout.Available {
		r.Errors = append(r.Errors, "require_layout_probe is set but no layout probe is available")
	}

	rulesApplied, err := applyRules(&r, target, eff.Rules)
	if err != nil {
		return Result{}, err
	}

	waiversApplied, expiredWarnings, err := applyWaivers(&r.Errors, &r.Warnings, target, eff.Waivers, now)
	if err != nil {
		return Result{}, err
	}
	r.Warnings = append(r.Warnings, expiredWarnings...)

	status := "pass"
	if len(r.Errors) > 0 {
		status = "fail"
	}
	if eff.FailOnWarnings && len(r.Warnings) > 0 {
		status = "fail"
	}
	r.Status = status

	return Result{
		Report:         r,
		RulesApplied:   rulesApplied,
		WaiversApplied: waiversApplied,
		Status:         status,
	}, nil
}

var classificationOrder = map[differ.Classification]int{
	differ.ClassificationNone:     0,
	differ.ClassificationAdditive: 1,
	differ.ClassificationBreaking: 2,
}

func ceilingViolated(observed, max differ.Classification) bool {
	if max == "" {
		max = differ.ClassificationBreaking
	}
	return classificationOrder[observed] > classificationOrder[max]
}
