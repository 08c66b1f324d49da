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

// Package render builds C9's two machine-readable aggregate artifacts:
// the run-wide JSON report and a SARIF document for code-scanning
// integrations. The Markdown changelog lives in package changelog.
package render

import (
	"time"

	"github.com/google/uuid"

	"github.com/abi-framework/abi-framework/internal/differ"
	"github.com/abi-framework/abi-framework/internal/policy"
)

// ClassificationCounts tallies how many targets fell into each
// differ.Classification bucket.
type ClassificationCounts struct {
	None     int `json:"none"`
	Additive int `json:"additive"`
	Breaking int `json:"breaking"`
}

// Summary is the aggregate report's at-a-glance block.
type Summary struct {
	TargetCount    int                   `json:"target_count"`
	PassCount      int                   `json:"pass_count"`
	FailCount      int                   `json:"fail_count"`
	ErrorCount     int                   `json:"error_count"`
	WarningCount   int                   `json:"warning_count"`
	Classification ClassificationCounts  `json:"classification"`
}

// AggregateReport is the full C9 JSON document.
type AggregateReport struct {
	RunID          string                  `json:"run_id"`
	GeneratedAtUTC time.Time               `json:"generated_at_utc"`
	Results        map[string]policy.Result `json:"results"`
	Summary        Summary                 `json:"summary"`
}

// BuildAggregate folds one policy.Result per target into the aggregate
// report spec §4.9 describes, stamping it with a fresh run identifier so
// two runs against the same config are never mistaken for each other
// downstream (log correlation, stored-report lookups).
func BuildAggregate(results map[string]policy.Result, generatedAtUTC time.Time) AggregateReport {
	s := Summary{TargetCount: len(results)}
	for _, r := range results {
		if r.Status == "pass" {
			s.PassCount++
		} else {
			s.FailCount++
		}
		s.ErrorCount += len(r.Report.Errors)
		s.WarningCount += len(r.Report.Warnings)
		switch r.Report.ChangeClassification {
		case differ.ClassificationBreaking:
			s.Classification.Breaking++
		case differ.ClassificationAdditive:
			s.Classification.Additive++
		default:
			s.Classification.None++
		}
	}
	return AggregateReport{
		RunID:          uuid.New().String(),
		GeneratedAtUTC: generatedAtUTC,
		Results:        results,
		Summary:        s,
	}
}
