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

package render

import (
	"testing"
	"time"

	"github.com/abi-framework/abi-framework/internal/differ"
	"github.com/abi-framework/abi-framework/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() map[string]policy.Result {
	return map[string]policy.Result{
		"alpha": {
			Status: "fail",
			Report: differ.Report{
				ChangeClassification: differ.ClassificationBreaking,
				Errors:               []string{"function removed"},
				Warnings:             []string{"decorated export"},
			},
		},
		"beta": {
			Status: "pass",
			Report: differ.Report{
				ChangeClassification: differ.ClassificationAdditive,
			},
		},
	}
}

func TestBuildAggregateCountsByStatusAndClassification(t *testing.T) {
	agg := BuildAggregate(sampleResults(), time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, agg.Summary.TargetCount)
	assert.Equal(t, 1, agg.Summary.PassCount)
	assert.Equal(t, 1, agg.Summary.FailCount)
	assert.Equal(t, 1, agg.Summary.ErrorCount)
	assert.Equal(t, 1, agg.Summary.WarningCount)
	assert.Equal(t, 1, agg.Summary.Classification.Breaking)
	assert.Equal(t, 1, agg.Summary.Classification.Additive)
	assert.Equal(t, 0, agg.Summary.Classification.None)
	assert.NotEmpty(t, agg.RunID)
}

func TestBuildSarifProducesOneResultPerErrorAndWarning(t *testing.T) {
	log := BuildSarif(sampleResults(), HeaderPaths{"alpha": "include/alpha.h"})
	require.Len(t, log.Runs, 1)
	require.Len(t, log.Runs[0].Results, 2)

	var errResult, warnResult SarifResult
	for _, res := range log.Runs[0].Results {
		switch res.RuleID {
		case RuleError:
			errResult = res
		case RuleWarning:
			warnResult = res
		}
	}
	assert.Equal(t, "error", errResult.Level)
	assert.Contains(t, errResult.Message.Text, "function removed")
	assert.Equal(t, "include/alpha.h", errResult.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, "warning", warnResult.Level)
}

func TestBuildSarifIncludesRuleCatalog(t *testing.T) {
	log := BuildSarif(sampleResults(), HeaderPaths{})
	rules := log.Runs[0].Tool.Driver.Rules
	require.Len(t, rules, 2)
	assert.Equal(t, RuleError, rules[0].ID)
	assert.Equal(t, RuleWarning, rules[1].ID)
}
