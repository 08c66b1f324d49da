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

import "sort"

// SARIF result severities. ABI001 is a report error, ABI002 a warning.
const (
	RuleError   = "ABI001"
	RuleWarning = "ABI002"
)

// SarifLog is the top-level SARIF 2.1.0 object.
type SarifLog struct {
	Schema string     `json:"$schema,omitempty"`
	Version string    `json:"version,omitempty"`
	Runs    []SarifRun `json:"runs,omitempty"`
}

type SarifRun struct {
	Tool    SarifTool     `json:"tool,omitempty"`
	Results []SarifResult `json:"results,omitempty"`
}

type SarifTool struct {
	Driver SarifDriver `json:"driver,omitempty"`
}

type SarifDriver struct {
	Name  string      `json:"name,omitempty"`
	Rules []SarifRule `json:"rules,omitempty"`
}

type SarifRule struct {
	ID               string            `json:"id,omitempty"`
	ShortDescription SarifDescription  `json:"shortDescription,omitempty"`
}

type SarifDescription struct {
	Text string `json:"text,omitempty"`
}

type SarifResult struct {
	RuleID    string           `json:"ruleId,omitempty"`
	Level     string           `json:"level,omitempty"`
	Message   SarifDescription `json:"message,omitempty"`
	Locations []SarifLocation  `json:"locations,omitempty"`
}

type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation,omitempty"`
}

type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation,omitempty"`
}

type SarifArtifactLocation struct {
	URI string `json:"uri,omitempty"`
}

// HeaderPaths resolves the header file path a target's findings should
// point at. Callers supply this rather than render carrying a
// dependency on config.
type HeaderPaths map[string]string

// BuildSarif turns each target's policy-evaluated errors and warnings
// into one SARIF result apiece, a synthetic location pointing at the
// target's header file.
func BuildSarif(results map[string]policy.Result, headerPaths HeaderPaths) SarifLog {
	log := SarifLog{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs: []SarifRun{{
			Tool: SarifTool{Driver: SarifDriver{
				Name: "abi-framework",
				Rules: []SarifRule{
					{ID: RuleError, ShortDescription: SarifDescription{Text: "ABI policy error"}},
					{ID: RuleWarning, ShortDescription: SarifDescription{Text: "ABI policy warning"}},
				},
			}},
		}},
	}

	targets := make([]string, 0, len(results))
	for name := range results {
		targets = append(targets, name)
	}
	sort.Strings(targets)

	var sarifResults []SarifResult
	for _, target := range targets {
		r := results[target]
		loc := []SarifLocation{{PhysicalLocation: SarifPhysicalLocation{
			ArtifactLocation: SarifArtifactLocation{URI: headerPaths[target]},
		}}}
		for _, msg := range r.Report.Errors {
			sarifResults = append(sarifResults, SarifResult{
				RuleID: RuleError, Level: "error",
				Message: SarifDescription{Text: target + ": " + msg}, Locations: loc,
			})
		}
		for _, msg := range r.Report.Warnings {
			sarifResults = append(sarifResults, SarifResult{
				RuleID: RuleWarning, Level: "warning",
				Message: SarifDescription{Text: target + ": " + msg}, Locations: loc,
			})
		}
	}
	log.Runs[0].Results = sarifResults
	return log
}
