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

// Package benchmark times the per-target pipeline (parse, snapshot,
// diff, policy) across repeated runs, so `benchmark-gate` can flag a
// configuration or parser change that regresses wall-clock cost.
package benchmark

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/abi-framework/abi-framework/internal/config"
	"github.com/abi-framework/abi-framework/internal/orchestrator"
)

// TargetTiming is one target's measured run durations, in milliseconds.
type TargetTiming struct {
	Target     string  `json:"target"`
	Iterations int     `json:"iterations"`
	MeanMs     float64 `json:"mean_ms"`
	MinMs      float64 `json:"min_ms"`
	MaxMs      float64 `json:"max_ms"`
}

// Report is the complete `benchmark` output: one timing entry per
// target, sorted by name.
type Report struct {
	GeneratedAtUTC time.Time      `json:"generated_at_utc"`
	Iterations     int            `json:"iterations"`
	Timings        []TargetTiming `json:"timings"`
}

// Run times RunTarget for every configured target, iterations times
// each (minimum 1), and returns the per-target summary statistics.
func Run(ctx context.Context, cfg config.Config, runOpts orchestrator.RunOptions, iterations int) Report {
	if iterations < 1 {
		iterations = 1
	}
	names := cfg.SortedTargetNames()
	timings := make([]TargetTiming, 0, len(names))
	for _, name := range names {
		var durations []float64
		for i := 0; i < iterations; i++ {
			start := time.Now()
			orchestrator.RunTarget(ctx, name, cfg, runOpts)
			durations = append(durations, float64(time.Since(start).Microseconds())/1000.0)
		}
		timings = append(timings, summarize(name, durations))
	}
	return Report{GeneratedAtUTC: time.Now().UTC(), Iterations: iterations, Timings: timings}
}

func summarize(target string, durations []float64) TargetTiming {
	t := TargetTiming{Target: target, Iterations: len(durations), MinMs: durations[0], MaxMs: durations[0]}
	var sum float64
	for _, d := range durations {
		sum += d
		if d < t.MinMs {
			t.MinMs = d
		}
		if d > t.MaxMs {
			t.MaxMs = d
		}
	}
	t.MeanMs = sum / float64(len(durations))
	return t
}

// LoadReport reads a previously saved benchmark report.
func LoadReport(path string) (Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	var r Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return Report{}, err
	}
	return r, nil
}

// SaveReport writes a benchmark report as indented JSON.
func SaveReport(path string, r Report) error {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Regression is one target whose mean duration grew past the allowed
// threshold relative to a baseline report.
type Regression struct {
	Target          string  `json:"target"`
	BaselineMeanMs  float64 `json:"baseline_mean_ms"`
	CurrentMeanMs   float64 `json:"current_mean_ms"`
	PercentIncrease float64 `json:"percent_increase"`
}

// Gate compares a fresh report against a stored baseline, flagging any
// target whose mean duration increased by more than thresholdPercent.
// Targets present only in one report are ignored -- the gate only ever
// compares what both runs measured.
func Gate(baseline, current Report, thresholdPercent float64) []Regression {
	baseByName := make(map[string]TargetTiming, len(baseline.Timings))
	for _, t := range baseline.Timings {
		baseByName[t.Target] = t
	}

	var regressions []Regression
	for _, cur := range current.Timings {
		base, ok := baseByName[cur.Target]
		if !ok || base.MeanMs <= 0 {
			continue
		}
		increase := ((cur.MeanMs - base.MeanMs) / base.MeanMs) * 100
		if increase > thresholdPercent {
			regressions = append(regressions, Regression{
				Target:          cur.Target,
				BaselineMeanMs:  base.MeanMs,
				CurrentMeanMs:   cur.MeanMs,
				PercentIncrease: increase,
			})
		}
	}
	sort.Slice(regressions, func(i, j int) bool { return regressions[i].Target < regressions[j].Target })
	return regressions
}
