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

package benchmark

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/abi-framework/abi-framework/internal/config"
	"github.com/abi-framework/abi-framework/internal/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = `
#define MYLIB_VERSION_MAJOR 1
#define MYLIB_VERSION_MINOR 0
#define MYLIB_VERSION_PATCH 0

MYLIB_API void MYLIB_CALL mylib_shutdown(void);
`

func sampleConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mylib.h")
	require.NoError(t, os.WriteFile(path, []byte(sampleHeader), 0o644))
	return config.Config{Targets: map[string]config.Target{
		"mylib": {
			BaselinePath: filepath.Join(dir, "mylib.json"),
			Header: config.Header{
				Path: path, ApiMacro: "MYLIB_API", CallMacro: "MYLIB_CALL",
				SymbolPrefix: "mylib_", Parser: config.Parser{Backend: "regex"},
			},
		},
	}}
}

func TestRunProducesOneTimingPerTarget(t *testing.T) {
	report := Run(context.Background(), sampleConfig(t), orchestrator.RunOptions{}, 3)
	require.Len(t, report.Timings, 1)
	assert.Equal(t, "mylib", report.Timings[0].Target)
	assert.Equal(t, 3, report.Timings[0].Iterations)
	assert.GreaterOrEqual(t, report.Timings[0].MaxMs, report.Timings[0].MinMs)
}

func TestSaveAndLoadReportRoundTrips(t *testing.T) {
	report := Run(context.Background(), sampleConfig(t), orchestrator.RunOptions{}, 1)
	path := filepath.Join(t.TempDir(), "bench.json")
	require.NoError(t, SaveReport(path, report))

	loaded, err := LoadReport(path)
	require.NoError(t, err)
	assert.Equal(t, report.Timings[0].Target, loaded.Timings[0].Target)
}

func TestGateFlagsRegressionPastThreshold(t *testing.T) {
	baseline := Report{Timings: []TargetTiming{{Target: "mylib", MeanMs: 10}}}
	current := Report{Timings: []TargetTiming{{Target: "mylib", MeanMs: 20}}}

	regressions := Gate(baseline, current, 50)
	require.Len(t, regressions, 1)
	assert.Equal(t, "mylib", regressions[0].Target)
	assert.InDelta(t, 100.0, regressions[0].PercentIncrease, 0.01)
}

func TestGateIgnoresWithinThreshold(t *testing.T) {
	baseline := Report{Timings: []TargetTiming{{Target: "mylib", MeanMs: 10}}}
	current := Report{Timings: []TargetTiming{{Target: "mylib", MeanMs: 10.5}}}

	assert.Empty(t, Gate(baseline, current, 50))
}
