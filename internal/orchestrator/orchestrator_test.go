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

package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abi-framework/abi-framework/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = `
#define MYLIB_VERSION_MAJOR 1
#define MYLIB_VERSION_MINOR 2
#define MYLIB_VERSION_PATCH 3

#define MYLIB_MAX_PEERS 16

typedef struct mylib_peer_t mylib_peer_t;

typedef enum {
  MYLIB_OK,
  MYLIB_ERROR,
} mylib_result_t;

MYLIB_API int MYLIB_CALL mylib_init(void);
MYLIB_API void MYLIB_CALL mylib_shutdown(void);
`

func writeHeader(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mylib.h")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func sampleConfig(headerPath string, baselinePath string) config.Config {
	return config.Config{
		Targets: map[string]config.Target{
			"mylib": {
				BaselinePath: baselinePath,
				Header: config.Header{
					Path:         headerPath,
					ApiMacro:     "MYLIB_API",
					CallMacro:    "MYLIB_CALL",
					SymbolPrefix: "mylib_",
					Parser:       config.Parser{Backend: "regex"},
				},
				Bindings: config.Bindings{ExpectedSymbols: []string{"mylib_init", "mylib_shutdown"}},
			},
		},
	}
}

func TestRunTargetFirstRunHasNoBaselineAndPasses(t *testing.T) {
	headerPath := writeHeader(t, sampleHeader)
	baselinePath := filepath.Join(t.TempDir(), "mylib.json")

	out := RunTarget(context.Background(), "mylib", sampleConfig(headerPath, baselinePath), RunOptions{Now: time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)})

	require.NoError(t, out.FatalErr)
	assert.False(t, out.HadBaseline)
	assert.Equal(t, "pass", out.Result.Status)
	assert.Equal(t, "mylib", out.IDL.Target)
	assert.False(t, out.HasSyncDrift)
}

func TestRunTargetDetectsSyncDriftWhenExpectedSymbolsMismatch(t *testing.T) {
	headerPath := writeHeader(t, sampleHeader)
	baselinePath := filepath.Join(t.TempDir(), "mylib.json")

	cfg := sampleConfig(headerPath, baselinePath)
	target := cfg.Targets["mylib"]
	target.Bindings.ExpectedSymbols = []string{"mylib_init"}
	cfg.Targets["mylib"] = target

	out := RunTarget(context.Background(), "mylib", cfg, RunOptions{})
	require.NoError(t, out.FatalErr)
	assert.True(t, out.HasSyncDrift)
}

func TestRunTargetDetectsBreakingChangeAgainstStoredBaseline(t *testing.T) {
	headerPath := writeHeader(t, sampleHeader)
	baselinePath := filepath.Join(t.TempDir(), "mylib.json")
	cfg := sampleConfig(headerPath, baselinePath)

	first := RunTarget(context.Background(), "mylib", cfg, RunOptions{})
	require.NoError(t, first.FatalErr)
	require.NoError(t, saveBaseline(baselinePath, first.Snapshot))

	narrowed := `
#define MYLIB_VERSION_MAJOR 1
#define MYLIB_VERSION_MINOR 2
#define MYLIB_VERSION_PATCH 4

MYLIB_API void MYLIB_CALL mylib_shutdown(void);
`
	cfg2 := sampleConfig(writeHeader(t, narrowed), baselinePath)
	target := cfg2.Targets["mylib"]
	target.Bindings.ExpectedSymbols = []string{"mylib_shutdown"}
	cfg2.Targets["mylib"] = target

	second := RunTarget(context.Background(), "mylib", cfg2, RunOptions{})
	require.NoError(t, second.FatalErr)
	assert.True(t, second.HadBaseline)
	assert.Equal(t, "breaking", string(second.Result.Report.ChangeClassification))
	assert.Equal(t, "fail", second.Result.Status)
	assert.Contains(t, second.Result.Report.RemovedSymbols, "mylib_init")
}

func TestRunTargetUnknownTargetIsFatal(t *testing.T) {
	out := RunTarget(context.Background(), "does-not-exist", config.Config{}, RunOptions{})
	require.Error(t, out.FatalErr)
}

func TestRunAllProcessesInSortedOrder(t *testing.T) {
	headerPath := writeHeader(t, sampleHeader)
	cfg := config.Config{Targets: map[string]config.Target{
		"zeta": {
			BaselinePath: filepath.Join(t.TempDir(), "zeta.json"),
			Header: config.Header{
				Path: headerPath, ApiMacro: "MYLIB_API", CallMacro: "MYLIB_CALL",
				SymbolPrefix: "mylib_", Parser: config.Parser{Backend: "regex"},
			},
		},
		"alpha": {
			BaselinePath: filepath.Join(t.TempDir(), "alpha.json"),
			Header: config.Header{
				Path: headerPath, ApiMacro: "MYLIB_API", CallMacro: "MYLIB_CALL",
				SymbolPrefix: "mylib_", Parser: config.Parser{Backend: "regex"},
			},
		},
	}}

	outcomes := RunAll(context.Background(), cfg, RunOptions{})
	require.Len(t, outcomes, 2)
	assert.Equal(t, "alpha", outcomes[0].Target)
	assert.Equal(t, "zeta", outcomes[1].Target)
}
