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

package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abi-framework/abi-framework/internal/cheader"
	"github.com/abi-framework/abi-framework/internal/runner"
	"github.com/abi-framework/abi-framework/internal/semver"
)

func samplePayload() cheader.Payload {
	return cheader.Payload{
		Functions: map[string]cheader.Function{
			"mylib_open":  {Name: "mylib_open", ReturnType: "int", ParametersRaw: "void"},
			"mylib_close": {Name: "mylib_close", ReturnType: "void", ParametersRaw: "int handle"},
		},
		Enums:         map[string]cheader.Enum{},
		Structs:       map[string]cheader.Struct{},
		OpaqueHandles: map[string]cheader.OpaqueHandle{},
		Callbacks:     map[string]cheader.Callback{},
		Constants:     map[string]string{},
		Version:       semver.New(1, 2, 3),
		Backend:       "regex",
	}
}

func TestBuildBindingsAvailabilityFollowsConfiguration(t *testing.T) {
	snap := Build(context.Background(), samplePayload(), Options{Target: "t"})
	assert.False(t, snap.Bindings.Available)
	assert.Nil(t, snap.Bindings.Symbols)

	snap2 := Build(context.Background(), samplePayload(), Options{
		Target:          "t",
		ExpectedSymbols: []string{"mylib_close", "mylib_open"},
	})
	assert.True(t, snap2.Bindings.Available)
	assert.Equal(t, []string{"mylib_close", "mylib_open"}, snap2.Bindings.Symbols)
}

func TestBuildHeaderSymbolsSortedFromFunctionKeys(t *testing.T) {
	snap := Build(context.Background(), samplePayload(), Options{Target: "t"})
	assert.Equal(t, []string{"mylib_close", "mylib_open"}, snap.Header.Symbols)
}

func TestBuildBinaryUnavailableWithoutPath(t *testing.T) {
	snap := Build(context.Background(), samplePayload(), Options{Target: "t"})
	assert.False(t, snap.Binary.Available)
}

func TestBuildLayoutUnavailableWithoutCompiler(t *testing.T) {
	snap := Build(context.Background(), samplePayload(), Options{Target: "t"})
	assert.False(t, snap.Layout.Available)
}

func TestCanonicalizeExportedSymbol(t *testing.T) {
	cases := []struct {
		raw       string
		canonical string
		decorated bool
	}{
		{"mylib_open", "mylib_open", false},
		{"_mylib_open", "mylib_open", true},
		{"_mylib_open@8", "mylib_open", true},
		{"mylib_open@4", "mylib_open", true},
	}
	for _, c := range cases {
		got, decorated := canonicalizeExportedSymbol(c.raw)
		assert.Equal(t, c.canonical, got, c.raw)
		assert.Equal(t, c.decorated, decorated, c.raw)
	}
}

func TestProbeBinaryNoToolsFound(t *testing.T) {
	mock := runner.NewMock()
	got := ProbeBinary(context.Background(), mock, BinaryProbeOptions{
		Path:         "/lib/mylib.so",
		SymbolPrefix: "mylib_",
		Tools:        []string{"definitely-not-a-real-tool-xyz"},
	})
	assert.False(t, got.Available)
	assert.NotEmpty(t, got.Reason)
}

func TestProbeBinarySucceedsWithMockedTool(t *testing.T) {
	mock := runner.NewMock()
	mock.On(runner.Result{
		Stdout: "0000000000001000 T mylib_open\n0000000000001010 T _mylib_close@4\n0000000000002000 T other_symbol\n",
	}, "nm", "-D", "--defined-only", "/lib/mylib.so")

	got := ProbeBinary(context.Background(), mock, BinaryProbeOptions{
		Path:         "/lib/mylib.so",
		SymbolPrefix: "mylib_",
		Tools:        []string{"nm"},
	})
	require.True(t, got.Available)
	assert.Equal(t, []string{"mylib_close", "mylib_open"}, got.Symbols)
	assert.Contains(t, got.NonPrefixedExports, "other_symbol")
	assert.Contains(t, got.DecoratedExports, "_mylib_close@4")
}

func TestProbeLayoutNoCompilerConfigured(t *testing.T) {
	mock := runner.NewMock()
	got := ProbeLayout(context.Background(), mock, LayoutProbeOptions{})
	assert.False(t, got.Available)
}

func TestProbeLayoutParsesJSONOutput(t *testing.T) {
	structs := map[string]cheader.Struct{
		"mylib_point_t": {
			Name: "mylib_point_t",
			Fields: []cheader.StructField{
				{Name: "x", Declaration: "int x"},
				{Name: "y", Declaration: "int y"},
			},
		},
	}
	got := ProbeLayout(context.Background(), &fakeCompileRunner{}, LayoutProbeOptions{
		HeaderPath: "/tmp/mylib.h",
		Compiler:   "cc",
		Structs:    structs,
		WorkDir:    t.TempDir(),
	})
	require.True(t, got.Available)
	layout, ok := got.Structs["mylib_point_t"]
	require.True(t, ok)
	assert.Equal(t, int64(8), layout.Size)
	assert.Equal(t, map[string]int64{"x": 0, "y": 4}, layout.Offsets)
}

// fakeCompileRunner stands in for a real compiler + probe binary: the
// compile invocation (called with flags before the binary path) succeeds
// silently, and the no-args invocation that runs the compiled probe
// returns canned JSON.
type fakeCompileRunner struct{}

func (f *fakeCompileRunner) Run(ctx context.Context, dir, name string, args ...string) (runner.Result, error) {
	if len(args) == 0 {
		return runner.Result{
			Stdout: `[{"name":"mylib_point_t","size":8,"alignment":4,"offsets":{"x":0,"y":4}}]` + "\n",
		}, nil
	}
	return runner.Result{}, nil
}
