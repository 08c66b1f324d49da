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

package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abi-framework/abi-framework/internal/cheader"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/idl"
	"github.com/abi-framework/abi-framework/internal/runner"
	"github.com/abi-framework/abi-framework/internal/semver"
)

func sampleDoc() idl.Document {
	val := int64(1)
	expr := "1 << 1"
	return idl.Document{
		IdlSchemaVersion: idl.SchemaVersion,
		Tool:             "abi-framework",
		Target:           "mylib-linux-x64",
		AbiVersion:       semver.New(1, 2, 3),
		Functions: []idl.Function{
			{
				Name:           "mylib_close",
				CReturnType:    "void",
				CParametersRaw: "int handle",
				Parameters:     []idl.Parameter{{Name: "handle", CType: "int"}},
			},
			{
				Name:           "mylib_open",
				CReturnType:    "int",
				CParametersRaw: "void",
			},
			{
				Name:           "mylib_set_callback",
				CReturnType:    "void",
				CParametersRaw: "void (*cb)(int code, void* user_data)",
				Parameters: []idl.Parameter{
					{Name: "cb", CType: "void (*)(int code, void*user_data)"},
				},
			},
		},
		HeaderTypes: idl.HeaderTypes{
			Enums: map[string]cheader.Enum{
				"mylib_status_t": {
					Name: "mylib_status_t",
					Members: []cheader.EnumMember{
						{Name: "MYLIB_OK", Value: &val},
						{Name: "MYLIB_FLAG", ValueExpr: &expr},
						{Name: "MYLIB_UNKNOWN"},
					},
				},
			},
			Structs: map[string]cheader.Struct{
				"mylib_point_t": {
					Name: "mylib_point_t",
					Fields: []cheader.StructField{
						{Name: "x", Declaration: "int x"},
						{Name: "y", Declaration: "int y"},
					},
				},
			},
			OpaqueHandles: map[string]cheader.OpaqueHandle{
				"mylib_ctx_t": {Name: "mylib_ctx_t"},
			},
			Callbacks: map[string]cheader.Callback{
				"mylib_notify_cb": {Name: "mylib_notify_cb", Declaration: "typedef void (MYLIB_CALL *mylib_notify_cb)(int code)"},
			},
			Constants: map[string]string{
				"MYLIB_MAX_HANDLES": "64",
			},
		},
		Codegen: idl.Codegen{
			NativeHeaderGuard: "MYLIB_H_",
			NativeAPIMacro:    "MYLIB_API",
			NativeCallMacro:   "MYLIB_CALL",
		},
	}
}

func TestRenderHeaderIncludesGuardAndExternC(t *testing.T) {
	out := string(RenderHeader(sampleDoc(), HeaderOptions{}))
	assert.Contains(t, out, "#ifndef MYLIB_H_")
	assert.Contains(t, out, "#define MYLIB_H_")
	assert.Contains(t, out, "extern \"C\"")
	assert.Contains(t, out, "#endif  /* MYLIB_H_ */\n")
	assert.True(t, len(out) > 0 && out[len(out)-1] == '\n')
}

func TestRenderHeaderVersionTripleDefines(t *testing.T) {
	out := string(RenderHeader(sampleDoc(), HeaderOptions{}))
	assert.Contains(t, out, "#define MYLIB_LINUX_X64_VERSION_MAJOR 1")
	assert.Contains(t, out, "#define MYLIB_LINUX_X64_VERSION_MINOR 2")
	assert.Contains(t, out, "#define MYLIB_LINUX_X64_VERSION_PATCH 3")
}

func TestRenderHeaderExportMacroBlock(t *testing.T) {
	out := string(RenderHeader(sampleDoc(), HeaderOptions{}))
	assert.Contains(t, out, "#if defined(_WIN32) && defined(MYLIB_DLL)")
	assert.Contains(t, out, "#define MYLIB_API __declspec(dllexport)")
	assert.Contains(t, out, "#define MYLIB_API __declspec(dllimport)")
}

func TestRenderHeaderOpaqueHandleAndCallback(t *testing.T) {
	out := string(RenderHeader(sampleDoc(), HeaderOptions{}))
	assert.Contains(t, out, "typedef struct mylib_ctx_t mylib_ctx_t;")
	assert.Contains(t, out, "typedef void (MYLIB_CALL *mylib_notify_cb)(int code);")
}

func TestRenderHeaderEnumMemberForms(t *testing.T) {
	out := string(RenderHeader(sampleDoc(), HeaderOptions{}))
	assert.Contains(t, out, "MYLIB_OK = 1,")
	assert.Contains(t, out, "MYLIB_FLAG = 1 << 1,")
	assert.Contains(t, out, "MYLIB_UNKNOWN,")
}

func TestRenderHeaderStructFieldsInSourceOrder(t *testing.T) {
	out := string(RenderHeader(sampleDoc(), HeaderOptions{}))
	xi := indexOf(out, "int x;")
	yi := indexOf(out, "int y;")
	require.True(t, xi >= 0 && yi >= 0)
	assert.Less(t, xi, yi)
}

func TestRenderHeaderFunctionsSortedWithVoidAndFunctionPointer(t *testing.T) {
	out := string(RenderHeader(sampleDoc(), HeaderOptions{}))
	closeIdx := indexOf(out, "mylib_close(int handle);")
	openIdx := indexOf(out, "mylib_open(void);")
	cbIdx := indexOf(out, "mylib_set_callback(void (*cb)(int code, void*user_data));")
	require.True(t, closeIdx >= 0 && openIdx >= 0 && cbIdx >= 0)
	assert.Less(t, closeIdx, openIdx)
	assert.Less(t, openIdx, cbIdx)
}

func TestRenderHeaderExtraConstantsMerged(t *testing.T) {
	out := string(RenderHeader(sampleDoc(), HeaderOptions{ExtraConstants: map[string]string{"MYLIB_FEATURE_X": "1"}}))
	assert.Contains(t, out, "#define MYLIB_FEATURE_X 1")
	assert.Contains(t, out, "#define MYLIB_MAX_HANDLES 64")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestRenderExportMapShapeAndSorting(t *testing.T) {
	out := string(RenderExportMap(sampleDoc()))
	want := "{\n  global:\n    mylib_close;\n    mylib_open;\n    mylib_set_callback;\n  local:\n    *;\n};\n"
	assert.Equal(t, want, out)
}

func TestRunGeneratorsRejectsNonExternalKind(t *testing.T) {
	_, err := RunGenerators(context.Background(), runner.NewMock(), "/work", []GeneratorSpec{{Kind: "builtin", Command: []string{"x"}}}, GeneratorContext{})
	require.Error(t, err)
	fe, ok := ferr.As(err)
	require.True(t, ok)
	assert.Equal(t, ferr.KindConfig, fe.Kind)
}

func TestRunGeneratorsSubstitutesTokens(t *testing.T) {
	mock := runner.NewMock()
	mock.On(runner.Result{ExitCode: 0}, "gen", "--repo", "/repo", "--target", "mylib-linux-x64", "--idl", "abi/generated/mylib-linux-x64.idl.json", "--check")

	specs := []GeneratorSpec{{
		Kind:    "external",
		Command: []string{"gen", "--repo", "{repo_root}", "--target", "{target}", "--idl", "{idl}", "{check}"},
	}}
	results, err := RunGenerators(context.Background(), mock, "/work", specs, GeneratorContext{
		RepoRoot: "/repo",
		Target:   "mylib-linux-x64",
		IDLPath:  "abi/generated/mylib-linux-x64.idl.json",
		Check:    true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Failed)
}

func TestRunGeneratorsNonZeroExitMarksFailedWithoutAbortingBatch(t *testing.T) {
	mock := runner.NewMock()
	mock.On(runner.Result{ExitCode: 1}, "gen-a")
	mock.On(runner.Result{ExitCode: 0}, "gen-b")

	specs := []GeneratorSpec{
		{Kind: "external", Command: []string{"gen-a"}},
		{Kind: "external", Command: []string{"gen-b"}},
	}
	results, err := RunGenerators(context.Background(), mock, "/work", specs, GeneratorContext{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Failed)
	assert.False(t, results[1].Failed)
}
