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

package runner

import (
	"context"
	"fmt"
)

// Mock is an in-memory CommandRunner for tests: it matches invocations by
// the joined "name arg1 arg2" command line and returns a canned Result,
// so C2's binary-export-probe and struct-layout-probe code paths (and C1's
// clang-preprocess backend) can be exercised without running a real
// toolchain. Tool lookup through LookPath still consults the real PATH, so
// the binary-export probe only calls the runner for tools found there.
type Mock struct {
	Responses map[string]Result
	Errors    map[string]error
	Calls     []string
}

func NewMock() *Mock {
	return &Mock{Responses: map[string]Result{}, Errors: map[string]error{}}
}

func (m *Mock) key(name string, args ...string) string {
	k := name
	for _, a := range args {
		k += " " + a
	}
	return k
}

// On registers the Result returned for an exact command line.
func (m *Mock) On(result Result, name string, args ...string) {
	m.Responses[m.key(name, args...)] = result
}

// OnError registers the error returned for an exact command line.
func (m *Mock) OnError(err error, name string, args ...string) {
	m.Errors[m.key(name, args...)] = err
}

func (m *Mock) Run(_ context.Context, _ string, name string, args ...string) (Result, error) {
	k := m.key(name, args...)
	m.Calls = append(m.Calls, k)
	if err, ok := m.Errors[k]; ok {
		return Result{}, err
	}
	if r, ok := m.Responses[k]; ok {
		return r, nil
	}
	return Result{}, fmt.Errorf("runner.Mock: no response registered for %q", k)
}
