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

// Package runner abstracts every external-process invocation abi-framework
// makes (the preprocessor, symbol-listing tools, the layout-probe
// compiler, external generators) behind a single capability, per spec §9's
// design note: "Abstract them behind a single CommandRunner capability
// ... tests inject a mock runner." Grounded on the teacher's own
// exec.Command usage in cmd/wuffs-c/test.go, generalized into an
// injectable interface instead of calling os/exec directly at each site.
package runner

import (
	"context"
	"os/exec"
	"time"
)

// Result is what every command invocation returns.
type Result struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	ElapsedMs  int64
}

// CommandRunner runs an external command and captures its outcome.
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (Result, error)
}

// Exec is the production CommandRunner, backed by os/exec.
type Exec struct{}

func (Exec) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Milliseconds()

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
			err = nil
		}
	}

	return Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  exitCode,
		ElapsedMs: elapsed,
	}, err
}

// buffer is a tiny bytes.Buffer stand-in kept local so this leaf package
// imports only context, os/exec and time.
type buffer struct {
	data []byte
}

func (b *buffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *buffer) String() string { return string(b.data) }

// LookPath resolves a command name on PATH, returning "" if not found.
// Tool-resolution call sites use this rather than exec.LookPath directly.
// It always consults the real PATH; a Mock runner does not affect it.
func LookPath(name string) string {
	p, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return p
}
