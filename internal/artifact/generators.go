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
	"strings"

	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/runner"
)

// GeneratorSpec is one configured downstream generator entry. Per spec
// §4.7, the only supported kind is "external" -- a command template run
// as a child process.
type GeneratorSpec struct {
	Kind    string   `json:"kind"`
	Command []string `json:"command"`
}

// GeneratorContext supplies the token substitutions spec §4.7 names:
// {repo_root}, {target}, {idl}, {check}, {dry_run}.
type GeneratorContext struct {
	RepoRoot string
	Target   string
	IDLPath  string
	Check    bool
	DryRun   bool
}

// GeneratorResult is one generator invocation's outcome. A non-zero exit
// code is a generator failure, recorded here rather than returned as an
// error, so one target's failing generator never corrupts another's run.
type GeneratorResult struct {
	Command []string
	Result  runner.Result
	Failed  bool
	Err     error
}

// RunGenerators substitutes tokens into each spec's command template and
// runs it through r. Any spec whose Kind isn't "external" is a
// configuration error -- built-in generators are not supported -- and
// aborts the whole batch before any process is spawned.
func RunGenerators(ctx context.Context, r runner.CommandRunner, dir string, specs []GeneratorSpec, gctx GeneratorContext) ([]GeneratorResult, error) {
	for _, spec := range specs {
		if spec.Kind != "external" {
			return nil, ferr.New(ferr.KindConfig, "unsupported generator kind %q: built-in generators are not supported", spec.Kind)
		}
		if len(spec.Command) == 0 {
			return nil, ferr.New(ferr.KindConfig, "generator entry has an empty command template")
		}
	}

	results := make([]GeneratorResult, 0, len(specs))
	for _, spec := range specs {
		command := make([]string, len(spec.Command))
		for i, tok := range spec.Command {
			command[i] = substituteTokens(tok, gctx)
		}

		res, err := r.Run(ctx, dir, command[0], command[1:]...)
		results = append(results, GeneratorResult{
			Command: command,
			Result:  res,
			Failed:  err != nil || res.ExitCode != 0,
			Err:     err,
		})
	}
	return results, nil
}

func substituteTokens(s string, gctx GeneratorContext) string {
	check := ""
	if gctx.Check {
		check = "--check"
	}
	dryRun := ""
	if gctx.DryRun {
		dryRun = "--dry-run"
	}
	replacer := strings.NewReplacer(
		"{repo_root}", gctx.RepoRoot,
		"{target}", gctx.Target,
		"{idl}", gctx.IDLPath,
		"{check}", check,
		"{dry_run}", dryRun,
	)
	return replacer.Replace(s)
}
