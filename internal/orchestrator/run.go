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

// Package orchestrator implements C9: running C1 through C8 for each
// configured target in sorted name order, and folding the per-target
// results into the aggregate report render builds.
package orchestrator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/abi-framework/abi-framework/internal/artifact"
	"github.com/abi-framework/abi-framework/internal/cheader"
	"github.com/abi-framework/abi-framework/internal/config"
	"github.com/abi-framework/abi-framework/internal/differ"
	"github.com/abi-framework/abi-framework/internal/drift"
	"github.com/abi-framework/abi-framework/internal/environment"
	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/idl"
	"github.com/abi-framework/abi-framework/internal/policy"
	"github.com/abi-framework/abi-framework/internal/repoutil"
	"github.com/abi-framework/abi-framework/internal/runner"
	"github.com/abi-framework/abi-framework/internal/snapshot"
)

// RunOptions configures one invocation across every selected target.
type RunOptions struct {
	BaselineRoot    string
	OutputDir       string
	FailOnWarnings  bool
	DryRun          bool
	Check           bool
	SkipBinary      bool
	UpdateBaselines bool

	Runner runner.CommandRunner
	Env    environment.Environment
	Now    time.Time
}

func (o RunOptions) runner() runner.CommandRunner {
	if o.Runner != nil {
		return o.Runner
	}
	return runner.Exec{}
}

func (o RunOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now().UTC()
	}
	return o.Now
}

// TargetOutcome is everything one target's pipeline run produced.
type TargetOutcome struct {
	Target       string
	FatalErr     error
	Snapshot     snapshot.Snapshot
	HadBaseline  bool
	Result       policy.Result
	IDL          idl.Document
	HasSyncDrift bool

	IDLArtifact       drift.Result
	HeaderArtifact    drift.Result
	ExportMapArtifact drift.Result
	GeneratorResults  []artifact.GeneratorResult
	HasCodegenDrift   bool
}

// RunAll processes every configured target in sorted name order,
// continuing past a target-level failure per spec §5's cancellation
// model: a fatal error on one target does not stop the run.
func RunAll(ctx context.Context, cfg config.Config, opts RunOptions) []TargetOutcome {
	names := cfg.SortedTargetNames()
	outcomes := make([]TargetOutcome, 0, len(names))
	for _, name := range names {
		outcomes = append(outcomes, RunTarget(ctx, name, cfg, opts))
	}
	return outcomes
}

// BuildTargetSnapshot runs just C1 -> C2 for one target: the `snapshot`
// subcommand's full scope, without diffing against a baseline.
func BuildTargetSnapshot(ctx context.Context, name string, cfg config.Config, opts RunOptions) (snapshot.Snapshot, error) {
	t, ok := cfg.Targets[name]
	if !ok {
		return snapshot.Snapshot{}, ferr.New(ferr.KindConfig, "unknown target %q", name)
	}
	payload, err := parseHeader(ctx, t, opts)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return buildSnapshot(ctx, name, t, payload, opts)
}

// RunTarget runs C1 -> C2 -> (baseline load) -> C3 -> C4 -> C5, and,
// independently, C2 -> C6 -> C7 -> C8, for exactly one target.
func RunTarget(ctx context.Context, name string, cfg config.Config, opts RunOptions) TargetOutcome {
	out := TargetOutcome{Target: name}

	t, ok := cfg.Targets[name]
	if !ok {
		out.FatalErr = ferr.New(ferr.KindConfig, "unknown target %q", name)
		return out
	}

	payload, err := parseHeader(ctx, t, opts)
	if err != nil {
		out.FatalErr = err
		return out
	}

	snap, err := buildSnapshot(ctx, name, t, payload, opts)
	if err != nil {
		out.FatalErr = err
		return out
	}
	out.Snapshot = snap

	if opts.UpdateBaselines {
		if err := saveBaseline(baselinePath(opts, t), snap); err != nil {
			out.FatalErr = err
			return out
		}
	}

	baseline, hadBaseline, err := loadBaseline(baselinePath(opts, t), snap)
	if err != nil {
		out.FatalErr = err
		return out
	}
	out.HadBaseline = hadBaseline

	eff := policy.Resolve(cfg.Policy, t.Policy)
	if opts.FailOnWarnings {
		eff.FailOnWarnings = true
	}

	report := differ.Diff(baseline, snap, differ.Options{
		AllowNonPrefixedExports:      t.Binary.AllowNonPrefixedExports,
		StructTailAdditionIsBreaking: eff.StructTailAdditionIsBreaking,
	})

	result, err := policy.Apply(report, name, snap, eff, opts.now())
	if err != nil {
		out.FatalErr = err
		return out
	}
	out.Result = result

	if snap.Bindings.Available {
		out.HasSyncDrift = drift.HasSyncDrift(snap.Header.Symbols, snap.Bindings.Symbols)
	}

	doc := idl.Build(payload, idl.Options{
		Target: name,
		Source: t.Header.Path,
		Filter: idl.SymbolFilter{
			IncludeSymbols:      t.Codegen.IncludeSymbols,
			IncludeSymbolsRegex: t.Codegen.IncludeSymbolsRegex,
			ExcludeSymbols:      t.Codegen.ExcludeSymbols,
			ExcludeSymbolsRegex: t.Codegen.ExcludeSymbolsRegex,
		},
		Codegen: idl.Codegen{
			NativeHeaderGuard: t.Codegen.NativeHeaderGuard,
			NativeAPIMacro:    t.Codegen.NativeAPIMacro,
			NativeCallMacro:   t.Codegen.NativeCallMacro,
		},
	})
	out.IDL = doc

	if t.Codegen.Enabled {
		runCodegen(ctx, name, t, doc, opts, &out)
	}

	return out
}

func baselinePath(opts RunOptions, t config.Target) string {
	if opts.BaselineRoot == "" {
		return t.BaselinePath
	}
	return filepath.Join(opts.BaselineRoot, t.BaselinePath)
}

func parseHeader(ctx context.Context, t config.Target, opts RunOptions) (cheader.Payload, error) {
	raw, err := os.ReadFile(t.Header.Path)
	if err != nil {
		return cheader.Payload{}, ferr.Wrap(ferr.KindParser, err, "reading header %q", t.Header.Path)
	}

	var enumPat, structPat *regexp.Regexp
	if t.Header.Types.EnumNamePattern != "" {
		re, err := regexp.Compile(t.Header.Types.EnumNamePattern)
		if err != nil {
			return cheader.Payload{}, ferr.Wrap(ferr.KindParser, err, "compiling enum_name_pattern")
		}
		enumPat = re
	}
	if t.Header.Types.StructNamePattern != "" {
		re, err := regexp.Compile(t.Header.Types.StructNamePattern)
		if err != nil {
			return cheader.Payload{}, ferr.Wrap(ferr.KindParser, err, "compiling struct_name_pattern")
		}
		structPat = re
	}

	ignore := make(map[string]bool, len(t.Header.Types.IgnoreEnums))
	for _, name := range t.Header.Types.IgnoreEnums {
		ignore[name] = true
	}

	backend := cheader.BackendRegex
	if t.Header.Parser.Backend == string(cheader.BackendClangPreprocess) {
		backend = cheader.BackendClangPreprocess
	}

	payload, err := cheader.Parse(ctx, string(raw), cheader.Options{
		ApiMacro:          t.Header.ApiMacro,
		CallMacro:         t.Header.CallMacro,
		SymbolPrefix:      t.Header.SymbolPrefix,
		VersionMacros:     t.Header.VersionMacros,
		Backend:           backend,
		EnumNamePattern:   enumPat,
		StructNamePattern: structPat,
		IgnoreEnums:       ignore,
		Clang: cheader.ClangOptions{
			Compiler:        t.Header.Parser.Compiler,
			Candidates:      t.Header.Parser.Candidates,
			Flags:           t.Header.Parser.Flags,
			IncludeDirs:     t.Header.Parser.IncludeDirs,
			FallbackToRegex: t.Header.Parser.FallbackToRegex,
		},
		Runner: opts.runner(),
		Env:    opts.Env,
	})
	if err != nil {
		return cheader.Payload{}, err
	}
	return payload, nil
}

func buildSnapshot(ctx context.Context, name string, t config.Target, payload cheader.Payload, opts RunOptions) (snapshot.Snapshot, error) {
	binOpts := snapshot.BinaryProbeOptions{
		Path:         t.Binary.Path,
		SymbolPrefix: t.Header.SymbolPrefix,
	}
	if opts.SkipBinary {
		binOpts.Path = ""
	}

	layoutOpts := snapshot.LayoutProbeOptions{}
	if t.Header.Layout.Enabled {
		workDir := t.Header.Layout.WorkDir
		if workDir == "" {
			root, err := repoutil.Root()
			if err == nil {
				workDir = filepath.Join(root, ".abi-framework-layout-probe")
			}
		}
		structs := make(map[string]cheader.Struct, len(t.Header.Layout.Structs))
		for _, sname := range t.Header.Layout.Structs {
			if s, ok := payload.Structs[sname]; ok {
				structs[sname] = s
			}
		}
		layoutOpts = snapshot.LayoutProbeOptions{
			HeaderPath: t.Header.Path,
			Compiler:   t.Header.Layout.Compiler,
			Flags:      t.Header.Layout.Flags,
			Structs:    structs,
			WorkDir:    workDir,
		}
	}

	snap := snapshot.Build(ctx, payload, snapshot.Options{
		Target:          name,
		TypePolicy:      t.Header.Types.TypePolicy,
		StrictSemver:    t.Header.Types.StrictSemver,
		ExpectedSymbols: t.Bindings.ExpectedSymbols,
		Binary:          binOpts,
		Layout:          layoutOpts,
		Runner:          opts.runner(),
	})
	return snap, nil
}

func runCodegen(ctx context.Context, name string, t config.Target, doc idl.Document, opts RunOptions, out *TargetOutcome) {
	driftOpts := drift.Options{DryRun: opts.DryRun, Check: opts.Check}

	if t.Codegen.IDLOutputPath != "" {
		raw, err := json.MarshalIndent(doc, "", "  ")
		if err == nil {
			res, derr := drift.Check(resolvePath(opts, t.Codegen.IDLOutputPath), raw, driftOpts)
			if derr == nil {
				out.IDLArtifact = res
			}
		}
	}

	if t.Codegen.NativeHeaderOutputPath != "" {
		content := artifact.RenderHeader(doc, artifact.HeaderOptions{ExtraConstants: t.Codegen.NativeConstants})
		res, err := drift.Check(resolvePath(opts, t.Codegen.NativeHeaderOutputPath), content, driftOpts)
		if err == nil {
			out.HeaderArtifact = res
		}
	}

	if t.Codegen.NativeExportMapOutputPath != "" {
		content := artifact.RenderExportMap(doc)
		res, err := drift.Check(resolvePath(opts, t.Codegen.NativeExportMapOutputPath), content, driftOpts)
		if err == nil {
			out.ExportMapArtifact = res
		}
	}

	out.HasCodegenDrift = drift.HasCodegenDrift([]drift.Result{out.IDLArtifact, out.HeaderArtifact, out.ExportMapArtifact})

	if len(t.Bindings.Generators) > 0 {
		root, _ := repoutil.Root()
		results, err := artifact.RunGenerators(ctx, opts.runner(), root, t.Bindings.Generators, artifact.GeneratorContext{
			RepoRoot: root,
			Target:   name,
			IDLPath:  resolvePath(opts, t.Codegen.IDLOutputPath),
			Check:    opts.Check,
			DryRun:   opts.DryRun,
		})
		if err == nil {
			out.GeneratorResults = results
		}
	}
}

func resolvePath(opts RunOptions, p string) string {
	if opts.OutputDir == "" || opts.OutputDir == "." || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(opts.OutputDir, p)
}
