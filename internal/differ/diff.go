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

package differ

import (
	"fmt"
	"sort"

	"github.com/abi-framework/abi-framework/internal/cheader"
	"github.com/abi-framework/abi-framework/internal/semver"
	"github.com/abi-framework/abi-framework/internal/snapshot"
)

// Options carries the handful of target-policy knobs §4.3 says the
// differ itself consults (the rest of policy belongs to the rule/waiver
// engine downstream).
type Options struct {
	AllowNonPrefixedExports      bool
	StructTailAdditionIsBreaking bool
}

// Diff computes the C3 structural delta between baseline and current and
// the C4 SemVer gate derived from it.
func Diff(baseline, current snapshot.Snapshot, opts Options) Report {
	r := Report{
		BaselineVersion: baseline.AbiVersion,
		CurrentVersion:  current.AbiVersion,
	}

	diffFunctions(&r, baseline, current)
	diffBindings(&r, current)
	diffBinary(&r, current, opts)
	diffEnums(&r, baseline, current)
	diffStructs(&r, baseline, current, opts)
	diffLayout(&r, baseline, current)

	r.ChangeClassification = classify(r)
	r.RequiredBump = requiredBump(r.ChangeClassification)
	r.RecommendedNextVersion = baseline.AbiVersion.RecommendedNext(r.RequiredBump)

	applySemverGate(&r)

	if len(r.Errors) == 0 {
		r.Status = "pass"
	} else {
		r.Status = "fail"
	}
	return r
}

func diffFunctions(r *Report, baseline, current snapshot.Snapshot) {
	for name := range baseline.Header.Functions {
		if _, ok := current.Header.Functions[name]; !ok {
			r.RemovedSymbols = append(r.RemovedSymbols, name)
			r.BreakingReasons = append(r.BreakingReasons, fmt.Sprintf("function %q removed", name))
		}
	}
	for name := range current.Header.Functions {
		if _, ok := baseline.Header.Functions[name]; !ok {
			r.AddedSymbols = append(r.AddedSymbols, name)
			r.AdditiveReasons = append(r.AdditiveReasons, fmt.Sprintf("function %q added", name))
		}
	}
	for name, baseFn := range baseline.Header.Functions {
		curFn, ok := current.Header.Functions[name]
		if !ok {
			continue
		}
		if cheader.Canonicalize(baseFn.Signature()) != cheader.Canonicalize(curFn.Signature()) {
			r.ChangedSignatures = append(r.ChangedSignatures, name)
			r.BreakingReasons = append(r.BreakingReasons, fmt.Sprintf("function %q signature changed", name))
		}
	}
	sort.Strings(r.RemovedSymbols)
	sort.Strings(r.AddedSymbols)
	sort.Strings(r.ChangedSignatures)
}

func diffBindings(r *Report, current snapshot.Snapshot) {
	if !current.Bindings.Available {
		r.Warnings = append(r.Warnings, "bindings not configured: symbol coverage unverified")
		return
	}
	bound := toSet(current.Bindings.Symbols)
	header := toSet(current.Header.Symbols)
	for _, name := range current.Header.Symbols {
		if !bound[name] {
			r.Errors = append(r.Errors, fmt.Sprintf("header symbol %q missing from bindings", name))
		}
	}
	for _, name := range current.Bindings.Symbols {
		if !header[name] {
			r.Errors = append(r.Errors, fmt.Sprintf("binding symbol %q not present in header", name))
		}
	}
}

func diffBinary(r *Report, current snapshot.Snapshot, opts Options) {
	if !current.Binary.Available {
		return
	}
	exported := toSet(current.Binary.Symbols)
	header := toSet(current.Header.Symbols)
	for _, name := range current.Header.Symbols {
		if !exported[name] {
			r.Errors = append(r.Errors, fmt.Sprintf("header symbol %q missing from binary exports", name))
		}
	}
	for _, name := range current.Binary.Symbols {
		if !header[name] {
			r.Errors = append(r.Errors, fmt.Sprintf("binary export %q not present in header", name))
		}
	}
	if !opts.AllowNonPrefixedExports {
		for _, name := range current.Binary.NonPrefixedExports {
			r.Errors = append(r.Errors, fmt.Sprintf("binary export %q does not match symbol_prefix", name))
		}
	}
}

func diffEnums(r *Report, baseline, current snapshot.Snapshot) {
	names := commonKeys(baseline.Header.Enums, current.Header.Enums)
	for _, name := range names {
		baseEnum := baseline.Header.Enums[name]
		curEnum := current.Header.Enums[name]

		baseMembers := map[string]cheader.EnumMember{}
		for _, m := range baseEnum.Members {
			baseMembers[m.Name] = m
		}
		curMembers := map[string]cheader.EnumMember{}
		for _, m := range curEnum.Members {
			curMembers[m.Name] = m
		}

		var d EnumDiff
		d.Name = name
		for mname := range baseMembers {
			if _, ok := curMembers[mname]; !ok {
				d.RemovedMembers = append(d.RemovedMembers, mname)
			}
		}
		for mname := range curMembers {
			if _, ok := baseMembers[mname]; !ok {
				d.AddedMembers = append(d.AddedMembers, mname)
			}
		}
		for mname, baseM := range baseMembers {
			curM, ok := curMembers[mname]
			if !ok {
				continue
			}
			if !sameEnumValue(baseM, curM) {
				d.ChangedMembers = append(d.ChangedMembers, mname)
			}
		}
		if len(d.RemovedMembers) == 0 && len(d.AddedMembers) == 0 && len(d.ChangedMembers) == 0 {
			continue
		}
		sort.Strings(d.RemovedMembers)
		sort.Strings(d.AddedMembers)
		sort.Strings(d.ChangedMembers)
		r.EnumDiff = append(r.EnumDiff, d)

		if len(d.RemovedMembers) > 0 || len(d.ChangedMembers) > 0 {
			r.BreakingReasons = append(r.BreakingReasons, fmt.Sprintf("enum %q lost or changed members", name))
		} else {
			r.AdditiveReasons = append(r.AdditiveReasons, fmt.Sprintf("enum %q gained members", name))
		}
	}
	sort.Slice(r.EnumDiff, func(i, j int) bool { return r.EnumDiff[i].Name < r.EnumDiff[j].Name })
}

func sameEnumValue(a, b cheader.EnumMember) bool {
	if (a.Value == nil) != (b.Value == nil) {
		return false
	}
	if a.Value != nil && *a.Value != *b.Value {
		return false
	}
	if a.Value == nil {
		av, bv := "", ""
		if a.ValueExpr != nil {
			av = *a.ValueExpr
		}
		if b.ValueExpr != nil {
			bv = *b.ValueExpr
		}
		return av == bv
	}
	return true
}

func diffStructs(r *Report, baseline, current snapshot.Snapshot, opts Options) {
	names := commonKeys(baseline.Header.Structs, current.Header.Structs)
	for _, name := range names {
		baseStruct := baseline.Header.Structs[name]
		curStruct := current.Header.Structs[name]
		if baseStruct.Fingerprint == curStruct.Fingerprint {
			continue
		}

		d := StructDiff{Name: name}

		baseFields := map[string]bool{}
		for _, f := range baseStruct.Fields {
			baseFields[f.Name] = true
		}
		curFields := map[string]bool{}
		for _, f := range curStruct.Fields {
			curFields[f.Name] = true
		}
		for fname := range baseFields {
			if !curFields[fname] {
				d.RemovedFields = append(d.RemovedFields, fname)
			}
		}
		for fname := range curFields {
			if !baseFields[fname] {
				d.AddedFields = append(d.AddedFields, fname)
			}
		}

		minLen := len(baseStruct.Fields)
		if len(curStruct.Fields) < minLen {
			minLen = len(curStruct.Fields)
		}
		for i := 0; i < minLen; i++ {
			bf, cf := baseStruct.Fields[i], curStruct.Fields[i]
			if bf.Name == cf.Name && cheader.Canonicalize(bf.Declaration) != cheader.Canonicalize(cf.Declaration) {
				d.ChangedFields = append(d.ChangedFields, bf.Name)
			}
		}

		d.BaseIsPrefix = structBaseIsPrefix(baseStruct, curStruct)

		sort.Strings(d.RemovedFields)
		sort.Strings(d.AddedFields)
		sort.Strings(d.ChangedFields)

		if d.BaseIsPrefix && !opts.StructTailAdditionIsBreaking {
			d.Breaking = false
			r.AdditiveReasons = append(r.AdditiveReasons, fmt.Sprintf("struct %q extended at the tail", name))
		} else {
			d.Breaking = true
			r.BreakingReasons = append(r.BreakingReasons, fmt.Sprintf("struct %q layout-incompatible change", name))
		}
		r.StructDiff = append(r.StructDiff, d)
	}
	sort.Slice(r.StructDiff, func(i, j int) bool { return r.StructDiff[i].Name < r.StructDiff[j].Name })
}

// structBaseIsPrefix reports whether current's field sequence is exactly
// baseline's field sequence (by canonical declaration) with zero or more
// fields appended at the tail.
func structBaseIsPrefix(base, cur cheader.Struct) bool {
	if len(cur.Fields) < len(base.Fields) {
		return false
	}
	for i, bf := range base.Fields {
		cf := cur.Fields[i]
		if bf.Name != cf.Name || cheader.Canonicalize(bf.Declaration) != cheader.Canonicalize(cf.Declaration) {
			return false
		}
	}
	return true
}

func diffLayout(r *Report, baseline, current snapshot.Snapshot) {
	if baseline.Layout.Available != current.Layout.Available {
		r.Warnings = append(r.Warnings, "struct layout probe availability differs between baseline and current")
	}
	if !baseline.Layout.Available || !current.Layout.Available {
		return
	}
	names := commonKeys(baseline.Layout.Structs, current.Layout.Structs)
	for _, name := range names {
		baseLayout := baseline.Layout.Structs[name]
		curLayout := current.Layout.Structs[name]

		var d LayoutDiff
		d.Name = name
		d.SizeChanged = baseLayout.Size != curLayout.Size
		d.AlignmentChanged = baseLayout.Alignment != curLayout.Alignment
		for field, baseOff := range baseLayout.Offsets {
			curOff, ok := curLayout.Offsets[field]
			if !ok || curOff != baseOff {
				d.OffsetsChanged = append(d.OffsetsChanged, field)
			}
		}
		for field := range curLayout.Offsets {
			if _, ok := baseLayout.Offsets[field]; !ok {
				d.OffsetsChanged = append(d.OffsetsChanged, field)
			}
		}
		if !d.SizeChanged && !d.AlignmentChanged && len(d.OffsetsChanged) == 0 {
			continue
		}
		d.OffsetsChanged = sortedUniqueStrings(d.OffsetsChanged)
		r.LayoutDiff = append(r.LayoutDiff, d)
		r.BreakingReasons = append(r.BreakingReasons, fmt.Sprintf("struct %q layout changed", name))
	}
	sort.Slice(r.LayoutDiff, func(i, j int) bool { return r.LayoutDiff[i].Name < r.LayoutDiff[j].Name })
}

func classify(r Report) Classification {
	if len(r.BreakingReasons) > 0 {
		return ClassificationBreaking
	}
	if len(r.AdditiveReasons) > 0 {
		return ClassificationAdditive
	}
	return ClassificationNone
}

func requiredBump(c Classification) semver.Bump {
	switch c {
	case ClassificationBreaking:
		return semver.BumpMajor
	case ClassificationAdditive:
		return semver.BumpMinor
	default:
		return semver.BumpNone
	}
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, s := range items {
		out[s] = true
	}
	return out
}

func commonKeys[V any](a, b map[string]V) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// sortedUniqueStrings sorts items and drops adjacent duplicates, so a
// field flagged by more than one offset check is only reported once.
func sortedUniqueStrings(items []string) []string {
	sort.Strings(items)
	out := items[:0]
	for i, s := range items {
		if i == 0 || s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
