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

// Package changelog renders the Markdown changelog C9 emits after a
// run: a summary table across targets followed by one section per
// target detailing its breaking changes, additive changes, warnings
// and errors.
package changelog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abi-framework/abi-framework/internal/differ"
	"github.com/abi-framework/abi-framework/internal/policy"
	"github.com/shurcooL/sanitized_anchor_name"
	blackfriday "gopkg.in/russross/blackfriday.v2"
)

// TargetEntry pairs one target's name with its policy-evaluated report.
type TargetEntry struct {
	Name   string
	Result policy.Result
}

// Render builds the complete Markdown changelog document for a run
// across every target, in target-name order.
func Render(entries []TargetEntry) string {
	sorted := make([]TargetEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	b.WriteString("# ABI Changelog\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString("| Target | Status | Classification | Bump | Next Version |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, e := range sorted {
		r := e.Result.Report
		b.WriteString(fmt.Sprintf("| [%s](#%s) | %s | %s | %s | %s |\n",
			e.Name, anchor(e.Name), e.Result.Status, r.ChangeClassification, r.RequiredBump, r.RecommendedNextVersion))
	}
	b.WriteString("\n")

	for _, e := range sorted {
		renderTarget(&b, e)
	}
	return b.String()
}

// RenderHTML converts a rendered Markdown changelog to HTML using the
// default renderer.
func RenderHTML(markdown string) []byte {
	return blackfriday.Run([]byte(markdown))
}

func anchor(name string) string {
	return sanitized_anchor_name.Create(name)
}

func renderTarget(b *strings.Builder, e TargetEntry) {
	r := e.Result.Report
	fmt.Fprintf(b, "## %s\n\n", e.Name)
	fmt.Fprintf(b, "Status: **%s** · Classification: **%s** · %s -> %s\n\n",
		e.Result.Status, r.ChangeClassification, r.BaselineVersion, r.RecommendedNextVersion)

	renderBulletSection(b, "Breaking changes", r.BreakingReasons)
	renderBulletSection(b, "Additive changes", r.AdditiveReasons)
	renderBulletSection(b, "Warnings", r.Warnings)
	renderBulletSection(b, "Errors", r.Errors)

	if len(e.Result.WaiversApplied) > 0 {
		b.WriteString("### Waivers applied\n\n")
		for _, w := range e.Result.WaiversApplied {
			fmt.Fprintf(b, "- `%s` (%s): %s\n", w.WaiverID, w.Severity, w.Message)
		}
		b.WriteString("\n")
	}

	if len(r.RemovedSymbols) > 0 || len(r.AddedSymbols) > 0 || len(r.ChangedSignatures) > 0 {
		b.WriteString("### Symbols\n\n")
		renderBulletSection(b, "Removed", r.RemovedSymbols)
		renderBulletSection(b, "Added", r.AddedSymbols)
		renderBulletSection(b, "Changed signature", r.ChangedSignatures)
	}
}

func renderBulletSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
