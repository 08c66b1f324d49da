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

package policy

import (
	"fmt"
	"regexp"

	"github.com/abi-framework/abi-framework/internal/differ"
)

// buckets collects the named string buckets a rule's `when` gates read,
// matching the bucket names spec §4.4 lists.
type buckets struct {
	removedSymbols    []string
	addedSymbols      []string
	changedSignatures []string
	breakingReasons   []string
	additiveReasons   []string
	warnings          []string
	errors            []string
}

func bucketsOf(r differ.Report) buckets {
	return buckets{
		removedSymbols:    r.RemovedSymbols,
		addedSymbols:      r.AddedSymbols,
		changedSignatures: r.ChangedSignatures,
		breakingReasons:   r.BreakingReasons,
		additiveReasons:   r.AdditiveReasons,
		warnings:          r.Warnings,
		errors:            r.Errors,
	}
}

// fires evaluates a rule's `when` predicate: every present gate must
// hold.
func fires(p Predicate, c differ.Classification, b buckets) (bool, error) {
	if len(p.ClassificationIn) > 0 && !classificationIn(c, p.ClassificationIn) {
		return false, nil
	}
	if len(p.ClassificationNotIn) > 0 && classificationIn(c, p.ClassificationNotIn) {
		return false, nil
	}

	countGates := []struct {
		threshold *int
		bucket    []string
	}{
		{p.RemovedSymbolsCountGt, b.removedSymbols},
		{p.AddedSymbolsCountGt, b.addedSymbols},
		{p.ChangedSignaturesCountGt, b.changedSignatures},
		{p.BreakingReasonsCountGt, b.breakingReasons},
		{p.AdditiveReasonsCountGt, b.additiveReasons},
		{p.WarningsCountGt, b.warnings},
		{p.ErrorsCountGt, b.errors},
	}
	for _, g := range countGates {
		if g.threshold != nil && !(len(g.bucket) > *g.threshold) {
			return false, nil
		}
	}

	regexAllGates := []struct {
		patterns []string
		bucket   []string
	}{
		{p.RemovedSymbolsRegexAll, b.removedSymbols},
		{p.AddedSymbolsRegexAll, b.addedSymbols},
		{p.ChangedSignaturesRegexAll, b.changedSignatures},
		{p.BreakingReasonsRegexAll, b.breakingReasons},
		{p.AdditiveReasonsRegexAll, b.additiveReasons},
		{p.WarningsRegexAll, b.warnings},
		{p.ErrorsRegexAll, b.errors},
	}
	for _, g := range regexAllGates {
		if len(g.patterns) == 0 {
			continue
		}
		ok, err := allPatternsMatchSomeElement(g.patterns, g.bucket)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	regexAnyGates := []struct {
		patterns []string
		bucket   []string
	}{
		{p.RemovedSymbolsRegexAny, b.removedSymbols},
		{p.AddedSymbolsRegexAny, b.addedSymbols},
		{p.ChangedSignaturesRegexAny, b.changedSignatures},
		{p.BreakingReasonsRegexAny, b.breakingReasons},
		{p.AdditiveReasonsRegexAny, b.additiveReasons},
		{p.WarningsRegexAny, b.warnings},
		{p.ErrorsRegexAny, b.errors},
	}
	for _, g := range regexAnyGates {
		if len(g.patterns) == 0 {
			continue
		}
		ok, err := anyPatternMatchesSomeElement(g.patterns, g.bucket)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	return true, nil
}

func classificationIn(c differ.Classification, set []differ.Classification) bool {
	for _, s := range set {
		if c == s {
			return true
		}
	}
	return false
}

func allPatternsMatchSomeElement(patterns, bucket []string) (bool, error) {
	for _, pat := range patterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return false, fmt.Errorf("invalid regex %q: %w", pat, err)
		}
		matched := false
		for _, elem := range bucket {
			if re.MatchString(elem) {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

func anyPatternMatchesSomeElement(patterns, bucket []string) (bool, error) {
	for _, pat := range patterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return false, fmt.Errorf("invalid regex %q: %w", pat, err)
		}
		for _, elem := range bucket {
			if re.MatchString(elem) {
				return true, nil
			}
		}
	}
	return false, nil
}

// applyRules runs every enabled rule against the report's current
// buckets, appending the tagged message to errors or warnings by
// severity. Rules read buckets as they stood before this pass; they do
// not see messages other rules append in the same pass.
func applyRules(r *differ.Report, target string, rules []Rule) ([]string, error) {
	b := bucketsOf(*r)
	var applied []string
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		ok, err := fires(rule.When, r.ChangeClassification, b)
		if err != nil {
			return applied, fmt.Errorf("policy rule %q: %w", rule.ID, err)
		}
		if !ok {
			continue
		}
		msg := fmt.Sprintf("[policy:%s] %s: %s", rule.ID, target, rule.Message)
		switch rule.Severity {
		case SeverityWarning:
			r.Warnings = append(r.Warnings, msg)
		default:
			r.Errors = append(r.Errors, msg)
		}
		applied = append(applied, rule.ID)
	}
	return applied, nil
}
