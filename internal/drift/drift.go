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

// Package drift implements C8: comparing a freshly rendered artifact
// against its on-disk state and, depending on the invocation mode,
// writing it atomically, reporting what would change, or flagging
// drift without touching the file.
package drift

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Status is one artifact's outcome relative to its on-disk content.
type Status string

const (
	StatusUnchanged  Status = "unchanged"
	StatusUpdated    Status = "updated"
	StatusWouldWrite Status = "would_write"
	StatusDrift      Status = "drift"
)

// Result is one artifact path's drift-check outcome.
type Result struct {
	Path       string `json:"path"`
	Status     Status `json:"status"`
	UnifiedDiff string `json:"unified_diff,omitempty"`
}

// Options selects the invocation mode spec §4.8 distinguishes.
type Options struct {
	DryRun bool
	Check  bool
}

// Check compares newContent, normalized to LF line endings (the form it
// is written in), against the bytes at path as they are on disk, and
// returns the outcome without ever writing in Check or DryRun mode.
func Check(path string, newContent []byte, opts Options) (Result, error) {
	normalized := normalizeLineEndings(newContent)

	existing, err := os.ReadFile(path)
	notExist := os.IsNotExist(err)
	if err != nil && !notExist {
		return Result{}, fmt.Errorf("drift: reading %s: %w", path, err)
	}

	if !notExist && string(existing) == string(normalized) {
		return Result{Path: path, Status: StatusUnchanged}, nil
	}

	switch {
	case opts.Check:
		return Result{Path: path, Status: StatusDrift, UnifiedDiff: unifiedDiff(path, existing, normalized)}, nil
	case opts.DryRun:
		return Result{Path: path, Status: StatusWouldWrite, UnifiedDiff: unifiedDiff(path, existing, normalized)}, nil
	default:
		if err := writeAtomic(path, normalized); err != nil {
			return Result{}, err
		}
		return Result{Path: path, Status: StatusUpdated}, nil
	}
}

// HasCodegenDrift reports whether any result signals drift or a pending
// write, per spec §4.8.
func HasCodegenDrift(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusDrift || r.Status == StatusWouldWrite {
			return true
		}
	}
	return false
}

// HasSyncDrift reports whether emittedSymbols (the IDL-emitted function
// names) differs from expectedSymbols (the target's configured
// expected_symbols), per spec §4.8's separate sync-drift signal.
func HasSyncDrift(emittedSymbols, expectedSymbols []string) bool {
	a := append([]string(nil), emittedSymbols...)
	b := append([]string(nil), expectedSymbols...)
	sort.Strings(a)
	sort.Strings(b)
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}

func normalizeLineEndings(b []byte) []byte {
	s := strings.ReplaceAll(string(b), "\r\n", "\n")
	return []byte(s)
}

func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("drift: creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("drift: creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("drift: writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("drift: closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("drift: renaming %s to %s: %w", tmpName, path, err)
	}
	return nil
}

func unifiedDiff(path string, before, after []byte) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return out
}
