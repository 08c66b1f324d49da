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

package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/abi-framework/abi-framework/internal/ferr"
	"github.com/abi-framework/abi-framework/internal/snapshot"
)

// loadBaseline reads a stored snapshot. A missing file is not an error:
// it means this is the target's first run, so the current snapshot
// becomes its own baseline and the diff is trivially empty.
func loadBaseline(path string, current snapshot.Snapshot) (snapshot.Snapshot, bool, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return current, false, nil
	}
	if err != nil {
		return snapshot.Snapshot{}, false, ferr.Wrap(ferr.KindConfig, err, "reading baseline %q", path)
	}
	var snap snapshot.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snapshot.Snapshot{}, false, ferr.Wrap(ferr.KindConfig, err, "parsing baseline %q", path)
	}
	return snap, true, nil
}

// saveBaseline writes a snapshot as the new baseline, creating parent
// directories as needed.
func saveBaseline(path string, snap snapshot.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return ferr.Wrap(ferr.KindConfig, err, "encoding baseline for %q", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ferr.Wrap(ferr.KindConfig, err, "creating baseline directory for %q", path)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return ferr.Wrap(ferr.KindConfig, err, "writing baseline %q", path)
	}
	return nil
}
