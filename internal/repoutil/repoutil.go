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

// Package repoutil resolves the repository root used to fill the
// {repo_root} token an external generator's command template may
// reference.
package repoutil

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

var initialWorkingDirectory = ""

func init() {
	initialWorkingDirectory, _ = os.Getwd()
}

const markerFile = "abi-framework-root.txt"

var cache struct {
	mu    sync.Mutex
	value string
}

func setValue(value string) (string, error) {
	cache.mu.Lock()
	cache.value = value
	cache.mu.Unlock()
	return value, nil
}

// Root finds the repository root by walking up from the working
// directory looking for a marker file or a go.mod, caching the result
// for the life of the process.
func Root() (string, error) {
	cache.mu.Lock()
	value := cache.value
	cache.mu.Unlock()
	if value != "" {
		return value, nil
	}

	for p, q := initialWorkingDirectory, ""; p != q; p, q = filepath.Dir(p), p {
		if _, err := os.Stat(filepath.Join(p, markerFile)); err == nil {
			return setValue(p)
		}
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return setValue(p)
		}
	}

	return "", errors.New("repoutil: could not find repository root (no " + markerFile + " or go.mod found in any ancestor directory)")
}
