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

	"github.com/abi-framework/abi-framework/internal/semver"
)

// applySemverGate implements C4: the three fatal SemVer-gate checks spec
// §4.3 lists, appended to r.Errors so they flow into Report.Status the
// same way every other error bucket does.
func applySemverGate(r *Report) {
	if r.CurrentVersion.Less(r.BaselineVersion) {
		r.Errors = append(r.Errors, fmt.Sprintf(
			"ABI regressed: current version %s is less than baseline %s",
			r.CurrentVersion, r.BaselineVersion))
		return
	}

	switch r.RequiredBump {
	case semver.BumpMajor:
		if r.CurrentVersion.Major <= r.BaselineVersion.Major {
			r.Errors = append(r.Errors, fmt.Sprintf(
				"breaking change requires a major version bump: current %s, baseline %s",
				r.CurrentVersion, r.BaselineVersion))
		}
	case semver.BumpMinor:
		if !majorMinorGreater(r.CurrentVersion, r.BaselineVersion) {
			r.Errors = append(r.Errors, fmt.Sprintf(
				"additive change requires a minor version bump: current %s, baseline %s",
				r.CurrentVersion, r.BaselineVersion))
		}
	}
}

// majorMinorGreater reports whether a.(major,minor) > b.(major,minor).
func majorMinorGreater(a, b semver.Version) bool {
	if a.Major != b.Major {
		return a.Major > b.Major
	}
	return a.Minor > b.Minor
}
