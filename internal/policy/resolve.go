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

// Resolve computes the effective policy for one target: root ∪ target,
// target scalar values overriding root when set, rule and waiver lists
// concatenated (root's rules/waivers fire first, matching config
// declaration order).
func Resolve(root, target Policy) Policy {
	eff := root

	if target.MaxAllowedClassification != "" {
		eff.MaxAllowedClassification = target.MaxAllowedClassification
	}
	if target.FailOnWarnings {
		eff.FailOnWarnings = true
	}
	if target.RequireLayoutProbe {
		eff.RequireLayoutProbe = true
	}
	if target.AllowNonPrefixedExports {
		eff.AllowNonPrefixedExports = true
	}
	if target.StructTailAdditionIsBreaking {
		eff.StructTailAdditionIsBreaking = true
	}

	eff.Rules = append(append([]Rule{}, root.Rules...), target.Rules...)
	eff.Waivers = append(append([]Waiver{}, root.Waivers...), target.Waivers...)

	eff.WaiverRequirements = mergeWaiverRequirements(root.WaiverRequirements, target.WaiverRequirements)

	if eff.MaxAllowedClassification == "" {
		eff.MaxAllowedClassification = "breaking"
	}
	return eff
}

func mergeWaiverRequirements(root, target WaiverRequirements) WaiverRequirements {
	eff := root
	if target.RequireOwner {
		eff.RequireOwner = true
	}
	if target.RequireReason {
		eff.RequireReason = true
	}
	if target.RequireExpiresUTC {
		eff.RequireExpiresUTC = true
	}
	if target.RequireApprovedBy {
		eff.RequireApprovedBy = true
	}
	if target.RequireTicket {
		eff.RequireTicket = true
	}
	if target.MaxTTLDays != nil {
		eff.MaxTTLDays = target.MaxTTLDays
	}
	if target.WarnExpiringWithinDays != 0 {
		eff.WarnExpiringWithinDays = target.WarnExpiringWithinDays
	}
	return eff
}
