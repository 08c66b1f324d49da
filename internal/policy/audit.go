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

import "time"

// WaiverAuditEntry is one waiver's standing as of the audit time:
// whether its metadata satisfies the configured requirements, and
// whether it has already expired or is expiring soon.
type WaiverAuditEntry struct {
	Waiver           Waiver
	MetadataErr      string
	Expired          bool
	ExpiringWithinDays bool
}

// AuditWaivers reports the metadata and expiry standing of every waiver
// in eff, independent of any particular target's diff -- the
// `waiver-audit` subcommand's read-only view into what `policy.Apply`
// would otherwise only surface incidentally while applying waivers.
func AuditWaivers(eff Policy, now time.Time) []WaiverAuditEntry {
	entries := make([]WaiverAuditEntry, 0, len(eff.Waivers))
	for _, w := range eff.Waivers {
		entry := WaiverAuditEntry{Waiver: w}
		if err := normalizeWaiver(w, eff.WaiverRequirements); err != nil {
			entry.MetadataErr = err.Error()
		}
		if w.ExpiresUTC != "" {
			if expires, err := time.Parse(waiverTimeLayout, w.ExpiresUTC); err == nil {
				entry.Expired = expires.Before(now)
				if !entry.Expired && eff.WaiverRequirements.WarnExpiringWithinDays > 0 {
					threshold := now.Add(time.Duration(eff.WaiverRequirements.WarnExpiringWithinDays) * 24 * time.Hour)
					entry.ExpiringWithinDays = expires.Before(threshold)
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
