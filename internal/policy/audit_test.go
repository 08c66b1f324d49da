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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuditWaiversFlagsExpired(t *testing.T) {
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	eff := Policy{Waivers: []Waiver{
		{ID: "old", Severity: SeverityAny, MessagePattern: ".*", ExpiresUTC: "2026-01-01T00:00:00Z"},
		{ID: "fresh", Severity: SeverityAny, MessagePattern: ".*", ExpiresUTC: "2027-01-01T00:00:00Z"},
	}}

	entries := AuditWaivers(eff, now)
	require := assert.New(t)
	require.Len(entries, 2)
	require.True(entries[0].Expired)
	require.False(entries[1].Expired)
}

func TestAuditWaiversFlagsExpiringSoon(t *testing.T) {
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	eff := Policy{
		WaiverRequirements: WaiverRequirements{WarnExpiringWithinDays: 30},
		Waivers: []Waiver{
			{ID: "soon", Severity: SeverityAny, MessagePattern: ".*", ExpiresUTC: "2026-08-05T00:00:00Z"},
		},
	}

	entries := AuditWaivers(eff, now)
	assert.False(t, entries[0].Expired)
	assert.True(t, entries[0].ExpiringWithinDays)
}

func TestAuditWaiversReportsMetadataViolation(t *testing.T) {
	eff := Policy{
		WaiverRequirements: WaiverRequirements{RequireOwner: true},
		Waivers:            []Waiver{{ID: "no-owner", Severity: SeverityAny, MessagePattern: ".*"}},
	}

	entries := AuditWaivers(eff, time.Now())
	assert.Contains(t, entries[0].MetadataErr, "owner is required")
}
