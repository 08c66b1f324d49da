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
	"time"

	"github.com/abi-framework/abi-framework/internal/ferr"
)

const waiverTimeLayout = time.RFC3339

// normalizeWaiver enforces the metadata requirements spec §4.4 names.
// Any missing required field, or an expiry exceeding max_ttl_days, is a
// fatal configuration error -- it is returned to the caller (Apply, or
// AuditWaivers as a per-entry note), not folded into the report's error
// bucket.
func normalizeWaiver(w Waiver, req WaiverRequirements) error {
	if req.RequireOwner && w.Owner == "" {
		return ferr.New(ferr.KindConfig, "waiver %q: owner is required", w.ID)
	}
	if req.RequireReason && w.Reason == "" {
		return ferr.New(ferr.KindConfig, "waiver %q: reason is required", w.ID)
	}
	if req.RequireExpiresUTC && w.ExpiresUTC == "" {
		return ferr.New(ferr.KindConfig, "waiver %q: expires_utc is required", w.ID)
	}
	if req.RequireApprovedBy && w.ApprovedBy == "" {
		return ferr.New(ferr.KindConfig, "waiver %q: approved_by is required", w.ID)
	}
	if req.RequireTicket && w.Ticket == "" {
		return ferr.New(ferr.KindConfig, "waiver %q: ticket is required", w.ID)
	}
	if req.MaxTTLDays != nil && w.ExpiresUTC != "" && w.CreatedUTC != "" {
		expires, err := time.Parse(waiverTimeLayout, w.ExpiresUTC)
		if err != nil {
			return ferr.New(ferr.KindConfig, "waiver %q: invalid expires_utc %q", w.ID, w.ExpiresUTC)
		}
		created, err := time.Parse(waiverTimeLayout, w.CreatedUTC)
		if err != nil {
			return ferr.New(ferr.KindConfig, "waiver %q: invalid created_utc %q", w.ID, w.CreatedUTC)
		}
		ttl := expires.Sub(created)
		if ttl > time.Duration(*req.MaxTTLDays)*24*time.Hour {
			return ferr.New(ferr.KindConfig, "waiver %q: ttl exceeds max_ttl_days (%d)", w.ID, *req.MaxTTLDays)
		}
	}
	return nil
}

// waiverMatches reports whether w applies to one bucket item for a given
// severity and target, per spec §4.4's match rules.
func waiverMatches(w Waiver, severity Severity, target, item string, now time.Time) (active bool, expiredWarning string, err error) {
	if w.Severity != SeverityAny && w.Severity != severity {
		return false, "", nil
	}
	if !targetMatches(w.TargetPatterns, target) {
		return false, "", nil
	}
	re, err := regexp.Compile(w.MessagePattern)
	if err != nil {
		return false, "", fmt.Errorf("waiver %q: invalid message_pattern: %w", w.ID, err)
	}
	if !re.MatchString(item) {
		return false, "", nil
	}
	if w.ExpiresUTC != "" {
		expires, err := time.Parse(waiverTimeLayout, w.ExpiresUTC)
		if err == nil && expires.Before(now) {
			return false, fmt.Sprintf("waiver '%s' expired at %s", w.ID, w.ExpiresUTC), nil
		}
	}
	return true, "", nil
}

func targetMatches(patterns []string, target string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pat := range patterns {
		re, err := regexp.Compile(pat)
		if err == nil && re.MatchString(target) {
			return true
		}
	}
	return false
}

// applyWaivers runs every waiver, first-match-wins, against errors then
// warnings, removing matched items and recording them in
// waivers_applied.
func applyWaivers(errors, warnings *[]string, target string, waivers []Waiver, now time.Time) ([]WaiverApplication, []string, error) {
	var applied []WaiverApplication
	var extraWarnings []string

	*errors = applyWaiversToBucket(*errors, SeverityError, target, waivers, now, &applied, &extraWarnings)
	*warnings = applyWaiversToBucket(*warnings, SeverityWarning, target, waivers, now, &applied, &extraWarnings)

	return applied, extraWarnings, nil
}

func applyWaiversToBucket(bucket []string, severity Severity, target string, waivers []Waiver, now time.Time, applied *[]WaiverApplication, extraWarnings *[]string) []string {
	var remaining []string
	for _, item := range bucket {
		waived := false
		for _, w := range waivers {
			active, expiredWarning, err := waiverMatches(w, severity, target, item, now)
			if err != nil {
				continue
			}
			if expiredWarning != "" {
				*extraWarnings = append(*extraWarnings, expiredWarning)
				continue
			}
			if !active {
				continue
			}
			*applied = append(*applied, WaiverApplication{WaiverID: w.ID, Severity: string(severity), Message: item})
			waived = true
			break
		}
		if !waived {
			remaining = append(remaining, item)
		}
	}
	return remaining
}
