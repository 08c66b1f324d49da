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

package cheader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/abi-framework/abi-framework/internal/fingerprint"
)

var enumTypedefRe = regexp.MustCompile(`(?s)typedef\s+enum(?:\s+\w+)?\s*\{([\s\S]*?)\}\s*([A-Za-z_][A-Za-z0-9_]*)\s*;`)

// parseEnums finds every `typedef enum [TAG] { ... } NAME;` whose NAME
// matches the configured pattern and isn't ignored.
func parseEnums(stripped string, opts Options) (map[string]Enum, error) {
	pattern := opts.enumPattern()
	out := map[string]Enum{}
	for _, m := range enumTypedefRe.FindAllStringSubmatch(stripped, -1) {
		body, name := m[1], strings.TrimSpace(m[2])
		if !pattern.MatchString(name) {
			continue
		}
		if opts.IgnoreEnums[name] {
			continue
		}
		members := parseEnumMembers(body)
		out[name] = Enum{
			Name:        name,
			Members:     members,
			Fingerprint: fingerprintEnumMembers(members),
		}
	}
	return out, nil
}

// parseEnumMembers splits a `{ A, B = 2, C }` body into ordered members,
// resolving implicit values the way C does: a bare member after a known
// integer value is previous+1; a bare member after an unevaluable
// predecessor is null. A member with no name (a stray comma, trailing
// comment debris) is skipped -- a recoverable parse failure, not a fatal
// one (spec §4.1).
func parseEnumMembers(body string) []EnumMember {
	var members []EnumMember
	// A bare first member is 0, as if it followed a member valued -1.
	start := int64(-1)
	prevValue := &start
	havePrev := true

	for _, raw := range strings.Split(body, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		name := raw
		exprText := ""
		hasExpr := false
		if idx := strings.Index(raw, "="); idx >= 0 {
			name = strings.TrimSpace(raw[:idx])
			exprText = strings.TrimSpace(raw[idx+1:])
			hasExpr = true
		}
		if name == "" || !isCIdentifier(name) {
			continue // unparseable member: skip it, not the whole enum.
		}

		var member EnumMember
		member.Name = name

		if hasExpr {
			sanitized := stripIntegerSuffix(exprText)
			if v, ok := evalIntExpr(sanitized); ok {
				vv := v
				member.Value = &vv
				prevValue = &vv
				havePrev = true
			} else {
				ee := exprText
				member.ValueExpr = &ee
				havePrev = false
				prevValue = nil
			}
		} else if havePrev && prevValue != nil {
			next := *prevValue + 1
			member.Value = &next
			prevValue = &next
			havePrev = true
		} else {
			havePrev = false
			prevValue = nil
		}

		members = append(members, member)
	}
	return members
}

func isCIdentifier(s string) bool {
	for i, c := range s {
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return len(s) > 0
}

func fingerprintEnumMembers(members []EnumMember) string {
	fields := make([]string, 0, len(members)*3)
	for _, m := range members {
		fields = append(fields, m.Name)
		switch {
		case m.Value != nil:
			fields = append(fields, "v", strconv.FormatInt(*m.Value, 10))
		case m.ValueExpr != nil:
			fields = append(fields, "e", *m.ValueExpr)
		default:
			fields = append(fields, "n", "")
		}
	}
	return fingerprint.Of(fields...)
}
