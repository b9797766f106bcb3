// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package unitdb

import "strings"

// TimezoneAlias is one recognisable alias for an IANA timezone (a code or major city).
type TimezoneAlias struct {
	Name      string `json:"name"`
	Territory string `json:"territory,omitempty"`
}

// TimezoneEntry is one IANA timezone and its aliases (spec.md §3, §6).
type TimezoneEntry struct {
	IANA  string          `json:"iana"`
	Names []TimezoneAlias `json:"names"`
}

// TimezoneCatalogue resolves aliases to canonical IANA timezone ids.
type TimezoneCatalogue struct {
	byAlias map[string]string // lowercased alias -> IANA id
	entries []TimezoneEntry
}

func buildTimezoneCatalogue(entries []TimezoneEntry) *TimezoneCatalogue {
	tz := &TimezoneCatalogue{byAlias: make(map[string]string), entries: entries}
	for _, e := range entries {
		tz.byAlias[strings.ToLower(e.IANA)] = e.IANA
		for _, a := range e.Names {
			tz.byAlias[strings.ToLower(a.Name)] = e.IANA
		}
	}
	return tz
}

// Resolve maps an alias (IANA name, code, or recognised city) to a canonical IANA id.
func (tz *TimezoneCatalogue) Resolve(alias string) (string, bool) {
	id, ok := tz.byAlias[strings.ToLower(alias)]
	return id, ok
}

// Entries returns every known timezone entry, for diagnostics and tests.
func (tz *TimezoneCatalogue) Entries() []TimezoneEntry { return tz.entries }
