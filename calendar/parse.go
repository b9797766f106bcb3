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

package calendar

import (
	"fmt"
	"time"
)

// Parsing follows the teacher's datehelpers idiom of trying a descending list of Go
// time layouts and reporting how much precision was actually present, rather than
// hand-rolling a scanner (spec.md §3's AST literal grammar only requires *some*
// precision be recognized, not that every component is mandatory).
var (
	dateLayouts = []struct {
		layout    string
		precision int // matches types.DateTimePrecision ordinals, duplicated here to avoid an import cycle
	}{
		{"2006", 1},
		{"2006-01", 2},
		{"2006-01-02", 3},
	}
	timeLayouts = []struct {
		layout    string
		precision int
	}{
		{"15", 4},
		{"15:04", 5},
		{"15:04:05", 6},
		{"15:04:05.000", 7},
	}
)

// ParseDate parses a plain ISO-ish date string (year, year-month, or full date) into a
// PlainDate, returning the precision actually present (1=year .. 3=day).
func ParseDate(s string) (PlainDate, int, error) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return PlainDate{t.Year(), int(t.Month()), t.Day()}, l.precision, nil
		}
	}
	return PlainDate{}, 0, fmt.Errorf("calendar: cannot parse date %q", s)
}

// ParseTime parses a time-of-day string (hour, hour:minute, ..., with milliseconds).
func ParseTime(s string) (PlainTime, int, error) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return PlainTime{t.Hour(), t.Minute(), t.Second(), t.Nanosecond() / int(time.Millisecond)}, l.precision, nil
		}
	}
	return PlainTime{}, 0, fmt.Errorf("calendar: cannot parse time %q", s)
}

// ParseDateTime parses a combined date-time string of the form "<date>T<time>",
// returning the finer of the two precisions.
func ParseDateTime(s string) (PlainDateTime, int, error) {
	for i := 1; i < len(s); i++ {
		if s[i] != 'T' {
			continue
		}
		d, _, derr := ParseDate(s[:i])
		if derr != nil {
			continue
		}
		t, tp, terr := ParseTime(s[i+1:])
		if terr != nil {
			return PlainDateTime{}, 0, terr
		}
		return PlainDateTime{Date: d, Time: t}, tp, nil
	}
	return PlainDateTime{}, 0, fmt.Errorf("calendar: cannot parse date-time %q", s)
}

// FormatISO8601 renders a value as ISO-8601 (the "iso8601" presentation format,
// spec.md §3/§6).
func FormatISO8601(dt PlainDateTime) string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%03d",
		dt.Date.Year, dt.Date.Month, dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, dt.Time.Second, dt.Time.Millisecond)
}

// FormatRFC2822 renders a zoned date-time per RFC 2822 (the "rfc2822" presentation
// format, spec.md §3/§6).
func FormatRFC2822(z ZonedDateTime) (string, error) {
	loc, err := time.LoadLocation(z.Zone)
	if err != nil {
		return "", fmt.Errorf("calendar: invalid timezone %q: %w", z.Zone, err)
	}
	t := z.DateTime.toGoTime(loc)
	return t.Format(time.RFC1123Z), nil
}
