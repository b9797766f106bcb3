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

// Package calendar implements spec.md §4.4: plain date/time/date-time, instant, zoned
// date-time, and duration with constrained-overflow arithmetic between all pairs. The
// entity shapes and the overflow discipline mirror a modern constrained-mode calendar
// API, per spec.md's framing; the Go encoding favors small value structs over
// time.Time directly so that "Date" and "DateTime" remain distinguishable types the way
// the evaluator's Value sum type needs them to be.
package calendar

import (
	"fmt"
	"time"
)

// PlainDate is a calendar date with no time-of-day or timezone (spec.md §4.4).
type PlainDate struct {
	Year, Month, Day int
}

// PlainTime is a time-of-day with no date or timezone (spec.md §4.4).
type PlainTime struct {
	Hour, Minute, Second, Millisecond int
}

// PlainDateTime is a date and time-of-day with no timezone (spec.md §4.4).
type PlainDateTime struct {
	Date PlainDate
	Time PlainTime
}

// Instant is an absolute point in time, stored as epoch milliseconds (spec.md §4.4).
type Instant struct {
	EpochMillis int64
}

// ZonedDateTime is a PlainDateTime anchored to an IANA timezone (spec.md §4.4).
type ZonedDateTime struct {
	DateTime PlainDateTime
	Zone     string // IANA timezone id, already resolved from any alias
}

// daysInMonth returns the last valid day of (year, month), used throughout calendar
// addition's constrained-overflow clamping (spec.md §4.4, §8 property 4).
func daysInMonth(year, month int) int {
	// time.Date normalizes day 0 of the *next* month to the last day of this one.
	t := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return t.Day()
}

// normalizeMonth folds a possibly out-of-range (year, month) pair back into range,
// matching spec.md §8 property 4's (y + (m+k-1) div 12, (m+k-1) mod 12 + 1) formula.
func normalizeMonth(year, month int) (int, int) {
	m := month - 1
	y := year + floorDiv(m, 12)
	m = floorMod(m, 12)
	return y, m + 1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// toGoTime converts a PlainDateTime to a time.Time in the given location, used as the
// pivot for arithmetic that needs Go's calendar normalization (e.g. Weekday).
func (dt PlainDateTime) toGoTime(loc *time.Location) time.Time {
	return time.Date(dt.Date.Year, time.Month(dt.Date.Month), dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, dt.Time.Second, dt.Time.Millisecond*int(time.Millisecond), loc)
}

func fromGoTime(t time.Time) PlainDateTime {
	return PlainDateTime{
		Date: PlainDate{t.Year(), int(t.Month()), t.Day()},
		Time: PlainTime{t.Hour(), t.Minute(), t.Second(), t.Nanosecond() / int(time.Millisecond)},
	}
}

// ToInstant normalizes a PlainDate to midnight in loc, then to an Instant (spec.md §4.4
// "Normalisation for cross-type subtraction").
func (d PlainDate) ToInstant(loc *time.Location) Instant {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
	return Instant{EpochMillis: t.UnixMilli()}
}

// ToInstant normalizes a PlainTime to today's date in loc, then to an Instant.
func (t PlainTime) ToInstant(loc *time.Location, today PlainDate) Instant {
	gt := time.Date(today.Year, time.Month(today.Month), today.Day, t.Hour, t.Minute, t.Second, t.Millisecond*int(time.Millisecond), loc)
	return Instant{EpochMillis: gt.UnixMilli()}
}

// ToInstant normalizes a PlainDateTime in loc to an Instant.
func (dt PlainDateTime) ToInstant(loc *time.Location) Instant {
	return Instant{EpochMillis: dt.toGoTime(loc).UnixMilli()}
}

// ToInstant converts a ZonedDateTime to an Instant using its own zone.
func (z ZonedDateTime) ToInstant() (Instant, error) {
	loc, err := time.LoadLocation(z.Zone)
	if err != nil {
		return Instant{}, fmt.Errorf("calendar: invalid timezone %q: %w", z.Zone, err)
	}
	return z.DateTime.ToInstant(loc), nil
}

// InZone converts an Instant into a ZonedDateTime in the given IANA timezone.
func (i Instant) InZone(zone string) (ZonedDateTime, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return ZonedDateTime{}, fmt.Errorf("calendar: invalid timezone %q: %w", zone, err)
	}
	t := time.UnixMilli(i.EpochMillis).In(loc)
	return ZonedDateTime{DateTime: fromGoTime(t), Zone: zone}, nil
}

// Offset returns the zone's UTC offset, in seconds, at this instant.
func (z ZonedDateTime) Offset() (int, error) {
	loc, err := time.LoadLocation(z.Zone)
	if err != nil {
		return 0, fmt.Errorf("calendar: invalid timezone %q: %w", z.Zone, err)
	}
	_, offset := z.DateTime.toGoTime(loc).Zone()
	return offset, nil
}

// Weekday returns 1 (Monday) .. 7 (Sunday) for a PlainDate, the ISO convention.
func (d PlainDate) Weekday() int {
	wd := int(time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DayOfYear returns the 1-based ordinal day within the year.
func (d PlainDate) DayOfYear() int {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).YearDay()
}

// WeekOfYear returns the ISO-8601 week number.
func (d PlainDate) WeekOfYear() int {
	_, wk := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).ISOWeek()
	return wk
}

// Compare orders two PlainDates: -1, 0, 1.
func (d PlainDate) Compare(o PlainDate) int {
	switch {
	case d.Year != o.Year:
		return signInt(d.Year - o.Year)
	case d.Month != o.Month:
		return signInt(d.Month - o.Month)
	default:
		return signInt(d.Day - o.Day)
	}
}

func signInt(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}
