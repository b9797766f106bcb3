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

import "time"

// Duration is a signed year/month/week/day/hour/minute/second/millisecond tuple
// (spec.md §3, §4.4). Components are independent (not automatically carried into one
// another) until AddToDate/AddToDateTime apply them unit-by-unit.
type Duration struct {
	Years, Months, Weeks, Days            int
	Hours, Minutes, Seconds, Milliseconds int
	// FracSeconds carries any fractional seconds, used only when a duration arises
	// from a time-dimensioned number promotion (spec.md §4.4 "Time-dimensioned numbers
	// promote to Duration"); present so HasFraction reports true and the total-seconds
	// fallback conversion (spec.md §4.4) is exact.
	FracSeconds float64
}

// HasFraction reports whether this duration carries non-integer components. Fractional
// components are forbidden for calendar addition; such durations fall back to
// total-seconds conversion (spec.md §4.4).
func (d Duration) HasFraction() bool { return d.FracSeconds != 0 }

// HasTimeComponents reports whether any of the hour/minute/second/millisecond fields
// are non-zero, used by the PlainDate+Duration arithmetic rule (spec.md §4.4 footnote).
func (d Duration) HasTimeComponents() bool {
	return d.Hours != 0 || d.Minutes != 0 || d.Seconds != 0 || d.Milliseconds != 0 || d.FracSeconds != 0
}

// HasDateComponents reports whether any of the year/month/week/day fields are non-zero.
func (d Duration) HasDateComponents() bool {
	return d.Years != 0 || d.Months != 0 || d.Weeks != 0 || d.Days != 0
}

// averageMonthSeconds and averageYearSeconds are the constants spec.md's "Open
// Questions" section names explicitly: an "average month" of 30.4375 days coexists with
// calendar-month semantics. They are used only for the total-seconds fallback when a
// Duration with fractional components must be added as a uniform instant offset
// (spec.md §4.4), per SPEC_FULL's Open Question decision #1 — never for date-to-date
// subtraction, which always yields exact calendar components.
const (
	averageMonthSeconds = 30.4375 * 86400
	averageYearSeconds  = 365.25 * 86400
)

// TotalSeconds converts a Duration to a uniform number of seconds using the average
// month/year constants, for the fractional-duration fallback path described above.
func (d Duration) TotalSeconds() float64 {
	return float64(d.Years)*averageYearSeconds +
		float64(d.Months)*averageMonthSeconds +
		float64(d.Weeks)*7*86400 +
		float64(d.Days)*86400 +
		float64(d.Hours)*3600 +
		float64(d.Minutes)*60 +
		float64(d.Seconds) +
		float64(d.Milliseconds)/1000 +
		d.FracSeconds
}

// Negate returns -d, flipping every component.
func (d Duration) Negate() Duration {
	return Duration{
		Years: -d.Years, Months: -d.Months, Weeks: -d.Weeks, Days: -d.Days,
		Hours: -d.Hours, Minutes: -d.Minutes, Seconds: -d.Seconds, Milliseconds: -d.Milliseconds,
		FracSeconds: -d.FracSeconds,
	}
}

// AddToDate adds a Duration to a PlainDate using constrained-overflow calendar
// arithmetic applied unit-by-unit in descending order (spec.md §4.4): years, then
// months (clamping day-of-month after the step to the target month's last valid day,
// per §8 property 4), then weeks, then days. If the duration carries any time
// components, the result promotes to a PlainDateTime at midnight plus those components
// (spec.md §4.4 footnote); if it carries a fraction, AddToDate instead falls back to
// the total-seconds path via addSecondsFallback.
func (d PlainDate) AddToDate(dur Duration) (PlainDate, *PlainDateTime, error) {
	if dur.HasFraction() {
		dt, err := addSecondsFallback(PlainDateTime{Date: d}, dur.TotalSeconds())
		return PlainDate{}, &dt, err
	}
	year := d.Year + dur.Years
	year, month := normalizeMonth(year, d.Month+dur.Months)
	day := d.Day
	if day > daysInMonth(year, month) {
		day = daysInMonth(year, month)
	}
	result := PlainDate{Year: year, Month: month, Day: day}
	result = result.addDays(dur.Weeks*7 + dur.Days)

	if dur.HasTimeComponents() {
		dt := PlainDateTime{Date: result, Time: PlainTime{}}
		dt = dt.addTimeComponents(dur)
		return PlainDate{}, &dt, nil
	}
	return result, nil, nil
}

// addDays shifts a date by a (possibly negative) integer number of days, via Go's
// calendar-correct time.Date normalization.
func (d PlainDate) addDays(n int) PlainDate {
	t := time.Date(d.Year, time.Month(d.Month), d.Day+n, 0, 0, 0, 0, time.UTC)
	return PlainDate{t.Year(), int(t.Month()), t.Day()}
}

// addTimeComponents applies the time-of-day fields of dur on top of dt, carrying any
// overflow into the date the same way Go's time.Date normalization would.
func (dt PlainDateTime) addTimeComponents(dur Duration) PlainDateTime {
	t := dt.toGoTime(time.UTC)
	t = t.Add(time.Duration(dur.Hours)*time.Hour +
		time.Duration(dur.Minutes)*time.Minute +
		time.Duration(dur.Seconds)*time.Second +
		time.Duration(dur.Milliseconds)*time.Millisecond)
	return fromGoTime(t)
}

// AddToDateTime adds a Duration to a PlainDateTime, applying date components with
// constrained overflow (as AddToDate) and then time components with carry (spec.md
// §4.4). A fractional duration falls back to total-seconds addition via Instant.
func (dt PlainDateTime) AddToDateTime(dur Duration) (PlainDateTime, error) {
	if dur.HasFraction() {
		return addSecondsFallback(dt, dur.TotalSeconds())
	}
	dateOnly := Duration{Years: dur.Years, Months: dur.Months, Weeks: dur.Weeks, Days: dur.Days}
	newDate, promoted, err := dt.Date.AddToDate(dateOnly)
	if err != nil {
		return PlainDateTime{}, err
	}
	base := PlainDateTime{Date: newDate, Time: dt.Time}
	if promoted != nil {
		base = *promoted
		base.Time = dt.Time
	}
	timeOnly := Duration{Hours: dur.Hours, Minutes: dur.Minutes, Seconds: dur.Seconds, Milliseconds: dur.Milliseconds}
	return base.addTimeComponents(timeOnly), nil
}

// addSecondsFallback implements the "fall back to total-seconds conversion and add as a
// uniform instant offset" rule for fractional durations (spec.md §4.4).
func addSecondsFallback(dt PlainDateTime, seconds float64) (PlainDateTime, error) {
	t := dt.toGoTime(time.UTC)
	whole := int64(seconds)
	frac := seconds - float64(whole)
	t = t.Add(time.Duration(whole)*time.Second + time.Duration(frac*float64(time.Second)))
	return fromGoTime(t), nil
}

// AddToTime adds a Duration's time components to a PlainTime. If the sum crosses a day
// boundary, the caller (AddTimeToTimeOfDay) promotes to a PlainDateTime at today's date
// (spec.md §4.4 footnote); AddToTime itself reports how many days it overflowed.
func (t PlainTime) AddToTime(dur Duration) (result PlainTime, dayOverflow int) {
	totalMillis := int64(t.Hour)*3600000 + int64(t.Minute)*60000 + int64(t.Second)*1000 + int64(t.Millisecond)
	deltaMillis := int64(dur.Hours)*3600000 + int64(dur.Minutes)*60000 + int64(dur.Seconds)*1000 + int64(dur.Milliseconds)
	totalMillis += deltaMillis
	const dayMillis = 86400000
	dayOverflow = int(floorDiv64(totalMillis, dayMillis))
	totalMillis = floorMod64(totalMillis, dayMillis)
	result = PlainTime{
		Hour:        int(totalMillis / 3600000),
		Minute:      int((totalMillis / 60000) % 60),
		Second:      int((totalMillis / 1000) % 60),
		Millisecond: int(totalMillis % 1000),
	}
	return result, dayOverflow
}

func floorDiv64(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod64(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// SubDates computes a date-only Duration representing d - o (spec.md's arithmetic
// matrix: "PlainDate - PlainDate -> Duration (date-only)"), expressed in exact calendar
// days (no years/months folding — callers wanting calendar-unit breakdown can derive it
// from the day count and the two dates).
func SubDates(d, o PlainDate) Duration {
	a := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(o.Year, time.Month(o.Month), o.Day, 0, 0, 0, 0, time.UTC)
	days := int(a.Sub(b).Hours() / 24)
	return Duration{Days: days}
}

// SubTimes computes a time-only Duration representing t - o (spec.md's arithmetic
// matrix: "PlainTime - PlainTime -> Duration (time-only)").
func SubTimes(t, o PlainTime) Duration {
	tm := int64(t.Hour)*3600000 + int64(t.Minute)*60000 + int64(t.Second)*1000 + int64(t.Millisecond)
	om := int64(o.Hour)*3600000 + int64(o.Minute)*60000 + int64(o.Second)*1000 + int64(o.Millisecond)
	delta := tm - om
	ms := delta % 1000
	delta /= 1000
	s := delta % 60
	delta /= 60
	m := delta % 60
	delta /= 60
	h := delta
	return Duration{Hours: int(h), Minutes: int(m), Seconds: int(s), Milliseconds: int(ms)}
}

// SubDateTimes computes dt - o as a Duration (spec.md's arithmetic matrix:
// "PlainDateTime - PlainDateTime -> Duration"), exact to the millisecond.
func SubDateTimes(dt, o PlainDateTime) Duration {
	a := dt.toGoTime(time.UTC)
	b := o.toGoTime(time.UTC)
	delta := a.Sub(b)
	totalMs := delta.Milliseconds()
	days := totalMs / 86400000
	rem := totalMs % 86400000
	h := rem / 3600000
	rem %= 3600000
	m := rem / 60000
	rem %= 60000
	s := rem / 1000
	ms := rem % 1000
	return Duration{Days: int(days), Hours: int(h), Minutes: int(m), Seconds: int(s), Milliseconds: int(ms)}
}

// SubInstants computes a - b as whole seconds in Duration.Seconds plus the millisecond
// remainder in Duration.Milliseconds, the arithmetic matrix's "Instant - Instant ->
// Duration (seconds)".
func SubInstants(a, b Instant) Duration {
	deltaMs := a.EpochMillis - b.EpochMillis
	return Duration{Seconds: int(deltaMs / 1000), Milliseconds: int(deltaMs % 1000)}
}

// AddToInstant shifts i by dur using total-seconds arithmetic (an Instant has no
// calendar to apply month/year clamping against), per the arithmetic matrix's
// "Instant + Duration -> Instant".
func (i Instant) AddToInstant(dur Duration) Instant {
	return Instant{EpochMillis: i.EpochMillis + int64(dur.TotalSeconds()*1000)}
}
