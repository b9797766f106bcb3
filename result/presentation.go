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

package result

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/inkcalc/calc/calendar"
	"github.com/inkcalc/calc/types"
)

// Present wraps inner in a presentation Value (spec.md §9 "Presentation wrapping":
// "rather than mutating a value's formatting flag, wrap it in a presentation variant").
// Nesting collapses to the outermost, so presenting an already-presented value replaces
// its format rather than stacking wrappers.
func Present(inner Value, format types.PresentationFormat) Value {
	if inner.Kind == types.KindPresentation {
		inner = *inner.Inner
	}
	cp := inner
	return Value{Kind: types.KindPresentation, Inner: &cp, Format: format}
}

// Format renders a Value for display, resolving any presentation wrapper (spec.md §9:
// "resolved only at display"). It is the one place formatting logic lives; evaluation
// never needs to know how a number will eventually be printed.
func Format(v Value, unixUTCForBareDate bool) (string, error) {
	if v.Kind == types.KindPresentation {
		return formatWithDirective(*v.Inner, v.Format, unixUTCForBareDate)
	}
	return formatPlain(v)
}

func formatPlain(v Value) (string, error) {
	switch v.Kind {
	case types.KindNumber:
		if v.Unit != nil {
			return fmt.Sprintf("%s %s", trimFloat(v.Number), v.Unit.DisplayName.Symbol), nil
		}
		return trimFloat(v.Number), nil
	case types.KindDerivedUnit:
		return fmt.Sprintf("%s %s", trimFloat(v.Number), derivedUnitString(v.DerivedTerms)), nil
	case types.KindComposite:
		parts := make([]string, len(v.Composite))
		for i, c := range v.Composite {
			parts[i] = fmt.Sprintf("%s %s", trimFloat(c.Value), c.Unit.DisplayName.Symbol)
		}
		return strings.Join(parts, " "), nil
	case types.KindBoolean:
		return strconv.FormatBool(v.Boolean), nil
	case types.KindPlainDate:
		d := v.PlainDate
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day), nil
	case types.KindPlainTime:
		t := v.PlainTime
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second), nil
	case types.KindPlainDateTime:
		return calendar.FormatISO8601(v.PlainDateTime), nil
	case types.KindInstant:
		return fmt.Sprintf("%dms since epoch", v.Instant.EpochMillis), nil
	case types.KindZonedDateTime:
		s, err := calendar.FormatRFC2822(v.ZonedDateTime)
		if err != nil {
			return "", err
		}
		return s, nil
	case types.KindDuration:
		return formatDuration(v.Duration), nil
	case types.KindError:
		return "", v.Error
	case types.KindNone:
		return "", nil
	default:
		return "", fmt.Errorf("result: cannot format value kind %q", v.Kind)
	}
}

func formatWithDirective(v Value, f types.PresentationFormat, unixUTCForBareDate bool) (string, error) {
	switch {
	case f.Decimals > 0:
		return strconv.FormatFloat(v.Number, 'f', f.Decimals, 64), nil
	case f.Sigfigs > 0:
		return sigfigs(v.Number, f.Sigfigs), nil
	case f.Base != 0:
		return baseFormat(v.Number, f.Base)
	}
	switch f.Name {
	case types.PresBinary:
		return baseFormat(v.Number, 2)
	case types.PresHex:
		return baseFormat(v.Number, 16)
	case types.PresOctal:
		return baseFormat(v.Number, 8)
	case types.PresDecimal:
		return baseFormat(v.Number, 10)
	case types.PresFraction:
		return fractionString(v.Number), nil
	case types.PresOrdinal:
		return ordinal(v.Number), nil
	case types.PresScientific:
		return strconv.FormatFloat(v.Number, 'e', -1, 64), nil
	case types.PresISO8601:
		return isoPresent(v)
	case types.PresRFC2822:
		return rfcPresent(v)
	case types.PresUnixSec:
		ms, err := unixMillis(v, unixUTCForBareDate)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(ms/1000, 10), nil
	case types.PresUnixMilli:
		ms, err := unixMillis(v, unixUTCForBareDate)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(ms, 10), nil
	default:
		return formatPlain(v)
	}
}

func isoPresent(v Value) (string, error) {
	switch v.Kind {
	case types.KindPlainDateTime:
		return calendar.FormatISO8601(v.PlainDateTime), nil
	case types.KindPlainDate:
		d := v.PlainDate
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day), nil
	default:
		return formatPlain(v)
	}
}

func rfcPresent(v Value) (string, error) {
	if v.Kind != types.KindZonedDateTime {
		return "", fmt.Errorf("result: rfc2822 presentation requires a zoned date-time")
	}
	return calendar.FormatRFC2822(v.ZonedDateTime)
}

// unixMillis resolves a value to epoch milliseconds for the unix presentation. A bare
// PlainDate is treated as midnight, and a PlainDateTime as its wall-clock time, in UTC
// when unixUTCForBareDate is set and in the system timezone otherwise (SPEC_FULL.md
// Open Question decision #2).
func unixMillis(v Value, unixUTCForBareDate bool) (int64, error) {
	switch v.Kind {
	case types.KindInstant:
		return v.Instant.EpochMillis, nil
	case types.KindZonedDateTime:
		i, err := v.ZonedDateTime.ToInstant()
		if err != nil {
			return 0, err
		}
		return i.EpochMillis, nil
	case types.KindPlainDate:
		return v.PlainDate.ToInstant(utcOrSystem(unixUTCForBareDate)).EpochMillis, nil
	case types.KindPlainDateTime:
		return v.PlainDateTime.ToInstant(utcOrSystem(unixUTCForBareDate)).EpochMillis, nil
	default:
		return 0, fmt.Errorf("result: unix presentation requires a date/time value")
	}
}

func derivedUnitString(terms []DerivedTerm) string {
	var num, den []string
	for _, t := range terms {
		switch {
		case t.Exponent == 1:
			num = append(num, t.Unit.DisplayName.Symbol)
		case t.Exponent > 1:
			num = append(num, fmt.Sprintf("%s^%d", t.Unit.DisplayName.Symbol, t.Exponent))
		case t.Exponent == -1:
			den = append(den, t.Unit.DisplayName.Symbol)
		default:
			den = append(den, fmt.Sprintf("%s^%d", t.Unit.DisplayName.Symbol, -t.Exponent))
		}
	}
	s := strings.Join(num, "*")
	if len(den) > 0 {
		s += "/" + strings.Join(den, "*")
	}
	return s
}

func formatDuration(d calendar.Duration) string {
	var parts []string
	add := func(n int, unit string) {
		if n != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, unit))
		}
	}
	add(d.Years, "years")
	add(d.Months, "months")
	add(d.Weeks, "weeks")
	add(d.Days, "days")
	add(d.Hours, "hours")
	add(d.Minutes, "minutes")
	add(d.Seconds, "seconds")
	add(d.Milliseconds, "milliseconds")
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, " ")
}

func trimFloat(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	return s
}

func baseFormat(x float64, base int) (string, error) {
	if base < 2 || base > 36 {
		return "", fmt.Errorf("result: base must be in [2, 36], got %d", base)
	}
	if x != math.Trunc(x) {
		return "", fmt.Errorf("result: base-N presentation requires an integer value")
	}
	return strconv.FormatInt(int64(x), base), nil
}

func sigfigs(x float64, n int) string {
	if x == 0 {
		return "0"
	}
	mag := int(math.Floor(math.Log10(math.Abs(x)))) + 1
	decimals := n - mag
	return strconv.FormatFloat(x, 'f', decimals, 64)
}

func fractionString(x float64) string {
	whole := math.Trunc(x)
	frac := x - whole
	if frac == 0 {
		return strconv.FormatFloat(whole, 'f', 0, 64)
	}
	const maxDen = 1000000
	bestNum, bestDen := int64(0), int64(1)
	bestErr := math.Abs(frac)
	for den := int64(1); den <= maxDen; den++ {
		num := math.Round(frac * float64(den))
		approxErr := math.Abs(frac - num/float64(den))
		if approxErr < bestErr {
			bestErr, bestNum, bestDen = approxErr, int64(num), den
		}
		if approxErr < 1e-9 {
			break
		}
	}
	if whole == 0 {
		return fmt.Sprintf("%d/%d", bestNum, bestDen)
	}
	return fmt.Sprintf("%d %d/%d", int64(whole), bestNum, bestDen)
}

func ordinal(x float64) string {
	n := int64(x)
	s := strconv.FormatInt(n, 10)
	if n%100 >= 11 && n%100 <= 13 {
		return s + "th"
	}
	switch n % 10 {
	case 1:
		return s + "st"
	case 2:
		return s + "nd"
	case 3:
		return s + "rd"
	default:
		return s + "th"
	}
}

func utcOrSystem(utc bool) *time.Location {
	if utc {
		return time.UTC
	}
	return time.Local
}
