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

package interpreter

import (
	"time"

	"github.com/inkcalc/calc/calendar"
	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/result"
	"github.com/inkcalc/calc/types"
)

func isDateTimeLike(v result.Value) bool {
	switch v.Kind {
	case types.KindPlainDate, types.KindPlainTime, types.KindPlainDateTime, types.KindInstant, types.KindZonedDateTime:
		return true
	default:
		return false
	}
}

// dateTimeArithmetic implements spec.md §4.4's date/time/duration addition matrix: any
// date-like value plus/minus a Duration yields the same kind of date-like value, except
// that a PlainDate promotes to a PlainDateTime when the Duration has time components and
// a PlainTime promotes to a PlainDateTime on today's date when the sum crosses a day; two
// date-like values of the *same* kind subtracted yield a Duration; two Durations
// combine component-wise. Every other combination (mixed date-like kinds, a Duration
// subtracted from the left of a non-Duration, a date-like value added to another
// date-like value) is a domain error.
func dateTimeArithmetic(ctx *EvaluationContext, l, r result.Value, sub bool) result.Value {
	switch {
	case l.Kind == types.KindDuration && r.Kind == types.KindDuration:
		return result.Value{Kind: types.KindDuration, Duration: combineDurations(l.Duration, r.Duration, sub)}
	case isDateTimeLike(l) && r.Kind == types.KindDuration:
		return addDurationTo(ctx, l, r.Duration, sub)
	case l.Kind == types.KindDuration && isDateTimeLike(r) && !sub:
		return addDurationTo(ctx, r, l.Duration, false)
	case isDateTimeLike(l) && isDateTimeLike(r):
		if !sub {
			return result.Err(types.ErrDomain, "cannot add two date/time values together")
		}
		if l.Kind != r.Kind {
			return result.Err(types.ErrDomain, "cannot subtract a %s from a %s", r.Kind, l.Kind)
		}
		return subtractSameKind(l, r)
	default:
		return result.Err(types.ErrDomain, "+/- require matching date/time/duration operands")
	}
}

func combineDurations(a, b calendar.Duration, sub bool) calendar.Duration {
	if sub {
		b = b.Negate()
	}
	return calendar.Duration{
		Years: a.Years + b.Years, Months: a.Months + b.Months, Weeks: a.Weeks + b.Weeks, Days: a.Days + b.Days,
		Hours: a.Hours + b.Hours, Minutes: a.Minutes + b.Minutes, Seconds: a.Seconds + b.Seconds,
		Milliseconds: a.Milliseconds + b.Milliseconds, FracSeconds: a.FracSeconds + b.FracSeconds,
	}
}

func addDurationTo(ctx *EvaluationContext, v result.Value, dur calendar.Duration, sub bool) result.Value {
	if sub {
		dur = dur.Negate()
	}
	switch v.Kind {
	case types.KindPlainDate:
		d, dt, err := v.PlainDate.AddToDate(dur)
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		if dt != nil {
			return result.Value{Kind: types.KindPlainDateTime, PlainDateTime: *dt}
		}
		return result.Value{Kind: types.KindPlainDate, PlainDate: d}
	case types.KindPlainTime:
		t, dt := calendar.AddTimeToTimeOfDay(v.PlainTime, dur, calendar.Today(ctx.Clock, time.Local))
		if dt != nil {
			return result.Value{Kind: types.KindPlainDateTime, PlainDateTime: *dt}
		}
		return result.Value{Kind: types.KindPlainTime, PlainTime: t}
	case types.KindPlainDateTime:
		dt, err := v.PlainDateTime.AddToDateTime(dur)
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		return result.Value{Kind: types.KindPlainDateTime, PlainDateTime: dt}
	case types.KindInstant:
		return result.Value{Kind: types.KindInstant, Instant: v.Instant.AddToInstant(dur)}
	case types.KindZonedDateTime:
		dt, err := v.ZonedDateTime.DateTime.AddToDateTime(dur)
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		return result.Value{Kind: types.KindZonedDateTime, ZonedDateTime: calendar.ZonedDateTime{DateTime: dt, Zone: v.ZonedDateTime.Zone}}
	default:
		return result.Err(types.ErrInternal, "addDurationTo: unhandled kind %v", v.Kind)
	}
}

func subtractSameKind(l, r result.Value) result.Value {
	switch l.Kind {
	case types.KindPlainDate:
		return result.Value{Kind: types.KindDuration, Duration: calendar.SubDates(l.PlainDate, r.PlainDate)}
	case types.KindPlainTime:
		return result.Value{Kind: types.KindDuration, Duration: calendar.SubTimes(l.PlainTime, r.PlainTime)}
	case types.KindPlainDateTime:
		return result.Value{Kind: types.KindDuration, Duration: calendar.SubDateTimes(l.PlainDateTime, r.PlainDateTime)}
	case types.KindInstant:
		return result.Value{Kind: types.KindDuration, Duration: calendar.SubInstants(l.Instant, r.Instant)}
	case types.KindZonedDateTime:
		li, err := l.ZonedDateTime.ToInstant()
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		ri, err := r.ZonedDateTime.ToInstant()
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		return result.Value{Kind: types.KindDuration, Duration: calendar.SubInstants(li, ri)}
	default:
		return result.Err(types.ErrInternal, "subtractSameKind: unhandled kind %v", l.Kind)
	}
}

// compareDateTimes implements ordering for date/time-like operands: same-kind values
// compare component-wise (via the shared instant resolution), mixed kinds are a domain
// error (spec.md §4.4 "Non-goals" never relaxes comparison to cross-kind coercion).
func compareDateTimes(op model.BinaryOp, l, r result.Value) result.Value {
	if l.Kind != r.Kind {
		return result.Err(types.ErrDomain, "cannot compare a %s with a %s", l.Kind, r.Kind)
	}
	var cmp int
	switch l.Kind {
	case types.KindPlainDate:
		cmp = l.PlainDate.Compare(r.PlainDate)
	case types.KindInstant:
		d := calendar.SubInstants(l.Instant, r.Instant)
		cmp = sign(d.TotalSeconds())
	case types.KindPlainDateTime:
		d := calendar.SubDateTimes(l.PlainDateTime, r.PlainDateTime)
		cmp = sign(d.TotalSeconds())
	case types.KindPlainTime:
		d := calendar.SubTimes(l.PlainTime, r.PlainTime)
		cmp = sign(d.TotalSeconds())
	case types.KindZonedDateTime:
		li, err := l.ZonedDateTime.ToInstant()
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		ri, err := r.ZonedDateTime.ToInstant()
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		d := calendar.SubInstants(li, ri)
		cmp = sign(d.TotalSeconds())
	default:
		return result.Err(types.ErrDomain, "%s is not an ordered type", l.Kind)
	}
	switch op {
	case model.OpLt:
		return result.Bool(cmp < 0)
	case model.OpLe:
		return result.Bool(cmp <= 0)
	case model.OpGt:
		return result.Bool(cmp > 0)
	case model.OpGe:
		return result.Bool(cmp >= 0)
	default:
		return result.Err(types.ErrInternal, "compareDateTimes: unhandled operator %q", op)
	}
}

func sign(x float64) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}
