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
	"strings"

	"github.com/inkcalc/calc/calendar"
	"github.com/inkcalc/calc/convert"
	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/result"
	"github.com/inkcalc/calc/types"
	"github.com/inkcalc/calc/unitdb"
)

// evalConversion dispatches the four conversion-target shapes the parser can produce
// (spec.md §4.10 "Conversions"): a unit/derived-unit target, a list of composite target
// units, a date-property extraction, or a timezone name.
func evalConversion(n model.Conversion, ctx *EvaluationContext) result.Value {
	src := Evaluate(n.Source, ctx)
	if src.IsError() {
		return src
	}
	switch {
	case n.TargetProperty != "":
		return extractDateProperty(src, n.TargetProperty)
	case n.TargetTZ != "":
		return convertZone(ctx, src, n.TargetTZ)
	case len(n.TargetUnits) > 0:
		return convertComposite(ctx, src, n.TargetUnits)
	case n.TargetUnit != nil:
		return convertUnit(ctx, src, n.TargetUnit)
	case n.TargetPresentation != nil:
		return presentValue(src, n.TargetPresentation)
	default:
		return result.Err(types.ErrInternal, "conversion node carries no target")
	}
}

// presentValue wraps src in a display-only presentation (spec.md §3 "presentation",
// §4.10), translating the parser's directive into the result package's format tag.
func presentValue(src result.Value, d *model.PresentationDirective) result.Value {
	return result.Present(src, types.PresentationFormat{
		Name:     d.Name,
		Base:     d.Base,
		Decimals: d.Decimals,
		Sigfigs:  d.Sigfigs,
	})
}

func convertUnit(ctx *EvaluationContext, src result.Value, target *model.UnitExpression) result.Value {
	targetTerms, err := resolveUnitExpr(target, ctx)
	if err != nil {
		return errVal(types.ErrConversion, err)
	}
	simp, err := simplifyTerms(ctx, targetTerms)
	if err != nil {
		return errVal(types.ErrDimension, err)
	}
	if src.Kind != types.KindNumber && src.Kind != types.KindDerivedUnit {
		return result.Err(types.ErrConversion, "cannot convert a %s to a unit", src.Kind)
	}
	x, err := convertInto(ctx, src.Number, src.Terms(), simp.Terms)
	if err != nil {
		return errVal(types.ErrConversion, err)
	}
	return result.Collapse(x, simp.Terms)
}

func convertComposite(ctx *EvaluationContext, src result.Value, names []string) result.Value {
	srcTerms := src.Terms()
	if len(srcTerms) != 1 {
		return result.Err(types.ErrConversion, "composite conversion requires a simple-unit source")
	}
	baseUnit := srcTerms[0].Unit
	dim := baseUnit.Dimension
	targets := make([]*unitdb.Unit, 0, len(names))
	for _, name := range names {
		u, err := resolveUnit(name, ctx)
		if err != nil {
			return errVal(types.ErrConversion, err)
		}
		targets = append(targets, u)
	}
	base, err := convert.ToBase(baseUnit, src.Number, ctx.Settings.Variant)
	if err != nil {
		return errVal(types.ErrConversion, err)
	}
	comps, err := convert.Composite(base, dim, targets, ctx.Settings.Variant)
	if err != nil {
		return errVal(types.ErrConversion, err)
	}
	out := make([]result.CompositeComponent, len(comps))
	for i, c := range comps {
		out[i] = result.CompositeComponent{Value: c.Value, Unit: c.Unit}
	}
	return result.Value{Kind: types.KindComposite, Composite: out}
}

func convertZone(ctx *EvaluationContext, src result.Value, tzRaw string) result.Value {
	tz := strings.TrimSpace(tzRaw)
	if ctx.DB != nil && ctx.DB.Timezones() != nil {
		if iana, ok := ctx.DB.Timezones().Resolve(tz); ok {
			tz = iana
		}
	}
	var inst calendar.Instant
	switch src.Kind {
	case types.KindInstant:
		inst = src.Instant
	case types.KindZonedDateTime:
		i, err := src.ZonedDateTime.ToInstant()
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		inst = i
	default:
		return result.Err(types.ErrConversion, "timezone conversion requires an instant or zoned date-time")
	}
	z, err := inst.InZone(tz)
	if err != nil {
		return errVal(types.ErrCalendar, err)
	}
	return result.Value{Kind: types.KindZonedDateTime, ZonedDateTime: z}
}

// extractDateProperty implements spec.md §4.10's "X to <property>" date-property
// extraction (year, month, day, weekday, dayOfYear, weekOfYear, hour, minute, second,
// millisecond, offset).
func extractDateProperty(src result.Value, prop string) result.Value {
	var date *calendar.PlainDate
	var tod *calendar.PlainTime
	switch src.Kind {
	case types.KindPlainDate:
		date = &src.PlainDate
	case types.KindPlainTime:
		tod = &src.PlainTime
	case types.KindPlainDateTime:
		date = &src.PlainDateTime.Date
		tod = &src.PlainDateTime.Time
	case types.KindInstant, types.KindZonedDateTime:
		z := src.ZonedDateTime
		if src.Kind == types.KindInstant {
			zz, err := src.Instant.InZone("UTC")
			if err != nil {
				return errVal(types.ErrCalendar, err)
			}
			z = zz
		}
		date = &z.DateTime.Date
		tod = &z.DateTime.Time
		if prop == "offset" {
			off, err := z.Offset()
			if err != nil {
				return errVal(types.ErrCalendar, err)
			}
			return result.Num(float64(off))
		}
	default:
		return result.Err(types.ErrDomain, "%q is not a date/time value", prop)
	}
	switch prop {
	case "year":
		if date == nil {
			return result.Err(types.ErrDomain, "no date component to extract year from")
		}
		return result.Num(float64(date.Year))
	case "month":
		if date == nil {
			return result.Err(types.ErrDomain, "no date component to extract month from")
		}
		return result.Num(float64(date.Month))
	case "day":
		if date == nil {
			return result.Err(types.ErrDomain, "no date component to extract day from")
		}
		return result.Num(float64(date.Day))
	case "weekday":
		if date == nil {
			return result.Err(types.ErrDomain, "no date component to extract weekday from")
		}
		return result.Num(float64(date.Weekday()))
	case "dayofyear":
		if date == nil {
			return result.Err(types.ErrDomain, "no date component to extract day-of-year from")
		}
		return result.Num(float64(date.DayOfYear()))
	case "weekofyear":
		if date == nil {
			return result.Err(types.ErrDomain, "no date component to extract week-of-year from")
		}
		return result.Num(float64(date.WeekOfYear()))
	case "hour":
		if tod == nil {
			return result.Err(types.ErrDomain, "no time-of-day component to extract hour from")
		}
		return result.Num(float64(tod.Hour))
	case "minute":
		if tod == nil {
			return result.Err(types.ErrDomain, "no time-of-day component to extract minute from")
		}
		return result.Num(float64(tod.Minute))
	case "second":
		if tod == nil {
			return result.Err(types.ErrDomain, "no time-of-day component to extract second from")
		}
		return result.Num(float64(tod.Second))
	case "millisecond":
		if tod == nil {
			return result.Err(types.ErrDomain, "no time-of-day component to extract millisecond from")
		}
		return result.Num(float64(tod.Millisecond))
	default:
		return result.Err(types.ErrInternal, "unhandled date property %q", prop)
	}
}
