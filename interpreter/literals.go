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
	"time"

	"github.com/inkcalc/calc/calendar"
	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/result"
	"github.com/inkcalc/calc/types"
)

// evalCompositeLiteral evaluates "N1 u1 N2 u2 ..." by resolving every component's unit
// and checking they all share one dimension (spec.md §4.8 "structurally forbidden
// shape: composite with mixed dimensions").
func evalCompositeLiteral(n model.CompositeLiteral, ctx *EvaluationContext) result.Value {
	comps := make([]result.CompositeComponent, 0, len(n.Components))
	var dim string
	for _, c := range n.Components {
		u, err := resolveUnit(c.UnitName, ctx)
		if err != nil {
			return errVal(types.ErrConversion, err)
		}
		if dim == "" {
			dim = u.Dimension
		} else if u.Dimension != dim {
			return result.Err(types.ErrDimension, "composite magnitude mixes dimensions %q and %q", dim, u.Dimension)
		}
		comps = append(comps, result.CompositeComponent{Value: c.Value, Unit: u})
	}
	return result.Value{Kind: types.KindComposite, Composite: comps}
}

// evalDateLiteral parses a raw date/time/instant/zoned-date-time literal.
func evalDateLiteral(n model.DateLiteral, ctx *EvaluationContext) result.Value {
	switch n.Kind {
	case model.DateKindDate:
		d, _, err := calendar.ParseDate(n.Raw)
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		return result.Value{Kind: types.KindPlainDate, PlainDate: d}
	case model.DateKindTime:
		t, _, err := calendar.ParseTime(n.Raw)
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		return result.Value{Kind: types.KindPlainTime, PlainTime: t}
	case model.DateKindDateTime:
		dt, _, err := calendar.ParseDateTime(n.Raw)
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		return result.Value{Kind: types.KindPlainDateTime, PlainDateTime: dt}
	case model.DateKindInstant:
		if strings.EqualFold(n.Raw, "now") {
			return result.Value{Kind: types.KindInstant, Instant: calendar.Now(ctx.Clock)}
		}
		dt, _, err := calendar.ParseDateTime(n.Raw)
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		return result.Value{Kind: types.KindInstant, Instant: dt.ToInstant(time.Local)}
	case model.DateKindZonedDateTime:
		dt, _, err := calendar.ParseDateTime(n.Raw)
		if err != nil {
			return errVal(types.ErrCalendar, err)
		}
		tz := n.TZName
		if ctx.DB != nil && ctx.DB.Timezones() != nil {
			if iana, ok := ctx.DB.Timezones().Resolve(tz); ok {
				tz = iana
			}
		}
		return result.Value{Kind: types.KindZonedDateTime, ZonedDateTime: calendar.ZonedDateTime{DateTime: dt, Zone: tz}}
	default:
		return result.Err(types.ErrInternal, "unhandled date literal kind %v", n.Kind)
	}
}
