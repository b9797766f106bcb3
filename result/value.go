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

// Package result holds the runtime Value the evaluator produces (spec.md §3 "Value"),
// mirroring the teacher's result.Value: a tagged union exposed as a Kind tag plus
// per-kind fields, rather than a Go interface per variant, so that
// "what kind of thing is this" is always a cheap field read instead of a type switch
// over N structs.
package result

import (
	"github.com/inkcalc/calc/calendar"
	"github.com/inkcalc/calc/dimension"
	"github.com/inkcalc/calc/types"
	"github.com/inkcalc/calc/unitdb"
)

// DerivedTerm is one (unit, exponent) term of a derived-unit Value.
type DerivedTerm = dimension.Term

// CompositeComponent is one (value, unit) component of a composite Value.
type CompositeComponent struct {
	Value float64
	Unit  *unitdb.Unit
}

// Value is the result of evaluating one expression (spec.md §3 "Value"). Exactly the
// fields relevant to Kind are meaningful. The zero Value has an empty Kind; a
// heading/empty/plain-text line's result is None, whose Kind is types.KindNone.
type Value struct {
	Kind types.Kind

	// KindNumber / KindDerivedUnit
	Number         float64
	Unit           *unitdb.Unit // simple unit, nil if dimensionless; set only for KindNumber
	DerivedTerms   []DerivedTerm
	PrecisionHint  *int // number of significant decimal digits the literal was written with, nil if absent

	// KindComposite
	Composite []CompositeComponent

	// KindPlainDate / KindPlainTime / KindPlainDateTime / KindInstant / KindZonedDateTime
	PlainDate     calendar.PlainDate
	PlainTime     calendar.PlainTime
	PlainDateTime calendar.PlainDateTime
	Instant       calendar.Instant
	ZonedDateTime calendar.ZonedDateTime

	// KindDuration
	Duration calendar.Duration

	// KindPresentation
	Inner  *Value
	Format types.PresentationFormat

	// KindBoolean
	Boolean bool

	// KindError
	Error *EngineError
}

// None is the result of a heading, blank, or plain-text line (spec.md §3 "Document result").
var None = Value{Kind: types.KindNone}

// Bool constructs a KindBoolean Value.
func Bool(b bool) Value { return Value{Kind: types.KindBoolean, Boolean: b} }

// Num constructs a dimensionless KindNumber Value.
func Num(x float64) Value { return Value{Kind: types.KindNumber, Number: x} }

// NumWithUnit constructs a KindNumber Value carrying a simple unit.
func NumWithUnit(x float64, u *unitdb.Unit) Value {
	return Value{Kind: types.KindNumber, Number: x, Unit: u}
}

// DerivedUnit constructs a KindDerivedUnit Value.
func DerivedUnit(x float64, terms []DerivedTerm) Value {
	return Value{Kind: types.KindDerivedUnit, Number: x, DerivedTerms: terms}
}

// Err constructs a KindError Value, which propagates through any operator whose other
// operand is evaluated first (spec.md §7 "Propagation").
func Err(kind types.ErrorKind, format string, args ...any) Value {
	return Value{Kind: types.KindError, Error: newEngineError(kind, format, args...)}
}

// IsError reports whether v is a first-class error value.
func (v Value) IsError() bool { return v.Kind == types.KindError }

// Terms returns the unit-term view of any unit-carrying Value: a KindNumber with Unit
// set becomes a single term at exponent 1, a KindDerivedUnit returns its terms, a
// non-empty KindComposite returns its first component's unit at exponent 1, and
// anything else returns nil (dimensionless / not unit-bearing).
func (v Value) Terms() []DerivedTerm {
	switch v.Kind {
	case types.KindNumber:
		if v.Unit == nil {
			return nil
		}
		return []DerivedTerm{{Unit: v.Unit, Exponent: 1}}
	case types.KindDerivedUnit:
		return v.DerivedTerms
	case types.KindComposite:
		if len(v.Composite) == 0 {
			return nil
		}
		return []DerivedTerm{{Unit: v.Composite[0].Unit, Exponent: 1}}
	default:
		return nil
	}
}

// Collapse applies spec.md §4.2 "Result collapsing" to a term list plus scale: zero
// terms -> dimensionless number, one term at exponent 1 -> simple-unit number,
// otherwise a derived-unit value.
func Collapse(scale float64, terms []DerivedTerm) Value {
	switch {
	case len(terms) == 0:
		return Num(scale)
	case len(terms) == 1 && terms[0].Exponent == 1:
		return NumWithUnit(scale, terms[0].Unit)
	default:
		return DerivedUnit(scale, terms)
	}
}
