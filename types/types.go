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

// Package types holds the kind tags shared by the parser, model and result packages: the
// runtime Value kinds, the presentation formats and a handful of taxonomies (error kind,
// date-time precision) that more than one package needs to agree on.
package types

// Kind identifies the dynamic shape of a runtime Value. It is deliberately a closed,
// flat enum rather than a type hierarchy: the evaluator and selector both switch on it.
type Kind string

const (
	// KindNumber is a double with an optional unit and precision hint.
	KindNumber Kind = "number"
	// KindDerivedUnit is a double carrying a list of (unit, exponent) terms.
	KindDerivedUnit Kind = "derived-unit"
	// KindComposite is an ordered list of (double, unit) components sharing one dimension.
	KindComposite Kind = "composite"
	// KindPlainDate is a calendar date with no time-of-day or zone.
	KindPlainDate Kind = "plain-date"
	// KindPlainTime is a time-of-day with no date or zone.
	KindPlainTime Kind = "plain-time"
	// KindPlainDateTime is a date and time-of-day with no zone.
	KindPlainDateTime Kind = "plain-date-time"
	// KindInstant is an absolute point in time (epoch milliseconds).
	KindInstant Kind = "instant"
	// KindZonedDateTime is a PlainDateTime anchored to an IANA timezone.
	KindZonedDateTime Kind = "zoned-date-time"
	// KindDuration is a signed year/month/week/day/hour/minute/second/millisecond tuple.
	KindDuration Kind = "duration"
	// KindPresentation wraps another Value with a display format.
	KindPresentation Kind = "presentation"
	// KindBoolean is a boolean.
	KindBoolean Kind = "boolean"
	// KindError is a first-class error value (see the Kind error taxonomy below).
	KindError Kind = "error"
	// KindNone is the result of a heading, blank, or plain-text line.
	KindNone Kind = "none"
)

// ErrorKind is the taxonomy from spec.md §7. It is carried on result.Value so that an
// error can be inspected (and propagated) like any other value.
type ErrorKind string

const (
	// ErrParse: no candidate admitted by the grammar, or all pruned.
	ErrParse ErrorKind = "ParseError"
	// ErrDimension: operation between incompatible dimensions.
	ErrDimension ErrorKind = "DimensionError"
	// ErrConversion: unknown target unit, or dimension mismatch at a conversion site.
	ErrConversion ErrorKind = "ConversionError"
	// ErrDivisionByZero: division where the divisor is exactly zero.
	ErrDivisionByZero ErrorKind = "DivisionByZero"
	// ErrModuloByZero: modulo where the divisor is exactly zero.
	ErrModuloByZero ErrorKind = "ModuloByZero"
	// ErrDomain: factorial of a non-integer, logarithm of a non-positive number, etc.
	ErrDomain ErrorKind = "DomainError"
	// ErrUnknownIdentifier: used by the evaluator when the pruner did not catch it.
	ErrUnknownIdentifier ErrorKind = "UnknownIdentifier"
	// ErrUnknownFunction: call to a function name with no registered handler.
	ErrUnknownFunction ErrorKind = "UnknownFunction"
	// ErrCalendar: malformed date, invalid timezone.
	ErrCalendar ErrorKind = "CalendarError"
	// ErrInternal: invariant violation; should never surface from a correct build.
	ErrInternal ErrorKind = "InternalError"
)

// PresentationFormat tags how a wrapped value should be rendered. Exactly one of the
// string-valued constants below, or Base/Decimals/Sigfigs with N set, is active per value.
type PresentationFormat struct {
	Name     string // one of the PresFoo constants below, or "" if Base/Decimals/Sigfigs is used
	Base     int    // 2..36, valid when Name == ""  and Decimals == 0 && Sigfigs == 0
	Decimals int    // valid when > 0
	Sigfigs  int    // valid when > 0
}

const (
	PresBinary     = "binary"
	PresHex        = "hex"
	PresOctal      = "octal"
	PresDecimal    = "decimal"
	PresFraction   = "fraction"
	PresOrdinal    = "ordinal"
	PresScientific = "scientific"
	PresISO8601    = "iso8601"
	PresRFC2822    = "rfc2822"
	PresUnixSec    = "unix-seconds"
	PresUnixMilli  = "unix-milliseconds"
)

// DateTimePrecision records how much of a date/time literal was actually written out, so
// that e.g. "year" extraction on a date parsed to month precision can report UnsetPrecision.
type DateTimePrecision int

const (
	UnsetPrecision DateTimePrecision = iota
	YearPrecision
	MonthPrecision
	DayPrecision
	HourPrecision
	MinutePrecision
	SecondPrecision
	MillisecondPrecision
)

// Variant selects the US or UK arm of a variant unit conversion (spec.md §3/§4.3).
type Variant string

const (
	VariantUS Variant = "us"
	VariantUK Variant = "uk"
)

// AngleUnit selects how trig functions interpret/produce dimensionless arguments (spec.md §4.10).
type AngleUnit string

const (
	AngleDegree AngleUnit = "degree"
	AngleRadian AngleUnit = "radian"
)

// Settings is the evaluator configuration from spec.md §6.
type Settings struct {
	Variant   Variant
	AngleUnit AngleUnit
}

// DefaultSettings mirrors the teacher's default-config idiom: degrees for user-facing
// trig, US variant units, matching how most notebook calculators present themselves.
func DefaultSettings() Settings {
	return Settings{Variant: VariantUS, AngleUnit: AngleDegree}
}
