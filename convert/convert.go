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

// Package convert implements spec.md §4.3: linear, affine and variant simple-unit
// conversion, composite-unit distribution, and derived-unit-to-derived-unit conversion.
// It depends only on unitdb and dimension, never on the evaluator, so the interpreter
// package is the only caller that needs to know how a conversion request reached here.
package convert

import (
	"fmt"
	"sort"

	"github.com/inkcalc/calc/dimension"
	"github.com/inkcalc/calc/types"
	"github.com/inkcalc/calc/unitdb"
)

// ErrDimensionMismatch is returned whenever a conversion is attempted between
// incompatible dimensions (spec.md §7 ConversionError).
type ErrDimensionMismatch struct {
	From, To dimension.Vector
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("convert: cannot convert dimension %s to %s", e.From, e.To)
}

// toBase converts x, expressed in unit u under the given variant setting, to u's
// dimension's base unit (spec.md §4.3 "Linear"/"Affine"/"Variant").
func toBase(u *unitdb.Unit, x float64, variant types.Variant) (float64, error) {
	conv := u.Conversion
	if conv.Type == unitdb.Variant {
		arm, ok := conv.Variants[string(variant)]
		if !ok || arm == nil {
			return 0, fmt.Errorf("convert: unit %q has no %q variant", u.ID, variant)
		}
		conv = *arm
	}
	switch conv.Type {
	case unitdb.Linear:
		// Linear factors are authored as "units of u per 1 base unit" (spec.md §4.1:
		// e.g. a millisecond's factor is 1000, a kilometer's is 0.001), so converting
		// to the base divides; fromBase, below, multiplies.
		return x / conv.Factor, nil
	case unitdb.Affine:
		return (x + conv.Offset) * conv.Factor, nil
	default:
		return 0, fmt.Errorf("convert: unit %q has unresolved variant conversion", u.ID)
	}
}

// fromBase is toBase's inverse: base value expressed in unit u.
func fromBase(u *unitdb.Unit, base float64, variant types.Variant) (float64, error) {
	conv := u.Conversion
	if conv.Type == unitdb.Variant {
		arm, ok := conv.Variants[string(variant)]
		if !ok || arm == nil {
			return 0, fmt.Errorf("convert: unit %q has no %q variant", u.ID, variant)
		}
		conv = *arm
	}
	switch conv.Type {
	case unitdb.Linear:
		return base * conv.Factor, nil
	case unitdb.Affine:
		return base/conv.Factor - conv.Offset, nil
	default:
		return 0, fmt.Errorf("convert: unit %q has unresolved variant conversion", u.ID)
	}
}

// ToBase converts x, expressed in unit u, to u's dimension's base unit. Exported for
// callers (e.g. composite-conversion target selection) that need the base-unit
// magnitude directly rather than going through Simple with some other unit.
func ToBase(u *unitdb.Unit, x float64, variant types.Variant) (float64, error) {
	return toBase(u, x, variant)
}

// Simple converts a magnitude x from unit `from` to unit `to`. Both units must belong
// to the same dimension (spec.md §4.3 "Linear"/"Affine": "convert source to the
// dimension's base via its factor, then from base to target via the inverse").
func Simple(from, to *unitdb.Unit, x float64, variant types.Variant) (float64, error) {
	if from.Dimension != to.Dimension {
		return 0, &ErrDimensionMismatch{
			From: dimension.Vector{from.Dimension: 1},
			To:   dimension.Vector{to.Dimension: 1},
		}
	}
	base, err := toBase(from, x, variant)
	if err != nil {
		return 0, err
	}
	return fromBase(to, base, variant)
}

// Component is one (value, unit) pair of a composite magnitude (spec.md §3).
type Component struct {
	Value float64
	Unit  *unitdb.Unit
}

// Composite distributes a base-unit magnitude across targets ordered from the largest
// base-factor to the smallest: every target but the last takes the integer floor of the
// remaining base value divided by its factor, subtracting that whole amount back out;
// the last target absorbs all remaining fractional residue (spec.md §4.3 "Composite
// distribution"). All targets must share one dimension.
func Composite(baseValue float64, sourceDim string, targets []*unitdb.Unit, variant types.Variant) ([]Component, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("convert: composite conversion requires at least one target unit")
	}
	for _, t := range targets {
		if t.Dimension != sourceDim {
			return nil, &ErrDimensionMismatch{
				From: dimension.Vector{sourceDim: 1},
				To:   dimension.Vector{t.Dimension: 1},
			}
		}
	}
	ordered := make([]*unitdb.Unit, len(targets))
	copy(ordered, targets)
	factorOf := func(u *unitdb.Unit) float64 {
		// fromBase(1) is how many of this unit make up 1 base unit, so sorting it
		// ascending puts the unit whose single unit covers the most of the base
		// quantity first (hour before minute before second).
		v, _ := fromBase(u, 1, variant)
		return v
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return factorOf(ordered[i]) < factorOf(ordered[j])
	})

	remaining := baseValue
	out := make([]Component, 0, len(ordered))
	for i, u := range ordered {
		if i == len(ordered)-1 {
			v, err := fromBase(u, remaining, variant)
			if err != nil {
				return nil, err
			}
			out = append(out, Component{Value: v, Unit: u})
			continue
		}
		full, err := fromBase(u, remaining, variant)
		if err != nil {
			return nil, err
		}
		whole := floor(full)
		out = append(out, Component{Value: whole, Unit: u})
		consumed, err := toBase(u, whole, variant)
		if err != nil {
			return nil, err
		}
		remaining -= consumed
	}
	return out, nil
}

func floor(x float64) float64 {
	i := float64(int64(x))
	if x < 0 && i != x {
		i--
	}
	return i
}

// DerivedTermValue is one (unit id, exponent) term together with the resolved unit, for
// derived-unit-to-derived-unit conversion.
type DerivedTermValue = dimension.Term

// Derived converts a magnitude x carrying sourceTerms into an equivalent magnitude
// expressed in targetTerms, requiring their normalised dimension vectors to match
// (spec.md §4.3 "Derived-unit target"). Conversion proceeds term-by-term through base
// units: for each source term, the factor is its unit's linear factor raised to the
// term's exponent (affine terms cannot appear in a derived unit, enforced upstream by
// dimension.Simplify).
func Derived(db *unitdb.Database, x float64, sourceTerms, targetTerms []dimension.Term, variant types.Variant) (float64, error) {
	ok, err := dimension.Compatible(db, sourceTerms, targetTerms)
	if err != nil {
		return 0, err
	}
	if !ok {
		sv, _ := dimension.Normalize(db, sourceTerms)
		tv, _ := dimension.Normalize(db, targetTerms)
		return 0, &ErrDimensionMismatch{From: sv, To: tv}
	}

	// Per-term factors are authored as "units per 1 base unit" (see toBase), so a
	// term raised to exponent e contributes factor^(-e) when converting toward the
	// base representation, and factor^(+e) when converting away from it.
	base := x
	for _, t := range sourceTerms {
		f, err := termFactor(t.Unit, variant)
		if err != nil {
			return 0, err
		}
		base *= pow(f, -t.Exponent)
	}
	result := base
	for _, t := range targetTerms {
		f, err := termFactor(t.Unit, variant)
		if err != nil {
			return 0, err
		}
		result *= pow(f, t.Exponent)
	}
	return result, nil
}

func termFactor(u *unitdb.Unit, variant types.Variant) (float64, error) {
	conv := u.Conversion
	if conv.Type == unitdb.Variant {
		arm, ok := conv.Variants[string(variant)]
		if !ok || arm == nil {
			return 0, fmt.Errorf("convert: unit %q has no %q variant", u.ID, variant)
		}
		conv = *arm
	}
	if conv.Type == unitdb.Affine {
		return 0, fmt.Errorf("convert: affine unit %q cannot appear in a derived unit", u.ID)
	}
	return conv.Factor, nil
}

func pow(base float64, exp int) float64 {
	if exp == 0 {
		return 1
	}
	neg := exp < 0
	if neg {
		exp = -exp
	}
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	if neg {
		return 1 / result
	}
	return result
}
