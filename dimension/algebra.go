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

// Package dimension implements the dimensional algebra of spec.md §4.2: normalising
// unit-term lists into base-dimension exponent vectors, checking compatibility,
// combining (multiplying) term lists, simplifying them to a canonical representation,
// and exponentiation. Every function here is pure: no I/O, no mutable state, so the
// package is trivially safe to call from trial evaluation (spec.md §4.10, §5).
package dimension

import (
	"fmt"
	"sort"

	"github.com/inkcalc/calc/unitdb"
)

// Term is one (unit, exponent) pair in a simple-or-derived unit expression (spec.md §3).
type Term struct {
	Unit     *unitdb.Unit
	Exponent int
}

// Vector is a normalised base-dimension exponent map, e.g. {length: 1, time: -1} for
// speed. Two values are dimensionally compatible iff their Vectors are exactly equal
// (spec.md §4.2 "Compatibility").
type Vector map[string]int

// Equal reports whether two vectors have the same non-zero entries.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for k, e := range v {
		if o[k] != e {
			return false
		}
	}
	return true
}

// String renders a vector deterministically, e.g. "length^1 time^-1", for error
// messages and tests.
func (v Vector) String() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ""
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s^%d", k, v[k])
	}
	if s == "" {
		return "dimensionless"
	}
	return s
}

// IsDimensionless reports whether the vector has no non-zero entries.
func (v Vector) IsDimensionless() bool { return len(v) == 0 }

// Normalize expands a term list into its base-dimension exponent vector, recursing
// through each unit's dimension's DerivedFrom chain (spec.md §4.2 "Normalisation").
// Zero exponents are dropped from the result.
func Normalize(db *unitdb.Database, terms []Term) (Vector, error) {
	v := Vector{}
	for _, t := range terms {
		dv, err := dimensionVector(db, t.Unit.Dimension, t.Exponent)
		if err != nil {
			return nil, err
		}
		for k, e := range dv {
			v[k] += e
			if v[k] == 0 {
				delete(v, k)
			}
		}
	}
	return v, nil
}

// dimensionVector expands a single dimension id to its base-dimension exponent vector,
// scaled by exponent, recursing through derived-from chains.
func dimensionVector(db *unitdb.Database, dimID string, exponent int) (Vector, error) {
	d, ok := db.Dimension(dimID)
	if !ok {
		return nil, fmt.Errorf("dimension: unknown dimension %q", dimID)
	}
	if d.IsBase() {
		return Vector{dimID: exponent}, nil
	}
	out := Vector{}
	for _, term := range d.DerivedFrom {
		sub, err := dimensionVector(db, term.Dimension, term.Exponent*exponent)
		if err != nil {
			return nil, err
		}
		for k, e := range sub {
			out[k] += e
			if out[k] == 0 {
				delete(out, k)
			}
		}
	}
	return out, nil
}

// Compatible reports whether two term lists share the same normalised dimension vector
// (spec.md §4.2 "Compatibility").
func Compatible(db *unitdb.Database, a, b []Term) (bool, error) {
	va, err := Normalize(db, a)
	if err != nil {
		return false, err
	}
	vb, err := Normalize(db, b)
	if err != nil {
		return false, err
	}
	return va.Equal(vb), nil
}

// Combine concatenates two term lists, merging exponents for shared unit ids and
// dropping any that cancel to zero (spec.md §4.2 "Combine (multiply)").
func Combine(a, b []Term) []Term {
	byID := make(map[string]*Term)
	order := make([]string, 0, len(a)+len(b))
	add := func(terms []Term) {
		for _, t := range terms {
			if existing, ok := byID[t.Unit.ID]; ok {
				existing.Exponent += t.Exponent
				continue
			}
			cp := t
			byID[t.Unit.ID] = &cp
			order = append(order, t.Unit.ID)
		}
	}
	add(a)
	add(b)
	out := make([]Term, 0, len(order))
	for _, id := range order {
		t := byID[id]
		if t.Exponent == 0 {
			continue
		}
		out = append(out, *t)
	}
	return out
}

// Exponentiate multiplies every term's exponent by n (spec.md §4.2 "Exponentiation"). When
// a term's unit has an affine conversion, Exponentiate refuses: affine conversions may
// never participate in multiplicative combination (spec.md §4.2, §3 invariant).
func Exponentiate(terms []Term, n int) ([]Term, error) {
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		if t.Unit.Conversion.Type == unitdb.Affine {
			return nil, fmt.Errorf("dimension: cannot exponentiate affine unit %q", t.Unit.ID)
		}
		out = append(out, Term{Unit: t.Unit, Exponent: t.Exponent * n})
	}
	return out, nil
}

// Simplified is the collapsed result of Simplify: a numeric scale factor to apply to
// the original magnitude, plus the canonical term list (spec.md §4.2 "Result
// collapsing": zero terms -> dimensionless, one term at exponent 1 -> simple unit,
// otherwise derived).
type Simplified struct {
	Scale float64
	Terms []Term
}

// Simplify groups terms by dimension; when a dimension has more than one term entry, it
// folds them into a single representative term (the first encountered for that
// dimension) whose exponent is the summed exponent, multiplying Scale by each
// contributor's linear factor relative to the representative, raised to its own
// exponent, so the magnitude is expressed in the representative unit (spec.md §4.2
// "Simplify").
// Affine conversions are forbidden as multiplicative factors and return an error;
// variant conversions contribute no factor at this stage, matching spec.md's
// instruction that they are resolved only at conversion boundaries.
func Simplify(db *unitdb.Database, terms []Term) (Simplified, error) {
	type bucket struct {
		dimension string
		rep       *unitdb.Unit
		exponent  int
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0, len(terms))
	scale := 1.0

	for _, t := range terms {
		b, ok := buckets[t.Unit.Dimension]
		if !ok {
			b = &bucket{dimension: t.Unit.Dimension, rep: t.Unit, exponent: 0}
			buckets[t.Unit.Dimension] = b
			order = append(order, t.Unit.Dimension)
		}
		switch t.Unit.Conversion.Type {
		case unitdb.Affine:
			return Simplified{}, fmt.Errorf("dimension: affine unit %q cannot be used as a multiplicative factor", t.Unit.ID)
		case unitdb.Linear:
			// Factors count units per base unit, so rep/t re-expresses one t in the
			// representative unit (1 for the representative itself).
			if b.rep.Conversion.Type == unitdb.Linear {
				scale *= pow(b.rep.Conversion.Factor/t.Unit.Conversion.Factor, t.Exponent)
			}
		case unitdb.Variant:
			// no factor contributed here; resolved at a conversion boundary (convert package).
		}
		b.exponent += t.Exponent
	}

	out := make([]Term, 0, len(order))
	for _, dim := range order {
		b := buckets[dim]
		if b.exponent == 0 {
			continue
		}
		out = append(out, Term{Unit: b.rep, Exponent: b.exponent})
	}
	return Simplified{Scale: scale, Terms: out}, nil
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
