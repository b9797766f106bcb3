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
	"math"

	"github.com/inkcalc/calc/convert"
	"github.com/inkcalc/calc/dimension"
	"github.com/inkcalc/calc/internal/overload"
	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/result"
	"github.com/inkcalc/calc/types"
)

// arithmeticOverloads lists the operand shapes "+"/"-"/"*"/"/" accept before either
// operator looks at dimensions or unit compatibility (spec.md §4.10). Date/time and
// duration shapes are matched here too even though their actual arithmetic lives in
// datetime.go, so a shape mismatch (e.g. adding a boolean to a date) is reported as one
// overload failure rather than falling through to a generic domain error.
var arithmeticOverloads = []overload.Overload{
	{Name: "+/-", Left: overload.ShapeDimensionless, Right: overload.ShapeDimensionless},
	{Name: "+/-", Left: overload.ShapeUnitBearing, Right: overload.ShapeUnitBearing},
	{Name: "+/-", Left: overload.ShapeDateTime, Right: overload.ShapeDuration},
	{Name: "+/-", Left: overload.ShapeDuration, Right: overload.ShapeDateTime},
	{Name: "+/-", Left: overload.ShapeDuration, Right: overload.ShapeDuration},
	{Name: "+/-", Left: overload.ShapeDateTime, Right: overload.ShapeDateTime},
	{Name: "*/÷", Left: overload.ShapeDimensionless, Right: overload.ShapeDimensionless},
	{Name: "*/÷", Left: overload.ShapeDimensionless, Right: overload.ShapeUnitBearing},
	{Name: "*/÷", Left: overload.ShapeUnitBearing, Right: overload.ShapeDimensionless},
	{Name: "*/÷", Left: overload.ShapeUnitBearing, Right: overload.ShapeUnitBearing},
}

func evalUnary(n model.Unary, ctx *EvaluationContext) result.Value {
	v := Evaluate(n.Operand, ctx)
	if v.IsError() {
		return v
	}
	switch n.Op {
	case model.OpNeg:
		return negate(v)
	case model.OpNot:
		if v.Kind != types.KindBoolean {
			return result.Err(types.ErrDomain, "! requires a boolean operand")
		}
		return result.Bool(!v.Boolean)
	case model.OpBitNot:
		i, ok := asDimensionlessInt(v)
		if !ok {
			return result.Err(types.ErrDomain, "~ requires a dimensionless integer")
		}
		return result.Num(float64(^i))
	default:
		return result.Err(types.ErrInternal, "unknown unary operator %q", n.Op)
	}
}

func negate(v result.Value) result.Value {
	cp := v
	cp.Number = -cp.Number
	switch v.Kind {
	case types.KindDuration:
		return result.Value{Kind: types.KindDuration, Duration: v.Duration.Negate()}
	case types.KindNumber, types.KindDerivedUnit:
		return cp
	default:
		return result.Err(types.ErrDomain, "unary - requires a number or duration")
	}
}

func evalFactorial(n model.Factorial, ctx *EvaluationContext) result.Value {
	v := Evaluate(n.Operand, ctx)
	if v.IsError() {
		return v
	}
	i, ok := asDimensionlessInt(v)
	if !ok || i < 0 {
		return result.Err(types.ErrDomain, "factorial requires a non-negative dimensionless integer")
	}
	acc := 1.0
	for k := 2; k <= i; k++ {
		acc *= float64(k)
	}
	return result.Num(acc)
}

func asDimensionlessInt(v result.Value) (int, bool) {
	if v.Kind != types.KindNumber || v.Unit != nil {
		return 0, false
	}
	if v.Number != math.Trunc(v.Number) {
		return 0, false
	}
	return int(v.Number), true
}

// evalBinary dispatches spec.md §4.10's arithmetic/comparison/logical rules. Errors on
// either side short-circuit, except for && / || which implement conditional
// short-circuiting over the *left* operand only, per ordinary logical-operator
// semantics (the right side is simply never evaluated when it can't affect the result).
func evalBinary(n model.Binary, ctx *EvaluationContext) result.Value {
	switch n.Op {
	case model.OpAnd:
		l := Evaluate(n.Left, ctx)
		if l.IsError() {
			return l
		}
		if l.Kind != types.KindBoolean {
			return result.Err(types.ErrDomain, "&& requires boolean operands")
		}
		if !l.Boolean {
			return result.Bool(false)
		}
		r := Evaluate(n.Right, ctx)
		if r.IsError() {
			return r
		}
		if r.Kind != types.KindBoolean {
			return result.Err(types.ErrDomain, "&& requires boolean operands")
		}
		return result.Bool(r.Boolean)
	case model.OpOr:
		l := Evaluate(n.Left, ctx)
		if l.IsError() {
			return l
		}
		if l.Kind != types.KindBoolean {
			return result.Err(types.ErrDomain, "|| requires boolean operands")
		}
		if l.Boolean {
			return result.Bool(true)
		}
		r := Evaluate(n.Right, ctx)
		if r.IsError() {
			return r
		}
		if r.Kind != types.KindBoolean {
			return result.Err(types.ErrDomain, "|| requires boolean operands")
		}
		return result.Bool(r.Boolean)
	}

	l := Evaluate(n.Left, ctx)
	if l.IsError() {
		return l
	}
	r := Evaluate(n.Right, ctx)
	if r.IsError() {
		return r
	}

	switch n.Op {
	case model.OpAdd:
		return addSub(ctx, l, r, false)
	case model.OpSub:
		return addSub(ctx, l, r, true)
	case model.OpMul:
		return mulDiv(ctx, l, r, false)
	case model.OpDiv:
		return mulDiv(ctx, l, r, true)
	case model.OpPer:
		// Both the division and unit-former readings reduce to the same arithmetic:
		// PerIsUnitFormer only changes how the selector scores the candidate against its
		// sibling (spec.md §4.9), not how it evaluates.
		return mulDiv(ctx, l, r, true)
	case model.OpMod, model.OpModKw:
		return modulo(l, r)
	case model.OpPow:
		return power(ctx, l, r)
	case model.OpBitAnd, model.OpBitOr, model.OpBitXor, model.OpShl, model.OpShr:
		return bitwise(n.Op, l, r)
	case model.OpLt, model.OpLe, model.OpGt, model.OpGe:
		return compareOrdered(ctx, n.Op, l, r)
	case model.OpEq, model.OpNe:
		return compareEquality(n.Op, l, r)
	default:
		return result.Err(types.ErrInternal, "unknown binary operator %q", n.Op)
	}
}

func addSub(ctx *EvaluationContext, l, r result.Value, sub bool) result.Value {
	lshape := overload.ShapeOf(l.Kind, l.Unit != nil || len(l.Terms()) > 0)
	rshape := overload.ShapeOf(r.Kind, r.Unit != nil || len(r.Terms()) > 0)
	if _, err := overload.Match(arithmeticOverloads, "+/-", lshape, rshape); err != nil {
		return errVal(types.ErrDomain, err)
	}

	if isDateTimeLike(l) || isDateTimeLike(r) || l.Kind == types.KindDuration || r.Kind == types.KindDuration {
		return dateTimeArithmetic(ctx, l, r, sub)
	}
	lt, rt := l.Terms(), r.Terms()
	if len(lt) == 0 && len(rt) == 0 {
		if sub {
			return result.Num(l.Number - r.Number)
		}
		return result.Num(l.Number + r.Number)
	}
	ok, err := dimension.Compatible(ctx.DB, lt, rt)
	if err != nil {
		return errVal(types.ErrDimension, err)
	}
	if !ok {
		return result.Err(types.ErrDimension, "+/- require identical dimensions")
	}
	rInLeft, err := convertInto(ctx, r.Number, rt, lt)
	if err != nil {
		return errVal(types.ErrConversion, err)
	}
	out := l
	if sub {
		out.Number = l.Number - rInLeft
	} else {
		out.Number = l.Number + rInLeft
	}
	return out
}

// convertInto converts magnitude x carrying sourceTerms into the unit system of
// targetTerms, handling the simple (single-term, exponent-1) case directly and
// delegating multi-term expressions to convert.Derived.
func convertInto(ctx *EvaluationContext, x float64, sourceTerms, targetTerms []dimension.Term) (float64, error) {
	if len(sourceTerms) == 1 && sourceTerms[0].Exponent == 1 && len(targetTerms) == 1 && targetTerms[0].Exponent == 1 {
		return convert.Simple(sourceTerms[0].Unit, targetTerms[0].Unit, x, ctx.Settings.Variant)
	}
	return convert.Derived(ctx.DB, x, sourceTerms, targetTerms, ctx.Settings.Variant)
}

func mulDiv(ctx *EvaluationContext, l, r result.Value, div bool) result.Value {
	lshape := overload.ShapeOf(l.Kind, l.Unit != nil || len(l.Terms()) > 0)
	rshape := overload.ShapeOf(r.Kind, r.Unit != nil || len(r.Terms()) > 0)
	if _, err := overload.Match(arithmeticOverloads, "*/÷", lshape, rshape); err != nil {
		return errVal(types.ErrDomain, err)
	}
	if div && r.Number == 0 {
		return result.Err(types.ErrDivisionByZero, "division by zero")
	}
	lt, rt := l.Terms(), r.Terms()
	var combinedRight []dimension.Term
	if div {
		for _, t := range rt {
			combinedRight = append(combinedRight, dimension.Term{Unit: t.Unit, Exponent: -t.Exponent})
		}
	} else {
		combinedRight = rt
	}
	terms := dimension.Combine(lt, combinedRight)
	scale := l.Number
	if div {
		scale /= r.Number
	} else {
		scale *= r.Number
	}
	if len(terms) == 0 {
		return result.Num(scale)
	}
	simp, err := dimension.Simplify(ctx.DB, terms)
	if err != nil {
		return errVal(types.ErrDimension, err)
	}
	return result.Collapse(scale*simp.Scale, simp.Terms)
}

func modulo(l, r result.Value) result.Value {
	if l.Unit != nil || r.Unit != nil || l.Kind != types.KindNumber || r.Kind != types.KindNumber {
		return result.Err(types.ErrDomain, "mod requires dimensionless numbers")
	}
	if r.Number == 0 {
		return result.Err(types.ErrModuloByZero, "modulo by zero")
	}
	return result.Num(math.Mod(l.Number, r.Number))
}

func power(ctx *EvaluationContext, l, r result.Value) result.Value {
	if r.Kind != types.KindNumber || r.Unit != nil {
		return result.Err(types.ErrDomain, "^ requires a dimensionless right operand")
	}
	if l.Terms() != nil {
		if r.Number != math.Trunc(r.Number) {
			return result.Err(types.ErrDomain, "^ on a unit-bearing value requires an integer exponent")
		}
		terms, err := dimension.Exponentiate(l.Terms(), int(r.Number))
		if err != nil {
			return errVal(types.ErrDimension, err)
		}
		simp, err := dimension.Simplify(ctx.DB, terms)
		if err != nil {
			return errVal(types.ErrDimension, err)
		}
		return result.Collapse(math.Pow(l.Number, r.Number)*simp.Scale, simp.Terms)
	}
	return result.Num(math.Pow(l.Number, r.Number))
}

func bitwise(op model.BinaryOp, l, r result.Value) result.Value {
	li, lok := asDimensionlessInt(truncateToInt(l))
	ri, rok := asDimensionlessInt(truncateToInt(r))
	if !lok || !rok {
		return result.Err(types.ErrDomain, "bitwise operators require dimensionless integers (truncating)")
	}
	switch op {
	case model.OpBitAnd:
		return result.Num(float64(li & ri))
	case model.OpBitOr:
		return result.Num(float64(li | ri))
	case model.OpBitXor:
		return result.Num(float64(li ^ ri))
	case model.OpShl:
		return result.Num(float64(li << uint(ri)))
	case model.OpShr:
		return result.Num(float64(li >> uint(ri)))
	default:
		return result.Err(types.ErrInternal, "unknown bitwise operator %q", op)
	}
}

// truncateToInt allows bitwise operators to silently truncate a fractional dimensionless
// number, per spec.md §4.10 "bitwise operators require dimensionless integers
// (truncating)".
func truncateToInt(v result.Value) result.Value {
	if v.Kind == types.KindNumber && v.Unit == nil {
		v.Number = math.Trunc(v.Number)
	}
	return v
}

func compareOrdered(ctx *EvaluationContext, op model.BinaryOp, l, r result.Value) result.Value {
	if isDateTimeLike(l) && isDateTimeLike(r) {
		return compareDateTimes(op, l, r)
	}
	lt, rt := l.Terms(), r.Terms()
	ok, err := dimension.Compatible(ctx.DB, lt, rt)
	if err != nil {
		return errVal(types.ErrDimension, err)
	}
	if !ok {
		return result.Err(types.ErrDimension, "comparison requires identical dimensions")
	}
	rInLeft, err := convertInto(ctx, r.Number, rt, lt)
	if err != nil {
		return errVal(types.ErrConversion, err)
	}
	return result.Bool(orderedCompare(op, l.Number, rInLeft))
}

func orderedCompare(op model.BinaryOp, a, b float64) bool {
	switch op {
	case model.OpLt:
		return a < b
	case model.OpLe:
		return a <= b
	case model.OpGt:
		return a > b
	case model.OpGe:
		return a >= b
	default:
		return false
	}
}

func compareEquality(op model.BinaryOp, l, r result.Value) result.Value {
	eq := valuesEqual(l, r)
	if op == model.OpNe {
		eq = !eq
	}
	return result.Bool(eq)
}

func valuesEqual(l, r result.Value) bool {
	if l.Kind != r.Kind {
		return false
	}
	switch l.Kind {
	case types.KindBoolean:
		return l.Boolean == r.Boolean
	case types.KindNumber:
		sameUnit := (l.Unit == nil) == (r.Unit == nil)
		if l.Unit != nil && r.Unit != nil {
			sameUnit = l.Unit.ID == r.Unit.ID
		}
		return sameUnit && l.Number == r.Number
	case types.KindPlainDate:
		return l.PlainDate.Compare(r.PlainDate) == 0
	case types.KindPlainTime, types.KindPlainDateTime, types.KindInstant, types.KindZonedDateTime:
		v := compareDateTimes(model.OpLe, l, r)
		w := compareDateTimes(model.OpGe, l, r)
		return !v.IsError() && v.Boolean && w.Boolean
	default:
		return false
	}
}
