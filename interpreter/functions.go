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
	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/result"
	"github.com/inkcalc/calc/types"
)

// evalFunctionCall dispatches a builtin by name (spec.md §4.10's function table). Every
// argument is evaluated eagerly and left-to-right, first-error-wins, before the builtin
// itself runs, matching the rest of the evaluator's error-propagation convention.
func evalFunctionCall(n model.FunctionCall, ctx *EvaluationContext) result.Value {
	args := make([]result.Value, len(n.Args))
	for i, a := range n.Args {
		v := Evaluate(a, ctx)
		if v.IsError() {
			return v
		}
		args[i] = v
	}
	fn, ok := builtins[n.Name]
	if !ok {
		return result.Err(types.ErrUnknownFunction, "%q is not a known function", n.Name)
	}
	return fn(ctx, args)
}

type builtinFunc func(ctx *EvaluationContext, args []result.Value) result.Value

var builtins = map[string]builtinFunc{
	"sin":   trig(math.Sin),
	"cos":   trig(math.Cos),
	"tan":   trig(math.Tan),
	"asin":  inverseTrig(math.Asin),
	"acos":  inverseTrig(math.Acos),
	"atan":  inverseTrig(math.Atan),
	"abs":   unaryUnitPreserving(math.Abs),
	"floor": unaryUnitPreserving(math.Floor),
	"ceil":  unaryUnitPreserving(math.Ceil),
	"trunc": unaryUnitPreserving(math.Trunc),
	"frac":  unaryUnitPreserving(func(x float64) float64 { return x - math.Trunc(x) }),
	"sqrt":  plainUnary(math.Sqrt),
	"ln":    plainUnary(math.Log),
	"log":   plainUnary(math.Log10),
	"exp":   plainUnary(math.Exp),
	"round": roundFn,
	"min":   minMax(false),
	"max":   minMax(true),
}

func requireDimensionless(v result.Value) (float64, bool) {
	if v.Kind != types.KindNumber || v.Unit != nil {
		return 0, false
	}
	return v.Number, true
}

// angleToRadians converts a trig argument to radians: a unit-bearing angle argument
// (e.g. "90 deg") converts explicitly; a bare dimensionless number is interpreted under
// ctx.Settings.AngleUnit (spec.md §4.10 "trig functions are angle-unit aware").
func angleToRadians(ctx *EvaluationContext, v result.Value) (float64, bool) {
	if v.Kind != types.KindNumber {
		return 0, false
	}
	if v.Unit == nil {
		if ctx.Settings.AngleUnit == types.AngleRadian {
			return v.Number, true
		}
		return v.Number * math.Pi / 180, true
	}
	if v.Unit.Dimension != "cycle" {
		return 0, false
	}
	radianUnit, err := resolveUnit("radian", ctx)
	if err != nil {
		return 0, false
	}
	rad, err := convert.Simple(v.Unit, radianUnit, v.Number, ctx.Settings.Variant)
	if err != nil {
		return 0, false
	}
	return rad, true
}

func trig(fn func(float64) float64) builtinFunc {
	return func(ctx *EvaluationContext, args []result.Value) result.Value {
		if len(args) != 1 {
			return result.Err(types.ErrDomain, "expected 1 argument")
		}
		rad, ok := angleToRadians(ctx, args[0])
		if !ok {
			return result.Err(types.ErrDomain, "expected an angle")
		}
		return result.Num(fn(rad))
	}
}

// inverseTrig tags its result with the current angle unit, per spec.md §4.10: the
// result is expressed in, and carries, the radian unit when ctx.Settings.AngleUnit is
// radian and the degree unit otherwise, mirroring how a bare trig argument is interpreted.
func inverseTrig(fn func(float64) float64) builtinFunc {
	return func(ctx *EvaluationContext, args []result.Value) result.Value {
		if len(args) != 1 {
			return result.Err(types.ErrDomain, "expected 1 argument")
		}
		x, ok := requireDimensionless(args[0])
		if !ok {
			return result.Err(types.ErrDomain, "expected a dimensionless number")
		}
		rad := fn(x)
		unitName, value := "degree", rad*180/math.Pi
		if ctx.Settings.AngleUnit == types.AngleRadian {
			unitName, value = "radian", rad
		}
		u, err := resolveUnit(unitName, ctx)
		if err != nil {
			return errVal(types.ErrInternal, err)
		}
		return result.NumWithUnit(value, u)
	}
}

// unaryUnitPreserving implements spec.md §4.10's "abs/round/floor/ceil/trunc/frac
// propagate the first argument's unit" rule: the unit is carried through unchanged
// since these functions only ever act on the magnitude.
func unaryUnitPreserving(fn func(float64) float64) builtinFunc {
	return func(ctx *EvaluationContext, args []result.Value) result.Value {
		if len(args) != 1 || args[0].Kind != types.KindNumber {
			return result.Err(types.ErrDomain, "expected 1 numeric argument")
		}
		v := args[0]
		v.Number = fn(v.Number)
		return v
	}
}

func plainUnary(fn func(float64) float64) builtinFunc {
	return func(ctx *EvaluationContext, args []result.Value) result.Value {
		if len(args) != 1 {
			return result.Err(types.ErrDomain, "expected 1 argument")
		}
		x, ok := requireDimensionless(args[0])
		if !ok {
			return result.Err(types.ErrDomain, "expected a dimensionless number")
		}
		return result.Num(fn(x))
	}
}

// roundFn implements the one- and two-argument forms of round: round(x) rounds to the
// nearest integer in x's own unit; round(x, nearest) rounds x to the nearest multiple of
// `nearest`, converting `nearest` into x's unit first when both carry units (spec.md
// §4.10 "round(x, nearest)").
func roundFn(ctx *EvaluationContext, args []result.Value) result.Value {
	switch len(args) {
	case 1:
		if args[0].Kind != types.KindNumber {
			return result.Err(types.ErrDomain, "expected 1 numeric argument")
		}
		v := args[0]
		v.Number = math.Round(v.Number)
		return v
	case 2:
		x, nearest := args[0], args[1]
		if x.Kind != types.KindNumber || nearest.Kind != types.KindNumber {
			return result.Err(types.ErrDomain, "round(x, nearest) requires numeric arguments")
		}
		step := nearest.Number
		if x.Unit != nil && nearest.Unit != nil {
			converted, err := convertInto(ctx, nearest.Number, nearest.Terms(), x.Terms())
			if err != nil {
				return errVal(types.ErrConversion, err)
			}
			step = converted
		}
		if step == 0 {
			return result.Err(types.ErrDivisionByZero, "round(x, nearest): nearest must be non-zero")
		}
		v := x
		v.Number = math.Round(x.Number/step) * step
		return v
	default:
		return result.Err(types.ErrDomain, "round expects 1 or 2 arguments")
	}
}

func minMax(wantMax bool) builtinFunc {
	return func(ctx *EvaluationContext, args []result.Value) result.Value {
		if len(args) == 0 {
			return result.Err(types.ErrDomain, "expected at least 1 argument")
		}
		best := args[0]
		if best.Kind != types.KindNumber {
			return result.Err(types.ErrDomain, "min/max require numeric arguments")
		}
		for _, a := range args[1:] {
			if a.Kind != types.KindNumber {
				return result.Err(types.ErrDomain, "min/max require numeric arguments")
			}
			rInLeft, err := convertInto(ctx, a.Number, a.Terms(), best.Terms())
			if err != nil {
				return errVal(types.ErrConversion, err)
			}
			if (wantMax && rInLeft > best.Number) || (!wantMax && rInLeft < best.Number) {
				best = a
				best.Number = rInLeft
			}
		}
		return best
	}
}
