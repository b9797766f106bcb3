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
	"strconv"

	"github.com/inkcalc/calc/calendar"
	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/result"
	"github.com/inkcalc/calc/types"
)

// TryEvaluateLine performs spec.md §4.10's non-committing evaluation: if root is (or
// wraps, at the top) an Assignment, the right-hand side is evaluated but never written
// into ctx; the caller decides, after evaluate-then-pick, whether to CommitAssignment.
func TryEvaluateLine(root model.IExpression, ctx *EvaluationContext) LineOutcome {
	if a, ok := root.(model.Assignment); ok {
		v := Evaluate(a.Value, ctx)
		return LineOutcome{Value: v, WouldAssign: true, AssignName: a.Name}
	}
	return LineOutcome{Value: Evaluate(root, ctx)}
}

// Evaluate recursively evaluates an expression node against ctx (spec.md §4.10).
// Errors are first-class result.Value instances (Kind == KindError) rather than Go
// errors, so they propagate through the same dispatch as any other value
// (spec.md §4.10 "Function failures ... poison the containing expression").
func Evaluate(node model.IExpression, ctx *EvaluationContext) result.Value {
	switch n := node.(type) {
	case model.NumberLiteral:
		return evalNumberLiteral(n, ctx)
	case model.CompositeLiteral:
		return evalCompositeLiteral(n, ctx)
	case model.DateLiteral:
		return evalDateLiteral(n, ctx)
	case model.DurationLiteral:
		return evalDurationLiteral(n)
	case model.BooleanLiteral:
		return result.Bool(n.Value)
	case model.Constant:
		return evalConstant(n)
	case model.Identifier:
		return evalIdentifier(n, ctx)
	case model.Grouped:
		return Evaluate(n.Inner, ctx)
	case model.Unary:
		return evalUnary(n, ctx)
	case model.Factorial:
		return evalFactorial(n, ctx)
	case model.Binary:
		return evalBinary(n, ctx)
	case model.FunctionCall:
		return evalFunctionCall(n, ctx)
	case model.Conversion:
		return evalConversion(n, ctx)
	case model.Conditional:
		return evalConditional(n, ctx)
	case model.RelativeInstant:
		return evalRelativeInstant(n, ctx)
	case model.Assignment:
		// Only reachable when a nested Assignment candidate slips through (the grammar
		// places it only at the outermost position); evaluate the RHS as a plain
		// expression, discarding the assignment intent, rather than erroring.
		return Evaluate(n.Value, ctx)
	default:
		return result.Err(types.ErrInternal, "interpreter: unhandled node type %T", node)
	}
}

func evalNumberLiteral(n model.NumberLiteral, ctx *EvaluationContext) result.Value {
	if n.Unit == nil {
		return result.Num(n.Value)
	}
	// A simple unit (one term, exponent 1) attaches directly with no rescaling: only a
	// derived-unit literal combining several terms needs dimension.Simplify to fold
	// same-dimension contributors into one representative scale (spec.md §4.2).
	if len(n.Unit.Terms) == 1 && n.Unit.Terms[0].Exponent == 1 {
		u, err := resolveUnit(n.Unit.Terms[0].UnitName, ctx)
		if err != nil {
			return errVal(types.ErrConversion, err)
		}
		return dimensionlessCollapse(n.Value, u)
	}
	terms, err := resolveUnitExpr(n.Unit, ctx)
	if err != nil {
		return errVal(types.ErrConversion, err)
	}
	simp, err := simplifyTerms(ctx, terms)
	if err != nil {
		return errVal(types.ErrDimension, err)
	}
	return result.Collapse(n.Value*simp.Scale, simp.Terms)
}

func evalConstant(n model.Constant) result.Value {
	switch n.Name {
	case model.ConstPi:
		return result.Num(3.14159265358979323846)
	case model.ConstE:
		return result.Num(2.71828182845904523536)
	default:
		return result.Err(types.ErrInternal, "unknown constant %q", n.Name)
	}
}

func evalIdentifier(n model.Identifier, ctx *EvaluationContext) result.Value {
	if n.Name == "prev" || n.Name == "ans" {
		return ctx.Prev
	}
	if v, ok := ctx.Variables[n.Name]; ok {
		return v
	}
	// A bare identifier matching a unit name evaluates to 1 of that unit
	// (spec.md §4.7 "unit vs identifier"; resolved here once pruning has let it through).
	if u, ok := ctx.DB.UnitByName(n.Name); ok {
		return result.NumWithUnit(1, u)
	}
	if ctx.Currency != nil {
		if u, err := ctx.Currency.ResolveByCode(n.Name); err == nil {
			return result.NumWithUnit(1, u)
		}
		if u, err := ctx.Currency.ResolveByName(n.Name); err == nil {
			return result.NumWithUnit(1, u)
		}
	}
	return result.Err(types.ErrUnknownIdentifier, "%q is not defined", n.Name)
}

func evalDurationLiteral(n model.DurationLiteral) result.Value {
	sign := 1
	if n.Negative {
		sign = -1
	}
	return result.Value{Kind: types.KindDuration, Duration: calendar.Duration{
		Years: sign * n.Years, Months: sign * n.Months, Weeks: sign * n.Weeks, Days: sign * n.Days,
		Hours: sign * n.Hours, Minutes: sign * n.Minutes, Seconds: sign * n.Seconds, Milliseconds: sign * n.Milliseconds,
	}}
}

func evalConditional(n model.Conditional, ctx *EvaluationContext) result.Value {
	cond := Evaluate(n.Cond, ctx)
	if cond.IsError() {
		return cond
	}
	if cond.Kind != types.KindBoolean {
		return result.Err(types.ErrDomain, "condition must be boolean")
	}
	if cond.Boolean {
		return Evaluate(n.Then, ctx)
	}
	return Evaluate(n.Else, ctx)
}

func evalRelativeInstant(n model.RelativeInstant, ctx *EvaluationContext) result.Value {
	count := Evaluate(n.N, ctx)
	if count.IsError() {
		return count
	}
	if count.Kind != types.KindNumber || count.Unit != nil {
		return result.Err(types.ErrDomain, "relative instant count must be a dimensionless number")
	}
	sign := 1
	if !n.Future {
		sign = -1
	}
	inst, err := calendar.RelativeInstant(ctx.Clock, int(count.Number), n.Unit, sign)
	if err != nil {
		return errVal(types.ErrCalendar, err)
	}
	return result.Value{Kind: types.KindInstant, Instant: inst}
}

func errVal(kind types.ErrorKind, err error) result.Value {
	return result.Err(kind, "%s", err.Error())
}

// parseIntStrict parses a base-10 integer used by presentation/number-property parsing
// that never needs to accept exponents.
func parseIntStrict(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	return v, err == nil
}
