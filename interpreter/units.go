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
	"fmt"

	"github.com/inkcalc/calc/dimension"
	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/result"
	"github.com/inkcalc/calc/unitdb"
)

// resolveUnit resolves one unit name against the static catalogue, then (if that fails)
// against the live currency resolver (spec.md §4.1 lookup contract, §4.5 "Currency as a
// unit"). Ambiguous currency symbols are resolved by UnitByName directly, since they are
// registered as ordinary static units with a single-member dimension.
func resolveUnit(name string, ctx *EvaluationContext) (*unitdb.Unit, error) {
	if u, ok := ctx.DB.UnitByName(name); ok {
		return u, nil
	}
	if ctx.Currency != nil {
		if u, err := ctx.Currency.ResolveByCode(name); err == nil {
			return u, nil
		}
		if u, err := ctx.Currency.ResolveByName(name); err == nil {
			return u, nil
		}
	}
	return nil, fmt.Errorf("unknown unit %q", name)
}

// resolveUnitExpr resolves every term of a parsed UnitExpression into dimension.Terms.
func resolveUnitExpr(expr *model.UnitExpression, ctx *EvaluationContext) ([]dimension.Term, error) {
	terms := make([]dimension.Term, 0, len(expr.Terms))
	for _, t := range expr.Terms {
		u, err := resolveUnit(t.UnitName, ctx)
		if err != nil {
			return nil, err
		}
		terms = append(terms, dimension.Term{Unit: u, Exponent: t.Exponent})
	}
	return terms, nil
}

// simplifyTerms is dimension.Simplify bound to ctx.DB, to cut down call-site noise.
func simplifyTerms(ctx *EvaluationContext, terms []dimension.Term) (dimension.Simplified, error) {
	return dimension.Simplify(ctx.DB, terms)
}

// dimensionlessCollapse implements spec.md §4.10's rule that a literal written in a unit
// belonging to the dimensionless dimension (e.g. "50%") collapses immediately to a bare
// number, rather than carrying the unit forward the way "50 ft" carries "ft". Affine and
// variant units never appear on the dimensionless dimension in practice, but if one did,
// toBase's own conversion logic is reused rather than re-deriving the factor here.
func dimensionlessCollapse(value float64, u *unitdb.Unit) result.Value {
	if u.Dimension != "dimensionless" {
		return result.NumWithUnit(value, u)
	}
	switch u.Conversion.Type {
	case unitdb.Linear:
		return result.Num(value / u.Conversion.Factor)
	case unitdb.Affine:
		return result.Num((value + u.Conversion.Offset) * u.Conversion.Factor)
	default:
		return result.NumWithUnit(value, u)
	}
}
