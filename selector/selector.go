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

// Package selector implements spec.md §4.9's scoring rubric: given a pool of surviving
// candidates (after pruning, and after evaluate-then-pick has demoted error outcomes),
// pick the one the grammar "most plausibly meant". Scoring is structural, not semantic:
// it looks only at the shape of the AST, never at the value it evaluated to.
package selector

import (
	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/unitdb"
)

// score accumulates the rubric's components for one candidate; fields are compared in
// the order spec.md §4.9 lists them, most significant first.
type score struct {
	unitCharsMatched int  // longest-match by character position across unit tokens
	plainTextFallbacks int // fewer is better, so this is negated at compare time
	timezoneAliasHits  int
	compositePreferred int
	perAsDivisorHits   int
	grammarRank        int // tiebreak: earliest-in-candidate-order
}

// less reports whether a scores strictly better than b (a should sort before b).
func (a score) less(b score) bool {
	if a.unitCharsMatched != b.unitCharsMatched {
		return a.unitCharsMatched > b.unitCharsMatched
	}
	if a.plainTextFallbacks != b.plainTextFallbacks {
		return a.plainTextFallbacks < b.plainTextFallbacks
	}
	if a.timezoneAliasHits != b.timezoneAliasHits {
		return a.timezoneAliasHits > b.timezoneAliasHits
	}
	if a.compositePreferred != b.compositePreferred {
		return a.compositePreferred > b.compositePreferred
	}
	if a.perAsDivisorHits != b.perAsDivisorHits {
		return a.perAsDivisorHits > b.perAsDivisorHits
	}
	return a.grammarRank < b.grammarRank
}

// Select picks the best candidate from pool according to spec.md §4.9's rubric, with
// ties broken by earliest grammar rank. Select panics on an empty pool; callers must
// handle the zero-surviving-candidates case themselves (it is a parse/prune failure,
// not a selection question).
func Select(pool []model.Candidate, db *unitdb.Database) model.Candidate {
	best := pool[0]
	bestScore := scoreOf(pool[0], db)
	for _, c := range pool[1:] {
		s := scoreOf(c, db)
		if s.less(bestScore) {
			best, bestScore = c, s
		}
	}
	return best
}

func scoreOf(c model.Candidate, db *unitdb.Database) score {
	sc := score{grammarRank: c.GrammarRank}
	model.Walk(c.Root, func(n model.IExpression) {
		switch v := n.(type) {
		case model.NumberLiteral:
			if v.Unit != nil {
				sc.unitCharsMatched += unitExprChars(v.Unit)
			}
		case model.CompositeLiteral:
			sc.compositePreferred++
			for _, comp := range v.Components {
				sc.unitCharsMatched += len(comp.UnitName)
			}
		case model.PlainText:
			sc.plainTextFallbacks++
		case model.Conversion:
			if v.TargetTZ != "" && db != nil && db.Timezones() != nil {
				if _, ok := db.Timezones().Resolve(v.TargetTZ); ok {
					sc.timezoneAliasHits++
				}
			}
		case model.Binary:
			if v.Op == model.OpPer && !v.PerIsUnitFormer {
				if !isUnitBearing(v.Right) {
					sc.perAsDivisorHits++
				}
			}
		}
	})
	return sc
}

func unitExprChars(u *model.UnitExpression) int {
	n := 0
	for _, t := range u.Terms {
		n += len(t.UnitName)
	}
	return n
}

// isUnitBearing reports whether expr structurally looks like a unit/unit-expression
// reading rather than an arbitrary value expression, used by the `per`-as-divisor
// preference (spec.md §4.9: "when the right operand is a non-unit expression").
func isUnitBearing(expr model.IExpression) bool {
	switch v := expr.(type) {
	case model.Identifier:
		return false // resolved only at evaluation; treated conservatively as non-unit here
	case model.NumberLiteral:
		return v.Unit != nil
	default:
		return false
	}
}
