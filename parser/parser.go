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

// Package parser turns one preprocessed expression line into the full set of candidate
// ASTs spec.md §4.7 calls for. Rather than resolving ambiguity during parsing (the way an
// ANTLR-generated parser commits to one parse tree per input), every rule below returns
// *all* the ways its input could be read at that level, and ambiguity composes upward:
// a binary expression's candidate set is the cross product of its operands' candidate
// sets. The handful of places spec.md singles out as genuinely ambiguous (`per` as
// divisor vs unit-former, prime/double-prime as feet/arcminutes, bare `e` as Euler's
// number vs a unit, am/pm as a time indicator vs a unit) are exactly where this file
// forks into more than one reading; everywhere else there is exactly one.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/types"
	"github.com/inkcalc/calc/unitdb"
)

// reading is one way of parsing the tokens starting at a given position: the resulting
// node, and the index of the first unconsumed token.
type reading struct {
	node model.IExpression
	next int
}

type state struct {
	toks []Token
	db   *unitdb.Database
	base int // document-absolute offset of token index 0
}

func (s *state) pos(start, end int) model.SourcePosition {
	return model.SourcePosition{Start: s.base + start, End: s.base + end}
}

func (s *state) tok(i int) Token { return s.toks[i] }

func (s *state) isSymbol(i int, text string) bool {
	t := s.toks[i]
	return (t.Kind == TokSymbol) && t.Text == text
}

func (s *state) isKeyword(i int, text string) bool {
	t := s.toks[i]
	return t.Kind == TokKeyword && strings.EqualFold(t.Text, text)
}

// Parse lexes and parses one expression line's content, returning every full-line
// candidate in grammar preference order (spec.md §4.9 "earliest-in-candidate-order").
// base is the document-absolute offset of content[0], used to enrich node positions.
func Parse(content string, db *unitdb.Database, base int) ([]model.Candidate, error) {
	toks, err := Lex(content)
	if err != nil {
		var lerr *LexError
		if e, ok := err.(*LexError); ok {
			lerr = e
		}
		pos := 0
		if lerr != nil {
			pos = lerr.Pos
		}
		return nil, &ParseError{Line: content, Pos: pos, Message: err.Error()}
	}
	s := &state{toks: toks, db: db, base: base}
	readings := s.parseAssignment(0)

	var candidates []model.Candidate
	seen := map[string]bool{}
	for _, r := range readings {
		if s.toks[r.next].Kind != TokEOF {
			continue
		}
		key := fmt.Sprintf("%#v", r.node)
		if seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, model.Candidate{Root: r.node, GrammarRank: len(candidates)})
	}
	if len(candidates) == 0 {
		return nil, &ParseError{Line: content, Pos: base, Message: "no candidate parse admitted the full line"}
	}
	return candidates, nil
}

// --- assignment / conditional / conversion ---------------------------------------------

func (s *state) parseAssignment(i int) []reading {
	if s.toks[i].Kind == TokIdent {
		if s.isSymbol(i+1, "=") {
			rhs := s.parseAssignment(i + 2)
			var out []reading
			for _, r := range rhs {
				out = append(out, reading{
					node: model.Assignment{
						SourcePosition: s.pos(s.toks[i].Start, s.toks[r.next-1].End),
						Name:           s.toks[i].Text,
						Value:          r.node,
					},
					next: r.next,
				})
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return s.parseConditional(i)
}

func (s *state) parseConditional(i int) []reading {
	if s.isKeyword(i, "if") {
		var out []reading
		for _, c := range s.parseConditional(i + 1) {
			if !s.isKeyword(c.next, "then") {
				continue
			}
			for _, th := range s.parseConditional(c.next + 1) {
				if !s.isKeyword(th.next, "else") {
					continue
				}
				for _, el := range s.parseConditional(th.next + 1) {
					out = append(out, reading{
						node: model.Conditional{
							SourcePosition: s.pos(s.toks[i].Start, s.toks[el.next-1].End),
							Cond:           c.node, Then: th.node, Else: el.node,
						},
						next: el.next,
					})
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return s.parseConversion(i)
}

func (s *state) parseConversion(i int) []reading {
	left := s.parseLogicalOr(i)
	var out []reading
	for _, l := range left {
		out = append(out, s.parseConversionTail(l)...)
	}
	return out
}

// parseConversionTail implements left-associative chaining: "a to b in c" groups as
// "(a to b) in c" (spec.md §4.7).
func (s *state) parseConversionTail(l reading) []reading {
	j := l.next
	var op model.ConversionOp
	switch {
	case s.isKeyword(j, "to"):
		op = model.ConvTo
	case s.isKeyword(j, "in"):
		op = model.ConvIn
	case s.isKeyword(j, "as"):
		op = model.ConvAs
	case s.isSymbol(j, "->") || s.isSymbol(j, "→"):
		op = model.ConvTo
	default:
		return []reading{l}
	}
	var out []reading
	for _, target := range s.parseConversionTarget(j + 1) {
		conv := reading{
			node: model.Conversion{
				SourcePosition:     s.pos(s.toks[l.next-1].Start, s.toks[target.next-1].End),
				Op:                 op,
				Source:             l.node,
				TargetUnit:         target.unit,
				TargetUnits:        target.units,
				TargetProperty:     target.property,
				TargetTZ:           target.tz,
				TargetPresentation: target.presentation,
			},
			next: target.next,
		}
		out = append(out, s.parseConversionTail(conv)...)
	}
	return out
}

type conversionTarget struct {
	unit         *model.UnitExpression
	units        []string
	property     string
	tz           string
	presentation *model.PresentationDirective
	next         int
}

var dateProperties = map[string]bool{
	"year": true, "month": true, "day": true, "weekday": true, "dayofyear": true,
	"weekofyear": true, "hour": true, "minute": true, "second": true,
	"millisecond": true, "offset": true,
}

// presentationNames maps a bare presentation keyword to its types.PresFoo tag
// (spec.md §3 "presentation").
var presentationNames = map[string]string{
	"binary": types.PresBinary, "hex": types.PresHex, "hexadecimal": types.PresHex,
	"octal": types.PresOctal, "decimal": types.PresDecimal,
	"fraction": types.PresFraction, "ordinal": types.PresOrdinal,
	"scientific": types.PresScientific, "iso8601": types.PresISO8601,
	"rfc2822": types.PresRFC2822,
}

// parsePresentationDirective recognises a presentation keyword ("hex", "scientific",
// ...), "unix"/"unix ms", "base N", "N decimals", or "N sigfigs" as a conversion target
// (spec.md §3 "presentation", §4.10, §6).
func (s *state) parsePresentationDirective(i int) (*model.PresentationDirective, int, bool) {
	t := s.tok(i)
	if t.Kind == TokIdent {
		lower := strings.ToLower(t.Text)
		if name, ok := presentationNames[lower]; ok {
			return &model.PresentationDirective{Name: name}, i + 1, true
		}
		if lower == "unix" {
			j := i + 1
			if s.toks[j].Kind == TokIdent {
				switch strings.ToLower(s.toks[j].Text) {
				case "ms", "millisecond", "milliseconds":
					return &model.PresentationDirective{Name: types.PresUnixMilli}, j + 1, true
				case "s", "second", "seconds":
					return &model.PresentationDirective{Name: types.PresUnixSec}, j + 1, true
				}
			}
			return &model.PresentationDirective{Name: types.PresUnixSec}, j, true
		}
		if lower == "base" && s.toks[i+1].Kind == TokNumber {
			if n, err := strconv.Atoi(s.toks[i+1].Text); err == nil {
				return &model.PresentationDirective{Base: n}, i + 2, true
			}
		}
	}
	if t.Kind == TokNumber && s.toks[i+1].Kind == TokIdent {
		if n, err := strconv.Atoi(t.Text); err == nil {
			switch strings.ToLower(s.toks[i+1].Text) {
			case "decimal", "decimals":
				return &model.PresentationDirective{Decimals: n}, i + 2, true
			case "sigfig", "sigfigs":
				return &model.PresentationDirective{Sigfigs: n}, i + 2, true
			}
		}
	}
	return nil, i, false
}

// parseCompositeTargetUnits greedily parses a run of bare single-term unit names (e.g.
// "ft in") for composite-distribution conversions (spec.md §4.3 "Composite
// distribution"); juxtaposed unit names normally form one derived unit (multiplication),
// but a conversion target reads the same shape as "distribute across these units in
// order" instead, so this is offered as a second, competing reading alongside the
// derived-unit one and trial evaluation picks whichever doesn't error.
func (s *state) parseCompositeTargetUnits(i int) ([]string, int) {
	var names []string
	j := i
	for {
		term, ok, next := s.parseUnitTerm(j)
		if !ok || term.Exponent != 1 {
			break
		}
		names = append(names, term.UnitName)
		j = next
	}
	if len(names) < 2 {
		return nil, i
	}
	return names, j
}

// parseConversionTarget recognises a timezone string, a date-property name, a
// presentation directive, a composite unit list, or a unit expression as the right side
// of a conversion (spec.md §4.10 "Conversions").
func (s *state) parseConversionTarget(i int) []conversionTarget {
	t := s.tok(i)
	if t.Kind == TokString {
		return []conversionTarget{{tz: strings.Trim(t.Text, `"`), next: i + 1}}
	}
	if dir, next, ok := s.parsePresentationDirective(i); ok {
		return []conversionTarget{{presentation: dir, next: next}}
	}
	if t.Kind == TokIdent {
		lower := strings.ToLower(t.Text)
		if dateProperties[lower] {
			return []conversionTarget{{property: lower, next: i + 1}}
		}
	}
	var out []conversionTarget
	if names, next := s.parseCompositeTargetUnits(i); names != nil {
		out = append(out, conversionTarget{units: names, next: next})
	}
	for _, u := range s.parseUnitExpr(i) {
		out = append(out, conversionTarget{unit: u.expr, next: u.next})
	}
	return out
}

// --- binary operator tiers ---------------------------------------------------------

type binOpInfo struct {
	op   model.BinaryOp
	next int
}

func combineBinary(left []reading, matchOp func(i int) (model.BinaryOp, int, bool), rhs func(i int) []reading) []reading {
	var out []reading
	for _, l := range left {
		op, after, ok := matchOp(l.next)
		if !ok {
			out = append(out, l)
			continue
		}
		for _, r := range rhs(after) {
			out = append(out, reading{
				node: model.Binary{
					Op: op, Left: l.node, Right: r.node,
				},
				next: r.next,
			})
		}
		out = append(out, l) // also keep the no-operator reading so outer tiers can stop here
	}
	return out
}

func (s *state) parseLogicalOr(i int) []reading {
	left := s.parseLogicalAnd(i)
	return s.chainLeft(left, s.parseLogicalAnd, func(j int) (model.BinaryOp, int, bool) {
		if s.isSymbol(j, "||") || s.isKeyword(j, "or") {
			return model.OpOr, j + 1, true
		}
		return "", 0, false
	})
}

func (s *state) parseLogicalAnd(i int) []reading {
	left := s.parseBitOr(i)
	return s.chainLeft(left, s.parseBitOr, func(j int) (model.BinaryOp, int, bool) {
		if s.isSymbol(j, "&&") || s.isKeyword(j, "and") {
			return model.OpAnd, j + 1, true
		}
		return "", 0, false
	})
}

func (s *state) parseBitOr(i int) []reading {
	left := s.parseBitXor(i)
	return s.chainLeft(left, s.parseBitXor, func(j int) (model.BinaryOp, int, bool) {
		if s.isSymbol(j, "|") {
			return model.OpBitOr, j + 1, true
		}
		return "", 0, false
	})
}

func (s *state) parseBitXor(i int) []reading {
	left := s.parseBitAnd(i)
	return s.chainLeft(left, s.parseBitAnd, func(j int) (model.BinaryOp, int, bool) {
		if s.isKeyword(j, "xor") {
			return model.OpBitXor, j + 1, true
		}
		return "", 0, false
	})
}

func (s *state) parseBitAnd(i int) []reading {
	left := s.parseComparison(i)
	return s.chainLeft(left, s.parseComparison, func(j int) (model.BinaryOp, int, bool) {
		if s.isSymbol(j, "&") {
			return model.OpBitAnd, j + 1, true
		}
		return "", 0, false
	})
}

func (s *state) parseComparison(i int) []reading {
	left := s.parseShift(i)
	return s.chainLeft(left, s.parseShift, func(j int) (model.BinaryOp, int, bool) {
		for _, cand := range []struct {
			sym string
			op  model.BinaryOp
		}{{"<=", model.OpLe}, {">=", model.OpGe}, {"==", model.OpEq}, {"!=", model.OpNe}, {"<", model.OpLt}, {">", model.OpGt}} {
			if s.isSymbol(j, cand.sym) {
				return cand.op, j + 1, true
			}
		}
		return "", 0, false
	})
}

func (s *state) parseShift(i int) []reading {
	left := s.parseAdditive(i)
	return s.chainLeft(left, s.parseAdditive, func(j int) (model.BinaryOp, int, bool) {
		if s.isSymbol(j, "<<") {
			return model.OpShl, j + 1, true
		}
		if s.isSymbol(j, ">>") {
			return model.OpShr, j + 1, true
		}
		return "", 0, false
	})
}

func (s *state) parseAdditive(i int) []reading {
	left := s.parseMultiplicative(i)
	return s.chainLeft(left, s.parseMultiplicative, func(j int) (model.BinaryOp, int, bool) {
		if s.isSymbol(j, "+") {
			return model.OpAdd, j + 1, true
		}
		if s.isSymbol(j, "-") {
			return model.OpSub, j + 1, true
		}
		return "", 0, false
	})
}

// parseMultiplicative is where `per` forks into both its readings: division, and (as a
// second candidate only) a unit-forming reading left for the evaluator/selector to weigh
// against the plain division reading (spec.md §4.7, §4.9).
func (s *state) parseMultiplicative(i int) []reading {
	left := s.parseUnary(i)
	var out []reading
	for _, l := range left {
		j := l.next
		matched := false
		for _, cand := range []struct {
			sym string
			op  model.BinaryOp
		}{{"*", model.OpMul}, {"·", model.OpMul}, {"×", model.OpMul}, {"/", model.OpDiv}, {"÷", model.OpDiv}, {"%", model.OpMod}} {
			if s.isSymbol(j, cand.sym) {
				for _, r := range s.parseUnary(j + 1) {
					chain := s.chainMultiplicativeFrom(reading{node: model.Binary{Op: cand.op, Left: l.node, Right: r.node}, next: r.next})
					out = append(out, chain...)
				}
				matched = true
			}
		}
		if s.isKeyword(j, "mod") {
			for _, r := range s.parseUnary(j + 1) {
				out = append(out, s.chainMultiplicativeFrom(reading{node: model.Binary{Op: model.OpModKw, Left: l.node, Right: r.node}, next: r.next})...)
			}
			matched = true
		}
		if s.isKeyword(j, "per") {
			for _, r := range s.parseUnary(j + 1) {
				// Division reading.
				out = append(out, s.chainMultiplicativeFrom(reading{
					node: model.Binary{Op: model.OpPer, Left: l.node, Right: r.node, PerIsUnitFormer: false},
					next: r.next,
				})...)
				// Unit-former reading: only plausible when both sides are themselves
				// numbers/units, which the selector and pruner weigh against the plain
				// division candidate (spec.md §4.9 "`per`-as-divisor over
				// `per`-as-unit-former when the right operand is a non-unit expression").
				out = append(out, s.chainMultiplicativeFrom(reading{
					node: model.Binary{Op: model.OpPer, Left: l.node, Right: r.node, PerIsUnitFormer: true},
					next: r.next,
				})...)
			}
			matched = true
		}
		// Implicit-multiplication juxtaposition for a bare identifier immediately
		// following a number (unit-vs-identifier ambiguity, spec.md §4.7).
		if !matched && s.toks[j].Kind == TokIdent {
			if u, ok := l.node.(model.NumberLiteral); ok && u.Unit == nil {
				for _, r := range s.parseUnary(j) {
					out = append(out, s.chainMultiplicativeFrom(reading{node: model.Binary{Op: model.OpMul, Left: l.node, Right: r.node}, next: r.next})...)
				}
			}
		}
		out = append(out, l)
	}
	return out
}

func (s *state) chainMultiplicativeFrom(r reading) []reading {
	return s.parseMultiplicativeTail(r)
}

func (s *state) parseMultiplicativeTail(l reading) []reading {
	more := s.parseMultiplicative(l.next)
	// parseMultiplicative always includes the no-op reading for its start position; if
	// nothing beyond l.next attached, this just returns l back out. To avoid
	// re-traversal blowup we only accept readings that actually begin forming a new
	// binary at l.next; simplest correct approach: re-run the combinator directly.
	var out []reading
	for _, m := range more {
		if m.next == l.next {
			continue
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return []reading{l}
	}
	return out
}

// chainLeft folds an operator tier left-associatively over whatever candidate set the
// next tier down produced, always keeping the "stop here" reading as well so that a
// shorter match remains available to an outer, lower-precedence tier.
func (s *state) chainLeft(left []reading, next func(int) []reading, matchOp func(int) (model.BinaryOp, int, bool)) []reading {
	var out []reading
	for _, l := range left {
		op, after, ok := matchOp(l.next)
		if !ok {
			out = append(out, l)
			continue
		}
		for _, r := range next(after) {
			combined := reading{node: model.Binary{Op: op, Left: l.node, Right: r.node}, next: r.next}
			out = append(out, s.rechain(combined, next, matchOp)...)
		}
		out = append(out, l)
	}
	return out
}

func (s *state) rechain(l reading, next func(int) []reading, matchOp func(int) (model.BinaryOp, int, bool)) []reading {
	op, after, ok := matchOp(l.next)
	if !ok {
		return []reading{l}
	}
	var out []reading
	for _, r := range next(after) {
		combined := reading{node: model.Binary{Op: op, Left: l.node, Right: r.node}, next: r.next}
		out = append(out, s.rechain(combined, next, matchOp)...)
	}
	out = append(out, l)
	return out
}

// --- unary / power / factorial / postfix --------------------------------------------

func (s *state) parseUnary(i int) []reading {
	if s.isSymbol(i, "-") {
		var out []reading
		for _, r := range s.parseUnary(i + 1) {
			out = append(out, reading{node: model.Unary{Op: model.OpNeg, Operand: r.node}, next: r.next})
		}
		return out
	}
	if s.isSymbol(i, "!") {
		var out []reading
		for _, r := range s.parseUnary(i + 1) {
			out = append(out, reading{node: model.Unary{Op: model.OpNot, Operand: r.node}, next: r.next})
		}
		return out
	}
	if s.isSymbol(i, "~") {
		var out []reading
		for _, r := range s.parseUnary(i + 1) {
			out = append(out, reading{node: model.Unary{Op: model.OpBitNot, Operand: r.node}, next: r.next})
		}
		return out
	}
	return s.parsePower(i)
}

func (s *state) parsePower(i int) []reading {
	base := s.parsePostfix(i)
	var out []reading
	for _, b := range base {
		if s.isSymbol(b.next, "^") || s.isSymbol(b.next, "**") {
			for _, r := range s.parseUnary(b.next + 1) { // right-associative
				out = append(out, reading{node: model.Binary{Op: model.OpPow, Left: b.node, Right: r.node}, next: r.next})
			}
		}
		out = append(out, b)
	}
	return out
}

func (s *state) parsePostfix(i int) []reading {
	var out []reading
	for _, p := range s.parsePrimaryWithUnit(i) {
		j := p.next
		if s.isSymbol(j, "!") {
			out = append(out, reading{node: model.Factorial{Operand: p.node}, next: j + 1})
		}
		out = append(out, p)
	}
	return out
}

// --- relative instant ("N unit ago|from now") ---------------------------------------

var relativeUnits = map[string]bool{
	"second": true, "seconds": true, "minute": true, "minutes": true, "hour": true,
	"hours": true, "day": true, "days": true, "week": true, "weeks": true,
	"month": true, "months": true, "year": true, "years": true,
}

func (s *state) tryRelativeInstant(i int) []reading {
	num := s.parseNumberLiteral(i)
	var out []reading
	for _, n := range num {
		lit, ok := n.node.(model.NumberLiteral)
		if !ok || lit.Unit != nil {
			continue
		}
		j := n.next
		if s.toks[j].Kind != TokIdent || !relativeUnits[strings.ToLower(s.toks[j].Text)] {
			continue
		}
		unitName := strings.ToLower(s.toks[j].Text)
		j++
		if s.isKeyword(j, "ago") {
			out = append(out, reading{node: model.RelativeInstant{N: lit, Unit: unitName, Future: false}, next: j + 1})
		}
		if s.isKeyword(j, "from") && s.isKeyword(j+1, "now") {
			out = append(out, reading{node: model.RelativeInstant{N: lit, Unit: unitName, Future: true}, next: j + 2})
		}
	}
	return out
}

// --- date / time / zoned-date-time literals -----------------------------------------

// monthNames maps recognised month names/abbreviations to their 1-based number, used by
// tryDate to recognise literals like "1970 Jan 31" (spec.md §4.4, §8).
var monthNames = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// tryDate recognises "YYYY MonthName D" and returns the equivalent ISO date string
// (calendar.ParseDate's layout) plus the index past the literal.
func (s *state) tryDate(i int) (string, int, bool) {
	yearTok := s.tok(i)
	if yearTok.Kind != TokNumber || strings.Contains(yearTok.Text, ".") {
		return "", 0, false
	}
	monthTok := s.tok(i + 1)
	if monthTok.Kind != TokIdent {
		return "", 0, false
	}
	month, ok := monthNames[strings.ToLower(monthTok.Text)]
	if !ok {
		return "", 0, false
	}
	dayTok := s.tok(i + 2)
	if dayTok.Kind != TokNumber || strings.Contains(dayTok.Text, ".") {
		return "", 0, false
	}
	year, err := strconv.Atoi(yearTok.Text)
	if err != nil {
		return "", 0, false
	}
	day, err := strconv.Atoi(dayTok.Text)
	if err != nil {
		return "", 0, false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), i + 3, true
}

// tryTime recognises "H:MM", "H:MM:SS", optionally suffixed with am/pm (spec.md §4.7
// "am/pm is a time indicator only when preceded by an integer 1-12").
func (s *state) tryTime(i int) (string, int, bool) {
	hourTok := s.tok(i)
	if hourTok.Kind != TokNumber || strings.Contains(hourTok.Text, ".") || !s.isSymbol(i+1, ":") {
		return "", 0, false
	}
	minTok := s.tok(i + 2)
	if minTok.Kind != TokNumber {
		return "", 0, false
	}
	hour, err := strconv.Atoi(hourTok.Text)
	if err != nil {
		return "", 0, false
	}
	minute, err := strconv.Atoi(minTok.Text)
	if err != nil {
		return "", 0, false
	}
	j := i + 3
	second := 0
	if s.isSymbol(j, ":") && s.toks[j+1].Kind == TokNumber {
		if sec, err := strconv.Atoi(s.toks[j+1].Text); err == nil {
			second = sec
			j += 2
		}
	}
	if hour >= 1 && hour <= 12 && s.toks[j].Kind == TokIdent {
		switch strings.ToLower(s.toks[j].Text) {
		case "pm":
			if hour != 12 {
				hour += 12
			}
			j++
		case "am":
			if hour == 12 {
				hour = 0
			}
			j++
		}
	}
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second), j, true
}

// tryTimezone recognises a quoted timezone name or a bare recognised timezone alias.
func (s *state) tryTimezone(i int) (string, int, bool) {
	t := s.tok(i)
	if t.Kind == TokString {
		return strings.Trim(t.Text, `"`), i + 1, true
	}
	if t.Kind == TokIdent && s.db != nil && s.db.Timezones() != nil {
		if _, ok := s.db.Timezones().Resolve(t.Text); ok {
			return t.Text, i + 1, true
		}
	}
	return "", 0, false
}

// tryDateTimeLiteral parses a plain date, time, date-time, or zoned-date-time literal
// starting at i (spec.md §4.4 "Calendar/Duration engine").
func (s *state) tryDateTimeLiteral(i int) []reading {
	start := s.toks[i].Start
	j := i
	raw, dateEnd, haveDate := s.tryDate(i)
	if haveDate {
		j = dateEnd
	}
	timeRaw, timeEnd, haveTime := s.tryTime(j)
	if haveTime {
		if haveDate {
			raw += "T" + timeRaw
		} else {
			raw = timeRaw
		}
		j = timeEnd
	}
	if !haveDate && !haveTime {
		return nil
	}
	var out []reading
	if haveDate && haveTime {
		if tz, tzEnd, ok := s.tryTimezone(j); ok {
			out = append(out, reading{
				node: model.DateLiteral{
					SourcePosition: s.pos(start, s.toks[tzEnd-1].End),
					Kind:           model.DateKindZonedDateTime,
					Raw:            raw,
					TZName:         tz,
				},
				next: tzEnd,
			})
		}
	}
	kind := model.DateKindDate
	switch {
	case haveDate && haveTime:
		kind = model.DateKindDateTime
	case haveTime:
		kind = model.DateKindTime
	}
	out = append(out, reading{
		node: model.DateLiteral{SourcePosition: s.pos(start, s.toks[j-1].End), Kind: kind, Raw: raw},
		next: j,
	})
	return out
}

// tryAmPmTime handles the standalone "N am"/"N pm" shape (no colon), the other half of
// the am/pm context-sensitive token alongside tryTime's "H:MM am" handling (spec.md
// §4.7). Outside the 1-12 range, am/pm is left for parseUnitExpr to read as the unit
// attometer/picometer instead, so this only ever adds a competing reading.
func (s *state) tryAmPmTime(i int) []reading {
	var out []reading
	for _, n := range s.parseNumberLiteral(i) {
		lit, ok := n.node.(model.NumberLiteral)
		if !ok || lit.Unit != nil {
			continue
		}
		hour := int(lit.Value)
		if float64(hour) != lit.Value || hour < 1 || hour > 12 {
			continue
		}
		j := n.next
		if s.toks[j].Kind != TokIdent {
			continue
		}
		lower := strings.ToLower(s.toks[j].Text)
		if lower != "am" && lower != "pm" {
			continue
		}
		h := hour % 12
		if lower == "pm" {
			h += 12
		}
		out = append(out, reading{
			node: model.DateLiteral{
				SourcePosition: s.pos(s.toks[i].Start, s.toks[j].End),
				Kind:           model.DateKindTime,
				Raw:            fmt.Sprintf("%02d:00:00", h),
			},
			next: j + 1,
		})
	}
	return out
}

// --- prime/double-prime composite literals ------------------------------------------

// tryPrimeComposite folds "N1' N2\"" (feet/inches) or "N0° N1' N2\"" (degrees,
// arcminutes, arcseconds) into a CompositeLiteral, choosing arcminute/arcsecond over
// foot/inch exactly when a degree unit appeared earlier in the same literal (spec.md
// §4.7 "prime/double-prime").
func (s *state) tryPrimeComposite(i int) []reading {
	start := s.toks[i].Start
	j := i
	var comps []model.CompositeComponent
	degreeContext := false
	for {
		numReadings := s.parseNumberLiteral(j)
		if len(numReadings) == 0 {
			break
		}
		val := numReadings[0].node.(model.NumberLiteral).Value
		k := numReadings[0].next

		if units := s.parseUnitExpr(k); len(units) > 0 {
			if name := soleUnitName(units[0].expr); name == "degree" {
				comps = append(comps, model.CompositeComponent{Value: val, UnitName: "degree"})
				degreeContext = true
				j = units[0].next
				continue
			}
		}
		if s.toks[k].Kind == TokPrime {
			unitName := "foot"
			if degreeContext {
				unitName = "arcminute"
			}
			comps = append(comps, model.CompositeComponent{Value: val, UnitName: unitName})
			j = k + 1
			continue
		}
		if s.toks[k].Kind == TokDoublePrime {
			unitName := "inch"
			if degreeContext {
				unitName = "arcsecond"
			}
			comps = append(comps, model.CompositeComponent{Value: val, UnitName: unitName})
			j = k + 1
			continue
		}
		break
	}
	switch len(comps) {
	case 0:
		return nil
	case 1:
		// A single prime/double-prime component (e.g. "6'" with no following
		// double-prime) isn't a composite; surface it as an ambiguous NumberLiteral
		// and record which context it was read in (spec.md §3 NumberLiteral.Variant).
		c := comps[0]
		var variant string
		switch c.UnitName {
		case "foot":
			variant = "foot-context"
		case "arcminute":
			variant = "arcminute-context"
		default:
			return nil // the lone component was a plain "N°"; the ordinary unit path handles it
		}
		return []reading{{
			node: model.NumberLiteral{
				SourcePosition: s.pos(start, s.toks[j-1].End),
				Value:          c.Value,
				Unit:           &model.UnitExpression{Terms: []model.UnitTerm{{UnitName: c.UnitName, Exponent: 1}}},
				Variant:        variant,
			},
			next: j,
		}}
	default:
		return []reading{{
			node: model.CompositeLiteral{SourcePosition: s.pos(start, s.toks[j-1].End), Components: comps},
			next: j,
		}}
	}
}

// --- primary: numbers+units, composites, identifiers, constants, parens, calls -------

func (s *state) parsePrimaryWithUnit(i int) []reading {
	var out []reading
	out = append(out, s.tryRelativeInstant(i)...)
	out = append(out, s.tryDateTimeLiteral(i)...)
	out = append(out, s.tryAmPmTime(i)...)
	out = append(out, s.tryPrimeComposite(i)...)
	out = append(out, s.tryDurationLiteral(i)...)
	out = append(out, s.parseCompositeOrNumber(i)...)
	out = append(out, s.parseNonNumericPrimary(i)...)
	return out
}

// durationUnitFields maps calendar-duration unit spellings to the DurationLiteral field
// they populate (spec.md §4.4 "Durations are integer year/month/.../millisecond tuples").
// This competes with parseCompositeOrNumber's ordinary unit-bearing NumberLiteral reading
// for the same tokens (e.g. "1 month" also reads as a 1.0-month quantity on the average-
// month unit) — trial evaluation picks whichever reading the surrounding operator accepts,
// per this codebase's evaluate-then-pick architecture.
var durationUnitFields = map[string]string{
	"year": "year", "years": "year",
	"month": "month", "months": "month",
	"week": "week", "weeks": "week",
	"day": "day", "days": "day",
	"hour": "hour", "hours": "hour",
	"minute": "minute", "minutes": "minute", "min": "minute", "mins": "minute",
	"second": "second", "seconds": "second", "sec": "second", "secs": "second",
	"millisecond": "millisecond", "milliseconds": "millisecond", "ms": "millisecond",
}

// tryDurationLiteral recognises "N <calendar-unit>" as an integer Duration literal
// (spec.md §3, §4.4), e.g. "1 month", "3 weeks", "90 minutes".
func (s *state) tryDurationLiteral(i int) []reading {
	num := s.parseNumberLiteral(i)
	var out []reading
	for _, n := range num {
		lit, ok := n.node.(model.NumberLiteral)
		if !ok || lit.Unit != nil {
			continue
		}
		count := int(lit.Value)
		if float64(count) != lit.Value {
			continue
		}
		j := n.next
		if s.toks[j].Kind != TokIdent {
			continue
		}
		field, ok := durationUnitFields[strings.ToLower(s.toks[j].Text)]
		if !ok {
			continue
		}
		dl := model.DurationLiteral{SourcePosition: s.pos(s.toks[i].Start, s.toks[j].End)}
		switch field {
		case "year":
			dl.Years = count
		case "month":
			dl.Months = count
		case "week":
			dl.Weeks = count
		case "day":
			dl.Days = count
		case "hour":
			dl.Hours = count
		case "minute":
			dl.Minutes = count
		case "second":
			dl.Seconds = count
		case "millisecond":
			dl.Milliseconds = count
		}
		out = append(out, reading{node: dl, next: j + 1})
	}
	return out
}

func (s *state) parseNonNumericPrimary(i int) []reading {
	t := s.tok(i)
	switch {
	case s.isSymbol(i, "("):
		var out []reading
		for _, inner := range s.parseAssignment(i + 1) {
			if s.isSymbol(inner.next, ")") {
				out = append(out, reading{
					node: model.Grouped{SourcePosition: s.pos(t.Start, s.toks[inner.next].End), Inner: inner.node},
					next: inner.next + 1,
				})
			}
		}
		return out
	case t.Kind == TokIdent:
		if s.isSymbol(i+1, "(") {
			return s.parseCall(i)
		}
		if strings.EqualFold(t.Text, "pi") || t.Text == "π" {
			return []reading{{node: model.Constant{SourcePosition: s.pos(t.Start, t.End), Name: model.ConstPi}, next: i + 1}}
		}
		if strings.EqualFold(t.Text, "e") {
			// Bare `e` as Euler's number is one reading; `e` as a unit/identifier name
			// is the other (spec.md §4.7 "`e` is Euler's number unless inside a
			// numeric scientific-notation pattern" — the scientific-notation case is
			// already absorbed by the lexer, so here only the identifier/constant
			// ambiguity remains).
			return []reading{
				{node: model.Constant{SourcePosition: s.pos(t.Start, t.End), Name: model.ConstE}, next: i + 1},
				{node: model.Identifier{SourcePosition: s.pos(t.Start, t.End), Name: t.Text}, next: i + 1},
			}
		}
		return []reading{{node: model.Identifier{SourcePosition: s.pos(t.Start, t.End), Name: t.Text}, next: i + 1}}
	case t.Kind == TokKeyword && (strings.EqualFold(t.Text, "true") || strings.EqualFold(t.Text, "false")):
		return []reading{{node: model.BooleanLiteral{SourcePosition: s.pos(t.Start, t.End), Value: strings.EqualFold(t.Text, "true")}, next: i + 1}}
	case t.Kind == TokKeyword && strings.EqualFold(t.Text, "now"):
		return []reading{{node: model.DateLiteral{SourcePosition: s.pos(t.Start, t.End), Kind: model.DateKindInstant, Raw: "now"}, next: i + 1}}
	default:
		return nil
	}
}

func (s *state) parseCall(i int) []reading {
	name := s.tok(i).Text
	j := i + 2 // past ident and '('
	var argLists [][]reading
	if s.isSymbol(j, ")") {
		return []reading{{node: model.FunctionCall{SourcePosition: s.pos(s.toks[i].Start, s.toks[j].End), Name: name}, next: j + 1}}
	}
	for {
		args := s.parseAssignment(j)
		argLists = append(argLists, args)
		// advance j past the shortest candidate's argument for comma detection; since
		// arguments are typically unambiguous at the call-argument boundary, use the
		// first reading's `next` to look for a comma or close-paren.
		if len(args) == 0 {
			return nil
		}
		j = args[0].next
		if s.isSymbol(j, ",") {
			j++
			continue
		}
		break
	}
	if !s.isSymbol(j, ")") {
		return nil
	}
	end := j + 1
	// Cross product over each argument position's candidate readings.
	combos := [][]model.IExpression{{}}
	for _, list := range argLists {
		var next [][]model.IExpression
		for _, combo := range combos {
			for _, r := range list {
				c := append(append([]model.IExpression{}, combo...), r.node)
				next = append(next, c)
			}
		}
		combos = next
	}
	var out []reading
	for _, combo := range combos {
		out = append(out, reading{
			node: model.FunctionCall{SourcePosition: s.pos(s.toks[i].Start, s.toks[end-1].End), Name: name, Args: combo},
			next: end,
		})
	}
	return out
}

// parseNumberLiteral parses a bare number with no unit attached.
func (s *state) parseNumberLiteral(i int) []reading {
	t := s.tok(i)
	if t.Kind != TokNumber {
		return nil
	}
	v, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		return nil
	}
	return []reading{{node: model.NumberLiteral{SourcePosition: s.pos(t.Start, t.End), Value: v}, next: i + 1}}
}

// parseCompositeOrNumber parses a number, optionally followed by a unit expression, and
// (when several number-unit pairs chain without an operator between them) as a composite
// magnitude (spec.md §4.7 "Composite magnitude").
func (s *state) parseCompositeOrNumber(i int) []reading {
	bare := s.parseNumberLiteral(i)
	if bare == nil {
		return nil
	}
	t := s.tok(i)
	var out []reading

	// Reading 1: bare number, no unit.
	out = append(out, bare...)

	// Reading 2+: number with a unit expression attached, and composite chaining.
	unitStart := i + 1
	for _, u := range s.parseUnitExpr(unitStart) {
		lit := model.NumberLiteral{SourcePosition: s.pos(t.Start, s.toks[u.next-1].End), Value: bare[0].node.(model.NumberLiteral).Value, Unit: u.expr}
		out = append(out, reading{node: lit, next: u.next})
		out = append(out, s.tryExtendComposite(t.Start, bare[0].node.(model.NumberLiteral).Value, u)...)
	}
	return out
}

// tryExtendComposite greedily folds "N1 u1 N2 u2 ..." into one CompositeLiteral as long
// as each subsequent unit shares the first unit's dimension (spec.md GLOSSARY "Composite
// magnitude"; dimension agreement itself is checked later by the pruner/evaluator, not
// here, since the parser has no dimension oracle beyond unit identity).
func (s *state) tryExtendComposite(start int, firstVal float64, first unitReading) []reading {
	components := []model.CompositeComponent{{Value: firstVal, UnitName: soleUnitName(first.expr)}}
	if components[0].UnitName == "" {
		return nil
	}
	j := first.next
	for {
		numReadings := s.parseNumberLiteral(j)
		if len(numReadings) == 0 {
			break
		}
		val := numReadings[0].node.(model.NumberLiteral).Value
		units := s.parseUnitExpr(j + 1)
		if len(units) == 0 {
			break
		}
		name := soleUnitName(units[0].expr)
		if name == "" {
			break
		}
		components = append(components, model.CompositeComponent{Value: val, UnitName: name})
		j = units[0].next
	}
	if len(components) < 2 {
		return nil
	}
	return []reading{{
		node: model.CompositeLiteral{SourcePosition: s.pos(start, s.toks[j-1].End), Components: components},
		next: j,
	}}
}

func soleUnitName(u *model.UnitExpression) string {
	if u == nil || len(u.Terms) != 1 || u.Terms[0].Exponent != 1 {
		return ""
	}
	return u.Terms[0].UnitName
}

type unitReading struct {
	expr *model.UnitExpression
	next int
}

// parseUnitExpr parses a simple or derived unit expression starting at i: a bare unit
// name, optionally combined via juxtaposition, `/`, `per`, `^`/superscript with further
// unit names (spec.md §4.7 "Derived unit syntax"). Returns no readings if no unit name is
// recognised at i (the caller then knows the number is bare).
func (s *state) parseUnitExpr(i int) []unitReading {
	first, ok, next := s.parseUnitTerm(i)
	if !ok {
		return nil
	}
	terms := []model.UnitTerm{first}
	j := next
	for {
		if s.isSymbol(j, "/") || s.isKeyword(j, "per") {
			term, ok, n := s.parseUnitTerm(j + 1)
			if !ok {
				break
			}
			terms = append(terms, model.UnitTerm{UnitName: term.UnitName, Exponent: -term.Exponent})
			j = n
			continue
		}
		// Juxtaposition: another bare unit name immediately follows (e.g. "m s^-1").
		if s.toks[j].Kind == TokIdent {
			term, ok, n := s.parseUnitTerm(j)
			if !ok {
				break
			}
			terms = append(terms, term)
			j = n
			continue
		}
		break
	}
	return []unitReading{{expr: &model.UnitExpression{Terms: terms}, next: j}}
}

// parseUnitTerm parses one "name" or "name^k" unit term.
func (s *state) parseUnitTerm(i int) (model.UnitTerm, bool, int) {
	t := s.tok(i)
	if t.Kind != TokIdent {
		return model.UnitTerm{}, false, i
	}
	name := t.Text
	j := i + 1
	exp := 1
	if s.isSymbol(j, "^") {
		if s.toks[j+1].Kind == TokNumber {
			n, err := strconv.Atoi(s.toks[j+1].Text)
			if err == nil {
				exp = n
				j += 2
			}
		}
	} else if s.toks[j].Kind == TokSymbol && strings.HasPrefix(s.toks[j].Text, "^") {
		n, err := strconv.Atoi(strings.TrimPrefix(s.toks[j].Text, "^"))
		if err == nil {
			exp = n
			j++
		}
	}
	return model.UnitTerm{UnitName: name, Exponent: exp}, true, j
}
