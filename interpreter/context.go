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

// Package interpreter implements spec.md §4.10: evaluate_document / try_evaluate_line /
// commit_assignment, the operator and function dispatch tables, and the
// evaluate-then-pick trial-evaluation loop the orchestrator drives candidate by
// candidate. Evaluation never mutates a candidate's AST; all state lives in the
// EvaluationContext passed alongside it.
package interpreter

import (
	"github.com/inkcalc/calc/calendar"
	"github.com/inkcalc/calc/currency"
	"github.com/inkcalc/calc/result"
	"github.com/inkcalc/calc/types"
	"github.com/inkcalc/calc/unitdb"
)

// EvaluationContext carries everything an expression's evaluation can read: the unit
// catalogue, the live currency resolver, display/locale settings, a clock for `now`
// and relative instants, and the variables defined by earlier lines in the document
// (spec.md §4.10 "evaluate_document(ast, context)").
type EvaluationContext struct {
	DB       *unitdb.Database
	Currency *currency.Resolver
	Settings types.Settings
	Clock    calendar.Clock

	Variables map[string]result.Value
	// Prev is the most recently committed line's value, for the `prev`/`ans`
	// intra-document line reference (SPEC_FULL.md supplemented feature).
	Prev result.Value
}

// NewContext builds a fresh EvaluationContext with an empty variable scope.
func NewContext(db *unitdb.Database, resolver *currency.Resolver, settings types.Settings, clock calendar.Clock) *EvaluationContext {
	return &EvaluationContext{
		DB:        db,
		Currency:  resolver,
		Settings:  settings,
		Clock:     clock,
		Variables: make(map[string]result.Value),
		Prev:      result.None,
	}
}

// LineOutcome is try_evaluate_line's result (spec.md §4.10): the computed value, plus
// whether this line was an assignment and, if so, under what name.
type LineOutcome struct {
	Value       result.Value
	WouldAssign bool
	AssignName  string
}

// CommitAssignment stores value under name, making it visible to later lines
// (spec.md §4.10 "commit_assignment(context, name, value)").
func CommitAssignment(ctx *EvaluationContext, name string, value result.Value) {
	ctx.Variables[name] = value
}
