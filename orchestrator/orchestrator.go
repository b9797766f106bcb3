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

// Package orchestrator drives spec.md §4.10's evaluate_document over a whole source
// document: preprocess each line, parse it into a candidate pool, prune candidates with
// undefined free variables, trial-evaluate every survivor (evaluate-then-pick, §4.10,
// §4.9), select the grammar's best reading, and commit any assignment it names before
// moving to the next line. A parse cache held by the Engine (keyed by raw line text and
// kept across documents; it is never cleared) lets the
// REPL's common case — re-running a document after editing one line — skip re-parsing
// every unchanged line, mirroring the teacher's own per-statement caching idiom.
package orchestrator

import (
	log "github.com/golang/glog"
	"github.com/pborman/uuid"

	"github.com/inkcalc/calc/calendar"
	"github.com/inkcalc/calc/currency"
	"github.com/inkcalc/calc/interpreter"
	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/parser"
	"github.com/inkcalc/calc/preprocessor"
	"github.com/inkcalc/calc/pruner"
	"github.com/inkcalc/calc/result"
	"github.com/inkcalc/calc/selector"
	"github.com/inkcalc/calc/types"
	"github.com/inkcalc/calc/unitdb"
)

// Engine evaluates notebook documents against one unit database, currency resolver and
// settings profile. It is safe for sequential reuse across documents (e.g. a REPL loop
// re-evaluating after every edit) but not for concurrent use by multiple goroutines,
// since the per-line parse cache is unsynchronised — matching the teacher's own
// single-session-at-a-time interpreter loop.
type Engine struct {
	DB       *unitdb.Database
	Currency *currency.Resolver
	Settings types.Settings
	Clock    calendar.Clock

	parseCache map[string]parseCacheEntry
}

type parseCacheEntry struct {
	candidates []model.Candidate
	err        error
}

// NewEngine constructs an Engine ready to evaluate documents.
func NewEngine(db *unitdb.Database, resolver *currency.Resolver, settings types.Settings, clock calendar.Clock) *Engine {
	return &Engine{DB: db, Currency: resolver, Settings: settings, Clock: clock, parseCache: make(map[string]parseCacheEntry)}
}

// EvaluateDocument runs spec.md §4.10's evaluate_document over the whole document text,
// line by line, threading variable scope and the `prev`/`ans` value forward.
func (e *Engine) EvaluateDocument(document string) result.DocumentResult {
	runID := uuid.New()
	log.V(1).Infof("orchestrator: evaluating document run=%s", runID)

	ctx := interpreter.NewContext(e.DB, e.Currency, e.Settings, e.Clock)
	lines := preprocessor.Process(document)
	out := result.DocumentResult{RunID: runID, Lines: make([]result.DocumentLine, len(lines))}

	offset := 0
	for i, line := range lines {
		out.Lines[i] = e.evaluateLine(ctx, line, offset)
		offset += len(line.Raw) + 1
	}
	return out
}

func (e *Engine) evaluateLine(ctx *interpreter.EvaluationContext, line preprocessor.Line, offset int) result.DocumentLine {
	switch line.Kind {
	case preprocessor.KindEmpty:
		return result.DocumentLine{Kind: result.LineNone, Raw: line.Raw}
	case preprocessor.KindHeading:
		return result.DocumentLine{Kind: result.LineHeading, Raw: line.Raw, HeadingLevel: line.HeadingLevel, HeadingText: line.HeadingText}
	}

	candidates, err := e.parse(line.Content, offset+line.ContentOffset)
	if err != nil {
		return result.DocumentLine{Kind: result.LineError, Raw: line.Raw, Err: asEngineError(types.ErrParse, err)}
	}

	scope := currentScope(ctx)
	kept, rejected := pruner.Prune(candidates, scope, e.DB)
	if len(kept) == 0 {
		return result.DocumentLine{Kind: result.LineError, Raw: line.Raw, Err: &result.EngineError{Kind: types.ErrUnknownIdentifier, Message: pruner.Diagnostic(rejected)}}
	}

	outcome, assignName, assigned := evaluateThenPick(kept, ctx, e.DB)
	if outcome.IsError() {
		return result.DocumentLine{Kind: result.LineError, Raw: line.Raw, Err: outcome.Error}
	}

	if assigned {
		interpreter.CommitAssignment(ctx, assignName, outcome)
	}
	ctx.Prev = outcome
	return result.DocumentLine{Kind: result.LineValue, Raw: line.Raw, Value: outcome, AssignedName: assignName}
}

// parse consults the per-line cache before calling the parser, keyed on raw content
// text: an unchanged line anywhere in the document reuses its prior candidate pool.
func (e *Engine) parse(content string, base int) ([]model.Candidate, error) {
	if cached, ok := e.parseCache[content]; ok {
		return cached.candidates, cached.err
	}
	candidates, err := parser.Parse(content, e.DB, base)
	e.parseCache[content] = parseCacheEntry{candidates: candidates, err: err}
	return candidates, err
}

func currentScope(ctx *interpreter.EvaluationContext) pruner.Scope {
	scope := make(pruner.Scope, len(ctx.Variables))
	for name := range ctx.Variables {
		scope[name] = true
	}
	return scope
}

// evaluateThenPick implements spec.md §4.10's "evaluate-then-pick": every pruned
// candidate is trial-evaluated (no commit), then the selector scores the survivors.
// Candidates that evaluate successfully are preferred over ones that produce an error,
// since a grammatically valid-but-semantically-broken reading (e.g. "5 kg to volts")
// should never shadow a reading that actually computes a value; only when every
// candidate errors does the selector's structural preference decide which error
// surfaces.
func evaluateThenPick(candidates []model.Candidate, ctx *interpreter.EvaluationContext, db *unitdb.Database) (result.Value, string, bool) {
	outcomes := make([]interpreter.LineOutcome, len(candidates))
	for i, c := range candidates {
		outcomes[i] = interpreter.TryEvaluateLine(c.Root, ctx)
	}

	// Candidate.Root's dynamic type can embed slices (e.g. FunctionCall.Args), so
	// candidates aren't comparable/hashable; track the surviving subset by parallel
	// index instead of keying a map on the AST node itself.
	var okCandidates []model.Candidate
	var okIndex []int
	for i, o := range outcomes {
		if !o.Value.IsError() {
			okCandidates = append(okCandidates, candidates[i])
			okIndex = append(okIndex, i)
		}
	}

	pool, indexOf := candidates, identityIndex(len(candidates))
	if len(okCandidates) > 0 {
		pool, indexOf = okCandidates, okIndex
	}
	bestPos := selectIndex(pool, db)
	outcome := outcomes[indexOf[bestPos]]
	return outcome.Value, outcome.AssignName, outcome.WouldAssign
}

func identityIndex(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// selectIndex runs the selector over pool and returns the position (within pool) of the
// chosen candidate, recovering the index since selector.Select returns the Candidate
// value itself rather than a position.
func selectIndex(pool []model.Candidate, db *unitdb.Database) int {
	best := selector.Select(pool, db)
	for i := range pool {
		if i < len(pool) && sameCandidate(pool[i], best) {
			return i
		}
	}
	return 0
}

// sameCandidate compares by grammar rank: within one selection pool, ranks are unique
// (they are the candidate's original index in parse order), so this recovers identity
// without requiring model.Candidate to be comparable.
func sameCandidate(a, b model.Candidate) bool {
	return a.GrammarRank == b.GrammarRank
}

func asEngineError(kind types.ErrorKind, err error) *result.EngineError {
	if ee, ok := err.(*result.EngineError); ok {
		return ee
	}
	return &result.EngineError{Kind: kind, Message: err.Error()}
}
