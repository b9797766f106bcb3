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

// Package pruner implements spec.md §4.8: rejecting candidates that reference a free
// variable that is neither in scope nor a known unit or constant name, before any
// trial evaluation is attempted. A candidate set that prunes down to nothing produces a
// single, specific diagnostic rather than the generic "no candidate parsed" message.
package pruner

import (
	"fmt"

	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/unitdb"
)

// Scope is the set of variable names defined by earlier lines in the document.
type Scope map[string]bool

// Rejection records why one candidate was pruned, kept for diagnostics.
type Rejection struct {
	Candidate model.Candidate
	Undefined []string
}

// Prune filters candidates down to those whose free identifiers are all either in scope,
// a known unit/currency name, or a named constant (spec.md §4.8). It also returns the
// full rejection list so the caller can build the "every candidate rejected" diagnostic.
func Prune(candidates []model.Candidate, scope Scope, db *unitdb.Database) ([]model.Candidate, []Rejection) {
	var kept []model.Candidate
	var rejected []Rejection
	for _, c := range candidates {
		if undef := undefinedNames(c.Root, scope, db); len(undef) > 0 {
			rejected = append(rejected, Rejection{Candidate: c, Undefined: undef})
			continue
		}
		kept = append(kept, c)
	}
	return kept, rejected
}

func undefinedNames(root model.IExpression, scope Scope, db *unitdb.Database) []string {
	var undef []string
	for _, name := range model.FreeIdentifiers(root) {
		if isKnown(name, scope, db) {
			continue
		}
		undef = append(undef, name)
	}
	return undef
}

func isKnown(name string, scope Scope, db *unitdb.Database) bool {
	if scope[name] {
		return true
	}
	if name == "pi" || name == "e" {
		return true
	}
	if db == nil {
		return false
	}
	if _, ok := db.UnitByName(name); ok {
		return true
	}
	if db.Currencies() != nil {
		if _, ok := db.Currencies().ByCode(name); ok {
			return true
		}
		if _, ok := db.Currencies().ByName(name); ok {
			return true
		}
	}
	return false
}

// Diagnostic builds spec.md §4.8's "every candidate rejected, same undefined-variable
// set" message when Prune returned an empty kept list.
func Diagnostic(rejected []Rejection) string {
	if len(rejected) == 0 {
		return "no candidates to prune"
	}
	first := rejected[0].Undefined
	sameAcrossAll := true
	for _, r := range rejected[1:] {
		if !sameStringSet(first, r.Undefined) {
			sameAcrossAll = false
			break
		}
	}
	if sameAcrossAll {
		return fmt.Sprintf("undefined: %v", first)
	}
	return "all candidates rejected for varying reasons"
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]bool{}
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			return false
		}
	}
	return true
}
