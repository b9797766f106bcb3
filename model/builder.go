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

package model

// Candidate is one full parse of an expression line, paired with the grammar's
// preference rank among its siblings (spec.md §4.9: "Ties are broken by
// earliest-in-candidate-order"). The parser emits candidates already in that order, so
// GrammarRank is simply the candidate's index.
type Candidate struct {
	Root        IExpression
	GrammarRank int
}

// Walk calls fn on node and every descendant, depth first, left to right. It is used by
// the pruner (free-variable search) and the selector (unit-match scoring) so both walk
// the same tree shape exactly once.
func Walk(node IExpression, fn func(IExpression)) {
	if node == nil {
		return
	}
	fn(node)
	switch n := node.(type) {
	case Grouped:
		Walk(n.Inner, fn)
	case Unary:
		Walk(n.Operand, fn)
	case Factorial:
		Walk(n.Operand, fn)
	case Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case FunctionCall:
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case Conversion:
		Walk(n.Source, fn)
	case Conditional:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	case RelativeInstant:
		Walk(n.N, fn)
	case Assignment:
		Walk(n.Value, fn)
	}
}

// FreeIdentifiers returns every Identifier name referenced anywhere in node, in
// first-occurrence order, for the pruner's undefined-variable check (spec.md §4.8).
func FreeIdentifiers(node IExpression) []string {
	seen := make(map[string]bool)
	var names []string
	Walk(node, func(n IExpression) {
		if id, ok := n.(Identifier); ok {
			if !seen[id.Name] {
				seen[id.Name] = true
				names = append(names, id.Name)
			}
		}
	})
	return names
}

// AssignedName returns (name, true) if node is (or wraps, at the top) an Assignment.
func AssignedName(node IExpression) (string, bool) {
	if a, ok := node.(Assignment); ok {
		return a.Name, true
	}
	return "", false
}
