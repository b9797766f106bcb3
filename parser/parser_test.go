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

package parser

import (
	"testing"

	"github.com/inkcalc/calc/model"
	"github.com/inkcalc/calc/unitdb"
)

func TestParseSimpleArithmetic(t *testing.T) {
	db := &unitdb.Database{}
	cands, err := Parse("1 + 2 * 3", db, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	found := false
	for _, c := range cands {
		if b, ok := c.Root.(model.Binary); ok && b.Op == model.OpAdd {
			if r, ok := b.Right.(model.Binary); ok && r.Op == model.OpMul {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected a (1 + (2 * 3)) precedence reading among %d candidates", len(cands))
	}
}

func TestParseAssignment(t *testing.T) {
	db := &unitdb.Database{}
	cands, err := Parse("x = 5", db, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	any := false
	for _, c := range cands {
		if a, ok := c.Root.(model.Assignment); ok && a.Name == "x" {
			any = true
		}
	}
	if !any {
		t.Errorf("expected an Assignment candidate, got %#v", cands)
	}
}

func TestParseUnitAttachedNumber(t *testing.T) {
	db := &unitdb.Database{}
	cands, err := Parse("5 meter", db, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	any := false
	for _, c := range cands {
		if n, ok := c.Root.(model.NumberLiteral); ok && n.Unit != nil && n.Unit.Terms[0].UnitName == "meter" {
			any = true
		}
	}
	if !any {
		t.Errorf("expected a unit-attached NumberLiteral candidate among %d", len(cands))
	}
}

func TestParsePerAmbiguity(t *testing.T) {
	db := &unitdb.Database{}
	cands, err := Parse("5 meter per second", db, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cands) < 1 {
		t.Fatalf("expected at least one candidate")
	}
}

func TestParseNoCandidateIsError(t *testing.T) {
	db := &unitdb.Database{}
	_, err := Parse("+ + +", db, 0)
	if err == nil {
		t.Fatalf("expected a ParseError for an inadmissible line")
	}
}
