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

// Package calc is the notebook calculator engine's public entry point: it wires the
// unit catalogue, currency rate table, clock and display settings together into an
// orchestrator.Engine, mirroring the shape of the teacher's top-level cql.New/cql.Parse
// constructors (package cql, cql.go): a plain exported Config struct passed by value,
// rather than a chain of functional options.
package calc

import (
	"github.com/inkcalc/calc/calendar"
	"github.com/inkcalc/calc/currency"
	"github.com/inkcalc/calc/orchestrator"
	"github.com/inkcalc/calc/result"
	"github.com/inkcalc/calc/types"
	"github.com/inkcalc/calc/unitdb"
)

// Config configures a Calculator at construction time (spec.md §6 "Evaluator settings",
// §4.5, §3 "Lifecycle").
type Config struct {
	// Settings holds the display/variant/angle-unit profile. Zero value is replaced with
	// types.DefaultSettings().
	Settings types.Settings

	// Rates is the initial USD-based exchange-rate table (spec.md §6: "{date, usd: {
	// code-lowercase: number, ... }}"). Nil means every currency lookup fails with
	// currency.ErrUnknownRate until SwapRates installs a table.
	Rates map[string]float64

	// Clock supplies `now` and relative-instant expressions. Nil defaults to
	// calendar.SystemClock{}.
	Clock calendar.Clock
}

// Calculator evaluates notebook documents (spec.md §1 OVERVIEW). It loads the default
// embedded unit/currency/timezone catalogue; hosts that need a custom catalogue should
// build an orchestrator.Engine directly over their own unitdb.Database.
type Calculator struct {
	engine *orchestrator.Engine
	table  *currency.Table
}

// New constructs a Calculator over the default embedded unit database.
func New(config Config) (*Calculator, error) {
	db, err := unitdb.LoadDefault()
	if err != nil {
		return nil, err
	}

	settings := config.Settings
	if settings == (types.Settings{}) {
		settings = types.DefaultSettings()
	}
	clock := config.Clock
	if clock == nil {
		clock = calendar.SystemClock{}
	}

	table := currency.NewTable(currency.NewStaticRateProvider(config.Rates))
	resolver := currency.NewResolver(db, table)
	return &Calculator{
		engine: orchestrator.NewEngine(db, resolver, settings, clock),
		table:  table,
	}, nil
}

// SwapRates hot-swaps the live exchange-rate table (spec.md §3 "Lifecycle"); every
// currency-unit lookup after this call observes the new rates.
func (c *Calculator) SwapRates(rates map[string]float64) {
	c.table.Swap(currency.NewStaticRateProvider(rates))
}

// Evaluate runs spec.md §4.10's evaluate_document over document and returns one result
// per source line.
func (c *Calculator) Evaluate(document string) result.DocumentResult {
	return c.engine.EvaluateDocument(document)
}
