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

// Package currency implements spec.md §4.5: it holds the live USD-based rate table and
// synthesises, on lookup, a unitdb.Unit for any unambiguous currency whose factor is
// derived from that table. This keeps the evaluator's arithmetic path generic (spec.md
// §9 "Currency as a unit") — no special-casing of currency anywhere outside this
// package and the parser's unit-name resolution.
//
// The RateProvider/atomic-swap shape is grounded on the teacher's terminology.Provider
// interface (terminology/local.go): a narrow interface for an external, swappable data
// source, with one in-package implementation that holds the data directly.
package currency

import (
	"fmt"
	"sync/atomic"

	"github.com/inkcalc/calc/unitdb"
)

// RateProvider supplies the current exchange rate table (spec.md §6: "{date, usd: {
// code-lowercase: number, ... }}" where number is the value of 1 USD in that currency).
type RateProvider interface {
	// Rate returns how many units of code equal 1 USD, and whether code is known.
	Rate(code string) (float64, bool)
}

// StaticRateProvider is a RateProvider backed by a fixed, in-memory table — the
// production shape when a host has already fetched the table and wants to inject it as
// plain data (spec.md §1: "the exchange-rate fetcher (treated as an injected
// rate-table)").
type StaticRateProvider struct {
	rates map[string]float64 // ISO code (upper) -> units of code per 1 USD
}

// NewStaticRateProvider builds a StaticRateProvider from a code->rate map such as the
// "usd" object in the rate-table JSON (spec.md §6).
func NewStaticRateProvider(rates map[string]float64) *StaticRateProvider {
	normalized := make(map[string]float64, len(rates))
	for k, v := range rates {
		normalized[upper(k)] = v
	}
	return &StaticRateProvider{rates: normalized}
}

// Rate implements RateProvider.
func (s *StaticRateProvider) Rate(code string) (float64, bool) {
	r, ok := s.rates[upper(code)]
	return r, ok
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// Table is the hot-swappable handle the evaluator holds (spec.md §3 "Lifecycle": "The
// rate table is hot-swappable; upon update, every currency unit re-derives its
// conversion factor on next lookup"). Swap installs a new RateProvider atomically; no
// currently-in-flight lookup observes a torn read.
type Table struct {
	provider atomic.Pointer[RateProvider]
}

// NewTable wraps an initial RateProvider in a hot-swappable Table.
func NewTable(initial RateProvider) *Table {
	t := &Table{}
	t.provider.Store(&initial)
	return t
}

// Swap installs a new RateProvider, visible to every lookup from this point on.
func (t *Table) Swap(p RateProvider) {
	t.provider.Store(&p)
}

// Rate reads the current provider's rate for code.
func (t *Table) Rate(code string) (float64, bool) {
	return (*t.provider.Load()).Rate(code)
}

// Resolver synthesises unitdb.Units for unambiguous currencies on demand, using the
// static metadata catalogue (code, display names) plus the live rate Table for the
// conversion factor (spec.md §4.5): the synthesised unit has dimension currency and a
// linear factor equal to its rate against USD, i.e. units of the currency per US dollar,
// matching the catalogue's units-per-base-unit factor convention.
type Resolver struct {
	catalogue *unitdb.CurrencyCatalogue
	table     *Table
}

// NewResolver builds a Resolver over db's currency catalogue and a live rate Table.
func NewResolver(db *unitdb.Database, table *Table) *Resolver {
	return &Resolver{catalogue: db.Currencies(), table: table}
}

// ErrUnknownRate is returned when a target currency has no entry in the live rate
// table: unit resolution fails, treated as "unknown target unit" (spec.md §4.5
// "Failure modes").
type ErrUnknownRate struct{ Code string }

func (e *ErrUnknownRate) Error() string {
	return fmt.Sprintf("currency: no exchange rate known for %q", e.Code)
}

// ResolveByCode synthesises a unit for an ISO currency code, deriving its linear factor
// from the live rate table. unitdb's Linear factors are authored as "units of this unit
// per 1 base unit" (see convert.toBase): the base currency is USD, and rate(code) is
// already exactly that — "1 USD = rate(code) units of code" — so the factor is rate(code)
// itself, not its reciprocal.
func (r *Resolver) ResolveByCode(code string) (*unitdb.Unit, error) {
	meta, ok := r.catalogue.ByCode(code)
	if !ok {
		return nil, &ErrUnknownRate{Code: code}
	}
	rate, ok := r.table.Rate(meta.Code)
	if !ok {
		return nil, &ErrUnknownRate{Code: meta.Code}
	}
	return &unitdb.Unit{
		ID:        "currency:" + meta.Code,
		Dimension: "currency",
		DisplayName: unitdb.DisplayName{
			Symbol:   meta.Code,
			Singular: meta.DisplayName.Singular,
			Plural:   meta.DisplayName.Plural,
		},
		Names:      append([]string{meta.Code}, meta.Names...),
		Conversion: unitdb.Conversion{Type: unitdb.Linear, Factor: rate},
	}, nil
}

// ResolveByName resolves a currency display or alias name the same way as ResolveByCode.
func (r *Resolver) ResolveByName(name string) (*unitdb.Unit, error) {
	meta, ok := r.catalogue.ByName(name)
	if !ok {
		return nil, &ErrUnknownRate{Code: name}
	}
	return r.ResolveByCode(meta.Code)
}

// ResolveAmbiguousSymbol returns the static per-symbol unit for an ambiguous currency
// symbol like "$" (spec.md §4.5: "An ambiguous symbol is synthesised into its own
// single-member dimension"). Since its dimension has exactly one member, no rate
// lookup is needed or possible; mixing two distinct ambiguous symbols is a dimension
// error, not a silent conversion (enforced naturally by dimension.Compatible since each
// symbol's dimension id differs).
func ResolveAmbiguousSymbol(db *unitdb.Database, symbol string) (*unitdb.Unit, error) {
	a, ok := db.Currencies().AmbiguousSymbol(symbol)
	if !ok {
		return nil, fmt.Errorf("currency: %q is not a recognised ambiguous currency symbol", symbol)
	}
	u, ok := db.UnitByName(symbol)
	if !ok {
		return nil, fmt.Errorf("currency: no static unit registered for ambiguous symbol %q (dimension %q)", symbol, a.Dimension)
	}
	return u, nil
}
