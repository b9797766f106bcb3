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

package unitdb

import "strings"

// CurrencyDisplayName mirrors unit.DisplayName for a currency's singular/plural text.
type CurrencyDisplayName struct {
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
}

// UnambiguousCurrency is an ISO-4217 currency that shares the single "currency"
// dimension (spec.md §3, §4.5): its conversion factor is re-derived from the rate table
// at unit-resolution time rather than stored statically.
type UnambiguousCurrency struct {
	Code        string              `json:"code"`
	MinorUnits  int                 `json:"minorUnits"`
	DisplayName CurrencyDisplayName `json:"displayName"`
	Names       []string            `json:"names"`
}

// AmbiguousCurrency is a symbol like "$" that is given its own single-member dimension
// so mixing two such symbols is a dimension error rather than a silent conversion.
type AmbiguousCurrency struct {
	Symbol    string `json:"symbol"`
	Dimension string `json:"dimension"`
}

// CurrencyDoc is the on-disk shape of the currency database (spec.md §6).
type CurrencyDoc struct {
	Unambiguous []UnambiguousCurrency `json:"unambiguous"`
	Ambiguous   []AmbiguousCurrency   `json:"ambiguous"`
}

// CurrencyCatalogue indexes currencies by code, name and ambiguous symbol.
type CurrencyCatalogue struct {
	byCode     map[string]UnambiguousCurrency
	byName     map[string]UnambiguousCurrency
	ambiguous  map[string]AmbiguousCurrency
}

func buildCurrencyCatalogue(doc CurrencyDoc) *CurrencyCatalogue {
	c := &CurrencyCatalogue{
		byCode:    make(map[string]UnambiguousCurrency, len(doc.Unambiguous)),
		byName:    make(map[string]UnambiguousCurrency),
		ambiguous: make(map[string]AmbiguousCurrency, len(doc.Ambiguous)),
	}
	for _, cur := range doc.Unambiguous {
		c.byCode[strings.ToUpper(cur.Code)] = cur
		c.byName[strings.ToLower(cur.DisplayName.Singular)] = cur
		c.byName[strings.ToLower(cur.DisplayName.Plural)] = cur
		for _, n := range cur.Names {
			c.byName[strings.ToLower(n)] = cur
		}
	}
	for _, a := range doc.Ambiguous {
		c.ambiguous[a.Symbol] = a
	}
	return c
}

// ByCode looks up an unambiguous currency by its ISO code (case-insensitive).
func (c *CurrencyCatalogue) ByCode(code string) (UnambiguousCurrency, bool) {
	cur, ok := c.byCode[strings.ToUpper(code)]
	return cur, ok
}

// ByName looks up an unambiguous currency by a display or alias name.
func (c *CurrencyCatalogue) ByName(name string) (UnambiguousCurrency, bool) {
	cur, ok := c.byName[strings.ToLower(name)]
	return cur, ok
}

// AmbiguousSymbol looks up a symbol (e.g. "$") that has its own synthetic dimension.
func (c *CurrencyCatalogue) AmbiguousSymbol(symbol string) (AmbiguousCurrency, bool) {
	a, ok := c.ambiguous[symbol]
	return a, ok
}
