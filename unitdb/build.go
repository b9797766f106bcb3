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

import (
	"encoding/json"
	"fmt"
)

// siPrefixes are the 25 SI prefixes from quecto to quetta (spec.md §4.1).
var siPrefixes = []struct {
	symbol string
	name   string
	factor float64
}{
	{"Q", "quetta", 1e30}, {"R", "ronna", 1e27}, {"Y", "yotta", 1e24},
	{"Z", "zetta", 1e21}, {"E", "exa", 1e18}, {"P", "peta", 1e15},
	{"T", "tera", 1e12}, {"G", "giga", 1e9}, {"M", "mega", 1e6},
	{"k", "kilo", 1e3}, {"h", "hecto", 1e2}, {"da", "deka", 1e1},
	{"", "", 1},
	{"d", "deci", 1e-1}, {"c", "centi", 1e-2}, {"m", "milli", 1e-3},
	{"µ", "micro", 1e-6}, {"n", "nano", 1e-9}, {"p", "pico", 1e-12},
	{"f", "femto", 1e-15}, {"a", "atto", 1e-18}, {"z", "zepto", 1e-21},
	{"y", "yocto", 1e-24}, {"r", "ronto", 1e-27}, {"q", "quecto", 1e-30},
}

// binaryPrefixes are the IEC binary prefixes (kibi..exbi) for bit/byte (spec.md §4.1).
var binaryPrefixes = []struct {
	symbol string
	name   string
	factor float64
}{
	{"Ki", "kibi", 1 << 10}, {"Mi", "mebi", 1 << 20}, {"Gi", "gibi", 1 << 30},
	{"Ti", "tebi", 1 << 40}, {"Pi", "pebi", 1 << 50}, {"Ei", "exbi", 1 << 60},
}

// siPrefixable is a base unit declaration that should be expanded over SI prefixes.
type siPrefixable struct {
	dimension   string
	baseID      string
	symbol      string
	singular    string
	plural      string
}

// Declaration is the compact build-time input described in spec.md §4.1: base units to
// expand over SI prefixes, plus variant/currency/timezone leaves. A real deployment
// would feed this from a hand-maintained table; BuildDefault below supplies a
// representative one covering the dimensions exercised by the rest of the engine.
type Declaration struct {
	Dimensions []Dimension
	SIBases    []siPrefixable
	ExtraUnits []Unit
	Currencies CurrencyDoc
	Timezones  []TimezoneEntry
}

// Build materialises a catalogue from a Declaration, expanding every SIBases entry over
// the 25 SI prefixes (spec.md: "base units × 25 SI prefixes for each SI-prefixable
// dimension"), then merges in ExtraUnits (variants, FLOPS, binary-prefixed bit/byte,
// non-SI units) verbatim. It returns the serialised JSON document consumed by Load.
func Build(decl Declaration) ([]byte, error) {
	units := make([]Unit, 0, len(decl.SIBases)*len(siPrefixes)+len(decl.ExtraUnits))
	for _, base := range decl.SIBases {
		for _, p := range siPrefixes {
			id := p.symbol + base.baseID
			if p.symbol == "" {
				id = base.baseID
			}
			u := Unit{
				ID:        id,
				Dimension: base.dimension,
				DisplayName: DisplayName{
					Symbol:   p.symbol + base.symbol,
					Singular: p.name + base.singular,
					Plural:   p.name + base.plural,
				},
				Conversion: Conversion{Type: Linear, Factor: 1 / p.factor},
				IsBaseUnit: p.factor == 1,
			}
			u.Names = []string{u.DisplayName.Symbol, u.DisplayName.Singular, u.DisplayName.Plural}
			units = append(units, u)
		}
	}
	units = append(units, decl.ExtraUnits...)

	doc := struct {
		Dimensions []Dimension     `json:"dimensions"`
		Units      []Unit          `json:"units"`
		Currencies CurrencyDoc     `json:"currencies"`
		Timezones  []TimezoneEntry `json:"timezones"`
	}{
		Dimensions: decl.Dimensions,
		Units:      units,
		Currencies: decl.Currencies,
		Timezones:  decl.Timezones,
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("unitdb: marshaling built catalogue: %w", err)
	}
	return out, nil
}

// DefaultDeclaration is the compact declaration LoadDefault passes to Build at load time
// to produce the shipped catalogue (spec.md §4.1). It covers the dimensions exercised by
// the rest of the engine: the SI base quantities, temperature (affine), angle/cycle, data
// (binary-prefixed), a handful of common derived dimensions with named
// convenience units, and non-metric variant units (teaspoon, gallon, ...).
func DefaultDeclaration() Declaration {
	dims := []Dimension{
		{ID: "length", Name: "Length", BaseUnit: "m"},
		{ID: "mass", Name: "Mass", BaseUnit: "g"},
		{ID: "time", Name: "Time", BaseUnit: "second"},
		{ID: "temperature", Name: "Temperature", BaseUnit: "kelvin"},
		{ID: "current", Name: "Electric current", BaseUnit: "ampere"},
		{ID: "luminousIntensity", Name: "Luminous intensity", BaseUnit: "candela"},
		{ID: "dimensionless", Name: "Dimensionless", BaseUnit: "count"},
		{ID: "cycle", Name: "Cycle", BaseUnit: "cycle"},
		{ID: "beat", Name: "Beat", BaseUnit: "beat"},
		{ID: "operation", Name: "Operation", BaseUnit: "flop"},
		{ID: "printing", Name: "Printing", BaseUnit: "point"},
		{ID: "data", Name: "Data", BaseUnit: "bit"},
		{ID: "currency", Name: "Currency", BaseUnit: "usd"},
		{ID: "currency_symbol_dollar", Name: "Ambiguous dollar symbol", BaseUnit: "sym_dollar"},
		{ID: "currency_symbol_pound", Name: "Ambiguous pound symbol", BaseUnit: "sym_pound"},
		{ID: "currency_symbol_yen", Name: "Ambiguous yen symbol", BaseUnit: "sym_yen"},

		{ID: "speed", Name: "Speed", BaseUnit: "mps",
			DerivedFrom: []ExponentTerm{{"length", 1}, {"time", -1}}},
		{ID: "acceleration", Name: "Acceleration", BaseUnit: "mps2",
			DerivedFrom: []ExponentTerm{{"length", 1}, {"time", -2}}},
		{ID: "area", Name: "Area", BaseUnit: "m2",
			DerivedFrom: []ExponentTerm{{"length", 2}}},
		{ID: "volume", Name: "Volume", BaseUnit: "m3",
			DerivedFrom: []ExponentTerm{{"length", 3}}},
		{ID: "frequency", Name: "Frequency", BaseUnit: "hertz",
			DerivedFrom: []ExponentTerm{{"time", -1}}},
		{ID: "force", Name: "Force", BaseUnit: "newton",
			DerivedFrom: []ExponentTerm{{"mass", 1}, {"length", 1}, {"time", -2}}},
		{ID: "energy", Name: "Energy", BaseUnit: "joule",
			DerivedFrom: []ExponentTerm{{"mass", 1}, {"length", 2}, {"time", -2}}},
		{ID: "power", Name: "Power", BaseUnit: "watt",
			DerivedFrom: []ExponentTerm{{"mass", 1}, {"length", 2}, {"time", -3}}},
		{ID: "dataRate", Name: "Data rate", BaseUnit: "bps",
			DerivedFrom: []ExponentTerm{{"data", 1}, {"time", -1}}},
	}

	siBases := []siPrefixable{
		{"length", "m", "m", "meter", "meters"},
		{"mass", "g", "g", "gram", "grams"},
	}

	extra := []Unit{
		{ID: "count", Dimension: "dimensionless", DisplayName: DisplayName{"", "", ""},
			Names: []string{}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "percent", Dimension: "dimensionless", DisplayName: DisplayName{"%", "percent", "percent"},
			Names: []string{"%", "percent"}, Conversion: Conversion{Type: Linear, Factor: 100}},

		{ID: "second", Dimension: "time", DisplayName: DisplayName{"s", "second", "seconds"},
			Names: []string{"s", "sec", "second", "seconds"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "millisecond", Dimension: "time", DisplayName: DisplayName{"ms", "millisecond", "milliseconds"},
			Names: []string{"ms", "millisecond", "milliseconds"}, Conversion: Conversion{Type: Linear, Factor: 1000}},
		{ID: "minute", Dimension: "time", DisplayName: DisplayName{"min", "minute", "minutes"},
			Names: []string{"min", "minute", "minutes"}, Conversion: Conversion{Type: Linear, Factor: 1.0 / 60}},
		{ID: "hour", Dimension: "time", DisplayName: DisplayName{"h", "hour", "hours"},
			Names: []string{"h", "hr", "hour", "hours"}, Conversion: Conversion{Type: Linear, Factor: 1.0 / 3600}},
		{ID: "day", Dimension: "time", DisplayName: DisplayName{"d", "day", "days"},
			Names: []string{"d", "day", "days"}, Conversion: Conversion{Type: Linear, Factor: 1.0 / 86400}},
		{ID: "week", Dimension: "time", DisplayName: DisplayName{"wk", "week", "weeks"},
			Names: []string{"wk", "week", "weeks"}, Conversion: Conversion{Type: Linear, Factor: 1.0 / 604800}},
		{ID: "month_avg", Dimension: "time", DisplayName: DisplayName{"mo", "month", "months"},
			Names: []string{"mo", "month", "months"}, Conversion: Conversion{Type: Linear, Factor: 1.0 / 2629800}},
		{ID: "year_avg", Dimension: "time", DisplayName: DisplayName{"yr", "year", "years"},
			Names: []string{"yr", "year", "years"}, Conversion: Conversion{Type: Linear, Factor: 1.0 / 31557600}},

		{ID: "kelvin", Dimension: "temperature", DisplayName: DisplayName{"K", "kelvin", "kelvin"},
			Names: []string{"K", "kelvin"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "celsius", Dimension: "temperature", DisplayName: DisplayName{"°C", "degree Celsius", "degrees Celsius"},
			Names: []string{"°C", "celsius", "degC"}, Conversion: Conversion{Type: Affine, Offset: 273.15, Factor: 1}},
		{ID: "fahrenheit", Dimension: "temperature", DisplayName: DisplayName{"°F", "degree Fahrenheit", "degrees Fahrenheit"},
			Names: []string{"°F", "fahrenheit", "degF"}, Conversion: Conversion{Type: Affine, Offset: 459.67, Factor: 5.0 / 9}},

		{ID: "ampere", Dimension: "current", DisplayName: DisplayName{"A", "ampere", "amperes"},
			Names: []string{"A", "amp", "ampere", "amperes"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "candela", Dimension: "luminousIntensity", DisplayName: DisplayName{"cd", "candela", "candela"},
			Names: []string{"cd", "candela"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},

		{ID: "degree", Dimension: "cycle", DisplayName: DisplayName{"°", "degree", "degrees"},
			Names: []string{"°", "deg", "degree", "degrees"}, Conversion: Conversion{Type: Linear, Factor: 360}},
		{ID: "cycle", Dimension: "cycle", DisplayName: DisplayName{"cyc", "cycle", "cycles"},
			Names: []string{"cyc", "cycle", "cycles", "revolution", "revolutions", "rev"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "radian", Dimension: "cycle", DisplayName: DisplayName{"rad", "radian", "radians"},
			Names: []string{"rad", "radian", "radians"}, Conversion: Conversion{Type: Linear, Factor: 2 * 3.14159265358979323846}},
		{ID: "arcminute", Dimension: "cycle", DisplayName: DisplayName{"′", "arcminute", "arcminutes"},
			Names: []string{"′", "arcmin", "arcminute", "arcminutes"}, Conversion: Conversion{Type: Linear, Factor: 360 * 60}},
		{ID: "arcsecond", Dimension: "cycle", DisplayName: DisplayName{"″", "arcsecond", "arcseconds"},
			Names: []string{"″", "arcsec", "arcsecond", "arcseconds"}, Conversion: Conversion{Type: Linear, Factor: 360 * 3600}},

		{ID: "beat", Dimension: "beat", DisplayName: DisplayName{"beat", "beat", "beats"},
			Names: []string{"beat", "beats"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "flop", Dimension: "operation", DisplayName: DisplayName{"FLOP", "flop", "flops"},
			Names: []string{"FLOP", "flop", "flops"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "gigaflop", Dimension: "operation", DisplayName: DisplayName{"GFLOP", "gigaflop", "gigaflops"},
			Names: []string{"GFLOP", "gigaflop", "gigaflops"}, Conversion: Conversion{Type: Linear, Factor: 1e-9}},

		{ID: "point", Dimension: "printing", DisplayName: DisplayName{"pt", "point", "points"},
			Names: []string{"pt", "point", "points"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "pica", Dimension: "printing", DisplayName: DisplayName{"pc", "pica", "picas"},
			Names: []string{"pc", "pica", "picas"}, Conversion: Conversion{Type: Linear, Factor: 1.0 / 12}},

		{ID: "bit", Dimension: "data", DisplayName: DisplayName{"b", "bit", "bits"},
			Names: []string{"b", "bit", "bits"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "byte", Dimension: "data", DisplayName: DisplayName{"B", "byte", "bytes"},
			Names: []string{"B", "byte", "bytes"}, Conversion: Conversion{Type: Linear, Factor: 1.0 / 8}},

		{ID: "mps", Dimension: "speed", DisplayName: DisplayName{"m/s", "meter per second", "meters per second"},
			Names: []string{"m/s", "mps"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "kph", Dimension: "speed", DisplayName: DisplayName{"km/h", "kilometer per hour", "kilometers per hour"},
			Names: []string{"km/h", "kph", "kmh"}, Conversion: Conversion{Type: Linear, Factor: 3.6}},
		{ID: "mph", Dimension: "speed", DisplayName: DisplayName{"mph", "mile per hour", "miles per hour"},
			Names: []string{"mph"}, Conversion: Conversion{Type: Linear, Factor: 2.23694}},

		{ID: "mps2", Dimension: "acceleration", DisplayName: DisplayName{"m/s²", "meter per second squared", "meters per second squared"},
			Names: []string{"m/s2", "m/s²"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},

		{ID: "m2", Dimension: "area", DisplayName: DisplayName{"m²", "square meter", "square meters"},
			Names: []string{"m2", "m²", "sqm"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "hectare", Dimension: "area", DisplayName: DisplayName{"ha", "hectare", "hectares"},
			Names: []string{"ha", "hectare", "hectares"}, Conversion: Conversion{Type: Linear, Factor: 1e-4}},
		{ID: "acre", Dimension: "area", DisplayName: DisplayName{"ac", "acre", "acres"},
			Names: []string{"ac", "acre", "acres"}, Conversion: Conversion{Type: Linear, Factor: 2.47105e-4}},

		{ID: "m3", Dimension: "volume", DisplayName: DisplayName{"m³", "cubic meter", "cubic meters"},
			Names: []string{"m3", "m³"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "liter", Dimension: "volume", DisplayName: DisplayName{"L", "liter", "liters"},
			Names: []string{"L", "l", "liter", "liters", "litre", "litres"}, Conversion: Conversion{Type: Linear, Factor: 1000}},

		{ID: "hertz", Dimension: "frequency", DisplayName: DisplayName{"Hz", "hertz", "hertz"},
			Names: []string{"Hz", "hertz"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "bpm", Dimension: "frequency", DisplayName: DisplayName{"bpm", "beat per minute", "beats per minute"},
			Names: []string{"bpm"}, Conversion: Conversion{Type: Linear, Factor: 60}},

		{ID: "newton", Dimension: "force", DisplayName: DisplayName{"N", "newton", "newtons"},
			Names: []string{"N", "newton", "newtons"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "joule", Dimension: "energy", DisplayName: DisplayName{"J", "joule", "joules"},
			Names: []string{"J", "joule", "joules"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "kwh", Dimension: "energy", DisplayName: DisplayName{"kWh", "kilowatt-hour", "kilowatt-hours"},
			Names: []string{"kWh", "kilowatt-hour", "kilowatt-hours"}, Conversion: Conversion{Type: Linear, Factor: 1.0 / 3600000}, CountAsTerms: 2},
		{ID: "watt", Dimension: "power", DisplayName: DisplayName{"W", "watt", "watts"},
			Names: []string{"W", "watt", "watts"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},

		{ID: "bps", Dimension: "dataRate", DisplayName: DisplayName{"bps", "bit per second", "bits per second"},
			Names: []string{"bps"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},

		// Non-metric units; teaspoon and gallon carry a US/UK variant conversion (spec.md §3, §4.3).
		{ID: "foot", Dimension: "length", DisplayName: DisplayName{"ft", "foot", "feet"},
			Names: []string{"ft", "foot", "feet", "'", "′"}, Conversion: Conversion{Type: Linear, Factor: 3.28084}},
		{ID: "inch", Dimension: "length", DisplayName: DisplayName{"in", "inch", "inches"},
			Names: []string{"in", "inch", "inches", "\"", "″"}, Conversion: Conversion{Type: Linear, Factor: 39.3701}},
		{ID: "yard", Dimension: "length", DisplayName: DisplayName{"yd", "yard", "yards"},
			Names: []string{"yd", "yard", "yards"}, Conversion: Conversion{Type: Linear, Factor: 1.09361}},
		{ID: "mile", Dimension: "length", DisplayName: DisplayName{"mi", "mile", "miles"},
			Names: []string{"mi", "mile", "miles"}, Conversion: Conversion{Type: Linear, Factor: 0.000621371}},
		{ID: "pound", Dimension: "mass", DisplayName: DisplayName{"lb", "pound", "pounds"},
			Names: []string{"lb", "pound", "pounds"}, Conversion: Conversion{Type: Linear, Factor: 0.00220462}},
		{ID: "ounce", Dimension: "mass", DisplayName: DisplayName{"oz", "ounce", "ounces"},
			Names: []string{"oz", "ounce", "ounces"}, Conversion: Conversion{Type: Linear, Factor: 0.0352740}},
		{ID: "teaspoon", Dimension: "volume", DisplayName: DisplayName{"tsp", "teaspoon", "teaspoons"},
			Names: []string{"tsp", "teaspoon", "teaspoons"}, Conversion: Conversion{Type: Variant, Variants: map[string]*Conversion{
				"us": {Type: Linear, Factor: 202884},
				"uk": {Type: Linear, Factor: 169070},
			}}},
		{ID: "gallon", Dimension: "volume", DisplayName: DisplayName{"gal", "gallon", "gallons"},
			Names: []string{"gal", "gallon", "gallons"}, Conversion: Conversion{Type: Variant, Variants: map[string]*Conversion{
				"us": {Type: Linear, Factor: 264.172},
				"uk": {Type: Linear, Factor: 219.969},
			}}},

		// Currency: only the base unit (USD) is statically known; every other unambiguous
		// currency is synthesised at unit-resolution time by the currency package from the
		// live rate table (spec.md §4.5, §9 "Currency as a unit"). Ambiguous symbols get
		// their own single-member dimension so they never inter-convert (spec.md §4.5).
		{ID: "usd", Dimension: "currency", DisplayName: DisplayName{"USD", "US dollar", "US dollars"},
			Names: []string{"USD", "usd"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "sym_dollar", Dimension: "currency_symbol_dollar", DisplayName: DisplayName{"$", "$", "$"},
			Names: []string{"$"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "sym_pound", Dimension: "currency_symbol_pound", DisplayName: DisplayName{"£", "£", "£"},
			Names: []string{"£"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
		{ID: "sym_yen", Dimension: "currency_symbol_yen", DisplayName: DisplayName{"¥", "¥", "¥"},
			Names: []string{"¥"}, Conversion: Conversion{Type: Linear, Factor: 1}, IsBaseUnit: true},
	}
	extra = append(extra, expandBinary("data", "bit", "b", "bit", "bits")...)
	extra = append(extra, expandBinary("data", "byte", "B", "byte", "bytes")...)

	return Declaration{Dimensions: dims, SIBases: siBases, ExtraUnits: extra}
}

// expandBinary expands a dimension's base unit over the 6 binary (IEC) prefixes, used
// for bit/byte (spec.md §4.1); bit and byte are not expanded over the SI prefixes.
func expandBinary(dimension, baseID, symbol, singular, plural string) []Unit {
	units := make([]Unit, 0, len(binaryPrefixes))
	for _, p := range binaryPrefixes {
		units = append(units, Unit{
			ID:        p.symbol + baseID,
			Dimension: dimension,
			DisplayName: DisplayName{
				Symbol:   p.symbol + symbol,
				Singular: p.name + singular,
				Plural:   p.name + plural,
			},
			Names:      []string{p.symbol + symbol, p.name + singular, p.name + plural},
			Conversion: Conversion{Type: Linear, Factor: 1 / p.factor},
		})
	}
	return units
}
