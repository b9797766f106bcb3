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
	"embed"
	"encoding/json"
	"fmt"
)

// data holds the hand-maintained currency and timezone catalogues (spec.md §6):
// content that is not derived from a formula (unlike the SI-prefixed physical units,
// which DefaultDeclaration/Build materialise programmatically) so it is checked in as
// flat JSON and embedded, following the teacher's internal/embeddata pattern of
// go:embed-ing its (FHIR) reference data.
//
//go:embed data/currencies.json data/timezones.json
var data embed.FS

// LoadDefault assembles the shipped catalogue: the programmatically-generated physical
// units and dimensions (DefaultDeclaration/Build) merged with the embedded currency and
// timezone data, then validated by Load. This is what production callers use; Load
// itself remains the general entry point for a host supplying its own catalogue JSON
// (spec.md §6's external interface).
func LoadDefault() (*Database, error) {
	built, err := Build(DefaultDeclaration())
	if err != nil {
		return nil, err
	}
	var partial struct {
		Dimensions []Dimension `json:"dimensions"`
		Units      []Unit      `json:"units"`
	}
	if err := json.Unmarshal(built, &partial); err != nil {
		return nil, fmt.Errorf("unitdb: internal error unmarshaling built catalogue: %w", err)
	}

	currenciesRaw, err := data.ReadFile("data/currencies.json")
	if err != nil {
		return nil, fmt.Errorf("unitdb: reading embedded currencies: %w", err)
	}
	var currencies CurrencyDoc
	if err := json.Unmarshal(currenciesRaw, &currencies); err != nil {
		return nil, fmt.Errorf("unitdb: invalid embedded currencies.json: %w", err)
	}

	timezonesRaw, err := data.ReadFile("data/timezones.json")
	if err != nil {
		return nil, fmt.Errorf("unitdb: reading embedded timezones: %w", err)
	}
	var timezones []TimezoneEntry
	if err := json.Unmarshal(timezonesRaw, &timezones); err != nil {
		return nil, fmt.Errorf("unitdb: invalid embedded timezones.json: %w", err)
	}

	merged, err := json.Marshal(struct {
		Dimensions []Dimension     `json:"dimensions"`
		Units      []Unit          `json:"units"`
		Currencies CurrencyDoc     `json:"currencies"`
		Timezones  []TimezoneEntry `json:"timezones"`
	}{partial.Dimensions, partial.Units, currencies, timezones})
	if err != nil {
		return nil, fmt.Errorf("unitdb: internal error merging catalogue: %w", err)
	}
	return Load(merged)
}
