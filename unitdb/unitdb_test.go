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

package unitdb_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkcalc/calc/internal/testhelpers"
	"github.com/inkcalc/calc/unitdb"
)

func TestLoadDefault(t *testing.T) {
	db, err := unitdb.LoadDefault()
	require.NoError(t, err)

	meter, ok := db.UnitByName("meter")
	require.True(t, ok)
	require.Equal(t, "length", meter.Dimension)

	_, ok = db.Dimension("length")
	require.True(t, ok)

	usd, ok := db.Currencies().ByCode("USD")
	require.True(t, ok)
	require.Equal(t, "USD", usd.Code)

	_, ok = db.Timezones().Resolve("America/New_York")
	require.True(t, ok)
}

const customCatalogue = `{
  "dimensions": [
    {"id": "length", "name": "Length", "baseUnit": "meter"}
  ],
  "units": [
    {"id": "meter", "dimension": "length", "displayName": {"symbol": "m", "singular": "meter", "plural": "meters"}, "names": ["meter", "m"], "conversion": {"type": "linear", "factor": 1}, "isBaseUnit": true},
    {"id": "foot", "dimension": "length", "displayName": {"symbol": "ft", "singular": "foot", "plural": "feet"}, "names": ["foot", "ft"], "conversion": {"type": "linear", "factor": 3.28084}}
  ],
  "currencies": {"unambiguous": [], "ambiguous": []},
  "timezones": []
}`

// TestLoadCustomCatalogue exercises Load's raw-JSON entry point against a small
// on-disk catalogue, the way a host supplying its own unit set (spec.md §6's external
// interface) would, writing the fixture via testhelpers the way the teacher's parser
// tests build ad hoc CQL library fixtures on disk.
func TestLoadCustomCatalogue(t *testing.T) {
	path := testhelpers.WriteJSON(t, "catalogue.json", customCatalogue)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	db, err := unitdb.Load(raw)
	require.NoError(t, err)

	foot, ok := db.UnitByName("foot")
	require.True(t, ok)
	require.Equal(t, "length", foot.Dimension)

	_, ok = db.UnitByName("kilogram")
	require.False(t, ok)
}

const collidingCatalogue = `{
  "dimensions": [
    {"id": "length", "name": "Length", "baseUnit": "meter"}
  ],
  "units": [
    {"id": "meter", "dimension": "length", "displayName": {"symbol": "m", "singular": "meter", "plural": "meters"}, "names": ["meter", "x"], "conversion": {"type": "linear", "factor": 1}, "isBaseUnit": true},
    {"id": "foot", "dimension": "length", "displayName": {"symbol": "ft", "singular": "foot", "plural": "feet"}, "names": ["foot", "x"], "conversion": {"type": "linear", "factor": 3.28084}}
  ],
  "currencies": {"unambiguous": [], "ambiguous": []},
  "timezones": []
}`

func TestLoadRejectsNameCollision(t *testing.T) {
	_, err := unitdb.Load([]byte(collidingCatalogue))
	require.Error(t, err)
}
