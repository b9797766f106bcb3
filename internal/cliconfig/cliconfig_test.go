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

package cliconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkcalc/calc/internal/cliconfig"
	"github.com/inkcalc/calc/types"
)

func TestSettingsDefaultsUnrecognisedValues(t *testing.T) {
	cfg := cliconfig.Config{Variant: "bogus", AngleUnit: "bogus"}
	s := cfg.Settings()
	require.Equal(t, types.VariantUS, s.Variant)
	require.Equal(t, types.AngleDegree, s.AngleUnit)
}

func TestSettingsHonorsUK(t *testing.T) {
	cfg := cliconfig.Config{Variant: "uk", AngleUnit: "radian"}
	s := cfg.Settings()
	require.Equal(t, types.VariantUK, s.Variant)
	require.Equal(t, types.AngleRadian, s.AngleUnit)
}

func TestLoadRatesEmptyPath(t *testing.T) {
	cfg := cliconfig.Config{}
	rates, err := cfg.LoadRates()
	require.NoError(t, err)
	require.Nil(t, rates)
}

func TestLoadRatesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"EUR": 0.9, "GBP": 0.78}`), 0644))

	cfg := cliconfig.Config{RateTableFile: path}
	rates, err := cfg.LoadRates()
	require.NoError(t, err)
	require.Equal(t, 0.9, rates["EUR"])
	require.Equal(t, 0.78, rates["GBP"])
}
