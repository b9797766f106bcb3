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

// Package cliconfig loads the on-disk settings shared by cmd/cli and cmd/repl: default
// unit variant, default angle unit, and an optional rate-table path (SPEC_FULL.md
// AMBIENT STACK "Configuration"). This is config for the command-line shell, not the
// language core (spec.md §1 frames display settings as an external collaborator);
// calc.Config itself takes plain values, never a file path.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/inkcalc/calc/types"
)

// Config is the on-disk shape of ~/.config/inkcalc/config.yaml (or the platform
// equivalent XDG resolves to).
type Config struct {
	Variant       string `yaml:"variant"`        // "us" or "uk"; default "us"
	AngleUnit     string `yaml:"angleUnit"`      // "degree" or "radian"; default "degree"
	RateTableFile string `yaml:"rateTableFile"`  // optional path to a {"code": rate} JSON file
}

// DefaultConfigYaml is written the first time a host has no config file, following the
// teacher's "write a default config on first run" idiom (app.LoadOrCreateConfig).
const DefaultConfigYaml = `variant: us
angleUnit: degree
rateTableFile: ""
`

// Path returns the config file path within the XDG config directory.
func Path() (string, error) {
	return xdg.ConfigFile(filepath.Join("inkcalc", "config.yaml"))
}

// LoadOrCreate loads the config file if present, writing and returning the default
// config otherwise.
func LoadOrCreate() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := saveDefault(path); err != nil {
			return Config{}, fmt.Errorf("cliconfig: writing default config to %q: %w", path, err)
		}
		data = []byte(DefaultConfigYaml)
	} else if err != nil {
		return Config{}, fmt.Errorf("cliconfig: loading config from %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cliconfig: parsing %q: %w", path, err)
	}
	if cfg.Variant == "" {
		cfg.Variant = "us"
	}
	if cfg.AngleUnit == "" {
		cfg.AngleUnit = "degree"
	}
	return cfg, nil
}

func saveDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}
	return os.WriteFile(path, []byte(DefaultConfigYaml), 0644)
}

// Settings translates Config into the engine's types.Settings, defaulting unrecognised
// values rather than failing, since a stale or hand-edited config file shouldn't prevent
// the calculator from starting.
func (c Config) Settings() types.Settings {
	s := types.DefaultSettings()
	switch c.Variant {
	case "uk":
		s.Variant = types.VariantUK
	default:
		s.Variant = types.VariantUS
	}
	switch c.AngleUnit {
	case "radian":
		s.AngleUnit = types.AngleRadian
	default:
		s.AngleUnit = types.AngleDegree
	}
	return s
}

// LoadRates reads an optional {"code": rate} JSON rate table from c.RateTableFile. A
// blank path returns a nil (empty) table, matching calc.Config.Rates's own "nil means
// every lookup fails" default.
func (c Config) LoadRates() (map[string]float64, error) {
	if c.RateTableFile == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(c.RateTableFile)
	if err != nil {
		return nil, fmt.Errorf("cliconfig: reading rate table %q: %w", c.RateTableFile, err)
	}
	var rates map[string]float64
	if err := yaml.Unmarshal(raw, &rates); err != nil {
		return nil, fmt.Errorf("cliconfig: parsing rate table %q: %w", c.RateTableFile, err)
	}
	return rates, nil
}
