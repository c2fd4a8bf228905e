// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locale provides the country and name reference data used to pick
// company locations and to synthesize locale-aware people and prices.
package locale

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed locales.yaml
var localesYAML []byte

// MinPopulation is the population threshold (millions) for countries picked
// as a random company location.
const MinPopulation = 20

// Country is one row of the reference table.
type Country struct {
	Name       string  `yaml:"name"`
	ISO        string  `yaml:"iso"`
	Population float64 `yaml:"population"`
	Currency   string  `yaml:"currency"`
	TLD        string  `yaml:"tld"`
	Language   string  `yaml:"language"`
}

// Names is a pool of first and last names for one language.
type Names struct {
	First []string `yaml:"first"`
	Last  []string `yaml:"last"`
}

// Table is the parsed reference data.
type Table struct {
	Countries []Country        `yaml:"countries"`
	Names     map[string]Names `yaml:"names"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the embedded table. It panics if the embedded data is
// malformed, which is a build defect rather than a runtime condition.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(localesYAML)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// Parse decodes a reference table from YAML.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing locale table: %w", err)
	}
	if len(t.Countries) == 0 {
		return nil, fmt.Errorf("parsing locale table: no countries")
	}
	return &t, nil
}

// Find looks up a country by ISO code or by case-insensitive name match.
// An exact name match wins over a substring match.
func (t *Table) Find(location string) (Country, bool) {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return Country{}, false
	}
	loc = strings.TrimPrefix(loc, "the ")
	for _, c := range t.Countries {
		if strings.ToLower(c.ISO) == loc || strings.ToLower(c.Name) == loc {
			return c, true
		}
	}
	for _, c := range t.Countries {
		if strings.Contains(strings.ToLower(c.Name), loc) || strings.Contains(loc, strings.ToLower(c.Name)) {
			return c, true
		}
	}
	return Country{}, false
}

// Populous returns the countries with at least minMillions inhabitants.
func (t *Table) Populous(minMillions float64) []Country {
	var out []Country
	for _, c := range t.Countries {
		if c.Population >= minMillions {
			out = append(out, c)
		}
	}
	return out
}

// RandomCountry picks a country with at least MinPopulation inhabitants.
func (t *Table) RandomCountry(rng *rand.Rand) Country {
	candidates := t.Populous(MinPopulation)
	if len(candidates) == 0 {
		candidates = t.Countries
	}
	return candidates[rng.IntN(len(candidates))]
}

// NamesFor returns the name pool for a language, if one exists.
func (t *Table) NamesFor(language string) (Names, bool) {
	n, ok := t.Names[language]
	if !ok || len(n.First) == 0 || len(n.Last) == 0 {
		return Names{}, false
	}
	return n, true
}
