// Package country resolves free-text country names to ISO 3166-1 codes.
package country

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// usaAlias is the abbreviation the source data uses for the United States.
// The ISO short name is "United States", so a name lookup alone misses it.
const usaAlias = "USA"

//go:embed countries.yaml
var countriesYAML []byte

// Sentinel kinds for registry errors.
var (
	ErrEmptyRegistry = errors.New("country registry is empty")
	ErrInvalidEntry  = errors.New("invalid country entry")
)

// Country is one ISO 3166-1 entry.
type Country struct {
	Alpha2 string `yaml:"alpha_2" json:"alpha_2"`
	Alpha3 string `yaml:"alpha_3" json:"alpha_3"`
	Name   string `yaml:"name" json:"name"`
}

type document struct {
	Countries []Country `yaml:"countries"`
}

// Registry maps country names to codes. It is immutable once built and
// safe for concurrent use.
type Registry struct {
	byName   map[string]Country
	byAlpha3 map[string]Country
}

// Parse builds a Registry from a YAML document with a top-level
// "countries" list.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse country registry: %w", err)
	}
	if len(doc.Countries) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		byName:   make(map[string]Country, len(doc.Countries)),
		byAlpha3: make(map[string]Country, len(doc.Countries)),
	}
	for i, c := range doc.Countries {
		if len(c.Alpha3) != 3 || strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: entry %d (%q)", ErrInvalidEntry, i, c.Name)
		}
		key := normalize(c.Name)
		if _, dup := r.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidEntry, c.Name)
		}
		if _, dup := r.byAlpha3[c.Alpha3]; dup {
			return nil, fmt.Errorf("%w: duplicate code %q", ErrInvalidEntry, c.Alpha3)
		}
		r.byName[key] = c
		r.byAlpha3[c.Alpha3] = c
	}
	return r, nil
}

var loadDefault = sync.OnceValues(func() (*Registry, error) {
	return Parse(countriesYAML)
})

// Default returns the registry built from the embedded ISO 3166-1 table.
func Default() (*Registry, error) {
	return loadDefault()
}

// Resolve returns the alpha-3 code for a country name. Matching is on the
// ISO short name, case-folded and trimmed. The literal "USA" resolves to
// "USA" when no registry entry matches it.
func (r *Registry) Resolve(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}
	if c, ok := r.byName[normalize(trimmed)]; ok {
		return c.Alpha3, true
	}
	if trimmed == usaAlias {
		return usaAlias, true
	}
	return "", false
}

// Lookup returns the entry for an alpha-3 code.
func (r *Registry) Lookup(alpha3 string) (Country, bool) {
	c, ok := r.byAlpha3[strings.ToUpper(strings.TrimSpace(alpha3))]
	return c, ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.byAlpha3)
}

// normalize folds case with Unicode rules so names like "Åland Islands"
// and "ÅLAND ISLANDS" meet. A Caser is stateful, so one is built per call.
func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
