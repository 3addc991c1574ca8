// Package geo resolves the country -> state -> city reference lists used by address fields
// and enforces the clearing rules between them. Values are display names; the same name
// under two parents is not disambiguated.
package geo

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/locations.yaml
var defaultDataset []byte

var ErrEmptyDataset = errors.New("geo dataset has no countries")

type dataset struct {
	Countries []struct {
		Name   string `yaml:"name"`
		States []struct {
			Name   string   `yaml:"name"`
			Cities []string `yaml:"cities"`
		} `yaml:"states"`
	} `yaml:"countries"`
}

type Resolver struct {
	countries []string
	states    map[string][]string
	cities    map[string]map[string][]string
}

// NewResolver loads the embedded dataset.
func NewResolver() (*Resolver, error) {
	return Parse(defaultDataset)
}

// Parse builds a Resolver from a YAML document shaped like data/locations.yaml.
func Parse(raw []byte) (*Resolver, error) {
	var ds dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse geo dataset: %w", err)
	}
	if len(ds.Countries) == 0 {
		return nil, ErrEmptyDataset
	}

	r := &Resolver{
		states: make(map[string][]string, len(ds.Countries)),
		cities: make(map[string]map[string][]string, len(ds.Countries)),
	}
	for _, c := range ds.Countries {
		r.countries = append(r.countries, c.Name)
		r.cities[c.Name] = make(map[string][]string, len(c.States))
		for _, s := range c.States {
			r.states[c.Name] = append(r.states[c.Name], s.Name)
			cities := append([]string(nil), s.Cities...)
			sort.Strings(cities)
			r.cities[c.Name][s.Name] = cities
		}
		sort.Strings(r.states[c.Name])
	}
	sort.Strings(r.countries)
	return r, nil
}

func (r *Resolver) Countries() []string {
	return append([]string(nil), r.countries...)
}

// States returns nil for an unknown country.
func (r *Resolver) States(country string) []string {
	return append([]string(nil), r.states[country]...)
}

func (r *Resolver) Cities(country, state string) []string {
	byState, ok := r.cities[country]
	if !ok {
		return nil
	}
	return append([]string(nil), byState[state]...)
}
