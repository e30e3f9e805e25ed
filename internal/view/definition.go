// Package view materializes declarative view definitions: a filter, a set
// of computed formulas, and one or more sorted, grouped projections over
// the note store.
package view

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is a declarative view document.
type Definition struct {
	Name string `yaml:"name"`

	// Filter is the top-level filter every view inherits.
	Filter string `yaml:"filter"`

	// Properties are note properties projected into each record.
	Properties []string `yaml:"properties"`

	// Formulas are named computed expressions evaluated per record.
	Formulas map[string]string `yaml:"formulas"`

	Views []Spec `yaml:"views"`
}

// Spec is one projection within a definition.
type Spec struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`

	// Filter is AND-combined with the definition's top-level filter.
	Filter string `yaml:"filter"`

	// Order lists sort keys, most significant first. A "-" prefix sorts
	// that key descending.
	Order []string `yaml:"order"`

	GroupBy string `yaml:"group_by"`
}

// Load parses a YAML view definition.
func Load(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse view definition as YAML: %w", err)
	}
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("view definition has no name")
	}
	if len(def.Views) == 0 {
		def.Views = []Spec{{Kind: "table"}}
	}
	for i := range def.Views {
		if def.Views[i].Kind == "" {
			def.Views[i].Kind = "table"
		}
		if def.Views[i].Name == "" {
			def.Views[i].Name = def.Name
		}
	}
	return &def, nil
}
