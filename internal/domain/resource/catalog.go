// Package resource defines the tradable resource types mined from extraction sites.
// This package is PURE and must NOT import any infrastructure packages.
package resource

import (
	"math"
	"strconv"
	"strings"
)

var firstAdjectives = []string{
	"Stygian", "Crimson", "Azure", "Veridian", "Golden", "Shadow", "Sunken", "Void", "Glimmering", "Whispering",
}

var secondNouns = []string{
	"Shale", "Ore", "Crystal", "Geode", "Nugget", "Vein", "Dust", "Fragment", "Essence", "Heartstone",
}

var baseColors = []string{
	"#4a4a4a", "#e53935", "#1e88e5", "#43a047", "#fdd835", "#212121", "#00838f", "#673ab7", "#ffee58", "#f48fb1",
}

// Type is an immutable resource definition. Value grows with the catalog index.
type Type struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Color string  `json:"color" yaml:"color"`
}

// Catalog is the ordered list of resource types. Index i is assigned to site i.
type Catalog []Type

// Generate builds a catalog of count resource types.
// Names cycle through the word lists; a numeric suffix keeps ids unique after the first lap.
func Generate(count int) Catalog {
	catalog := make(Catalog, 0, count)
	for i := 0; i < count; i++ {
		adj := i % len(firstAdjectives)
		noun := i % len(secondNouns)

		name := firstAdjectives[adj] + " " + secondNouns[noun]
		if i >= len(firstAdjectives) {
			name += " " + strconv.Itoa(i/len(firstAdjectives)+1)
		}

		catalog = append(catalog, Type{
			ID:    strings.ToLower(strings.ReplaceAll(name, " ", "-")),
			Name:  name,
			Value: math.Floor(10 * math.Pow(2.5, float64(i))),
			Color: baseColors[adj],
		})
	}
	return catalog
}

// At returns the type for index i, clamped to the last entry.
// An empty catalog yields the zero Type.
func (c Catalog) At(i int) Type {
	if len(c) == 0 {
		return Type{}
	}
	if i < 0 {
		i = 0
	}
	if i >= len(c) {
		i = len(c) - 1
	}
	return c[i]
}

// First returns the first resource type, or the zero Type when empty.
func (c Catalog) First() Type {
	return c.At(0)
}

// ByID looks up a resource type by id.
func (c Catalog) ByID(id string) (Type, bool) {
	for _, t := range c {
		if t.ID == id {
			return t, true
		}
	}
	return Type{}, false
}

// Value returns the display value of a resource, 0 for unknown ids.
func (c Catalog) Value(id string) float64 {
	t, ok := c.ByID(id)
	if !ok {
		return 0
	}
	return t.Value
}

// Clone returns an independent copy of the catalog.
func (c Catalog) Clone() Catalog {
	if c == nil {
		return nil
	}
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}
