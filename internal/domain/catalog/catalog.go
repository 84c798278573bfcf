// Package catalog defines the competence catalog and its causal graph.
//
// A Catalog is immutable once built. The forward relation map (cause to
// effects) is the only hand-written direction; the inverse map is derived
// at construction so both directions always agree.
package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Kind tags a competence as explanatory (cause) or dependent (effect).
type Kind string

// Competence kinds.
const (
	KindCause  Kind = "cause"
	KindEffect Kind = "effect"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindCause || k == KindEffect
}

// Competence is one catalog entry.
type Competence struct {
	Key         string `yaml:"key" json:"key"`
	Label       string `yaml:"label" json:"label"`
	Icon        string `yaml:"icon" json:"icon"`
	Kind        Kind   `yaml:"kind" json:"kind"`
	Description string `yaml:"description" json:"description"`
}

// Relations maps a cause key to the effect keys it influences.
type Relations map[string][]string

// Catalog is the read-only competence catalog plus derived causal lookups.
type Catalog struct {
	competences []Competence
	index       map[string]int
	children    map[string][]string
	parents     map[string][]string
}

// New validates defs and relations and builds a Catalog. Definition order
// becomes the canonical axis order.
func New(defs []Competence, relations Relations) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no competences", ErrInvalidCatalog)
	}

	c := &Catalog{
		competences: make([]Competence, len(defs)),
		index:       make(map[string]int, len(defs)),
		children:    make(map[string][]string, len(relations)),
		parents:     make(map[string][]string),
	}
	for i, d := range defs {
		d.Key = strings.TrimSpace(d.Key)
		if d.Key == "" {
			return nil, fmt.Errorf("%w: competence #%d has an empty key", ErrInvalidCatalog, i)
		}
		if _, dup := c.index[d.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate competence %q", ErrInvalidCatalog, d.Key)
		}
		if !d.Kind.Valid() {
			return nil, fmt.Errorf("%w: competence %q has unknown kind %q", ErrInvalidCatalog, d.Key, d.Kind)
		}
		if d.Label == "" {
			d.Label = d.Key
		}
		c.competences[i] = d
		c.index[d.Key] = i
	}

	for cause, effects := range relations {
		src, ok := c.Lookup(cause)
		if !ok {
			return nil, fmt.Errorf("%w: relation source %q is not in the catalog", ErrInvalidCatalog, cause)
		}
		if src.Kind != KindCause {
			return nil, fmt.Errorf("%w: relation source %q is not a cause", ErrInvalidCatalog, cause)
		}
		seen := make(map[string]struct{}, len(effects))
		out := make([]string, 0, len(effects))
		for _, effect := range effects {
			dst, ok := c.Lookup(effect)
			if !ok {
				return nil, fmt.Errorf("%w: relation target %q is not in the catalog", ErrInvalidCatalog, effect)
			}
			if dst.Kind != KindEffect {
				return nil, fmt.Errorf("%w: relation target %q is not an effect", ErrInvalidCatalog, effect)
			}
			if _, dup := seen[effect]; dup {
				continue
			}
			seen[effect] = struct{}{}
			out = append(out, effect)
		}
		if len(out) > 0 {
			c.children[cause] = out
		}
	}

	// Derive parents by inversion, walking causes in catalog order so the
	// result does not depend on map iteration.
	for _, comp := range c.competences {
		for _, effect := range c.children[comp.Key] {
			c.parents[effect] = append(c.parents[effect], comp.Key)
		}
	}

	return c, nil
}

// Lookup returns the competence for key.
func (c *Catalog) Lookup(key string) (Competence, bool) {
	i, ok := c.index[key]
	if !ok {
		return Competence{}, false
	}
	return c.competences[i], true
}

// Get is Lookup for callers that report unknown keys as errors.
func (c *Catalog) Get(key string) (Competence, error) {
	comp, ok := c.Lookup(key)
	if !ok {
		return Competence{}, fmt.Errorf("%w: %q", ErrUnknown, key)
	}
	return comp, nil
}

// Competences returns the catalog entries in axis order.
func (c *Catalog) Competences() []Competence {
	return slices.Clone(c.competences)
}

// Keys returns competence keys in axis order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.competences))
	for i, comp := range c.competences {
		keys[i] = comp.Key
	}
	return keys
}

// Len returns the number of competences.
func (c *Catalog) Len() int {
	return len(c.competences)
}

// ChildrenOf returns the effects a cause influences. Effects and unknown
// keys yield an empty slice.
func (c *Catalog) ChildrenOf(causeKey string) []string {
	return cloneOrEmpty(c.children[causeKey])
}

// ParentsOf returns the causes influencing an effect. Causes and unknown
// keys yield an empty slice.
func (c *Catalog) ParentsOf(effectKey string) []string {
	return cloneOrEmpty(c.parents[effectKey])
}

// Relations returns a copy of the forward relation map.
func (c *Catalog) Relations() Relations {
	out := make(Relations, len(c.children))
	for k, v := range c.children {
		out[k] = slices.Clone(v)
	}
	return out
}

func cloneOrEmpty(s []string) []string {
	if len(s) == 0 {
		return []string{}
	}
	return slices.Clone(s)
}
