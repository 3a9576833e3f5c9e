// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reputation holds the publisher and venue reputation tables and
// resolves a paper's publisher identity against them.
//
// A Registry is built once at startup and is read-only afterwards, so a
// single value can be shared by every assessor and worker goroutine.
package reputation

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/phm-curator/pkg/types"
)

// PublisherEntry describes a publisher's reputation.
type PublisherEntry struct {
	Rating types.Rating `yaml:"rating"`
	Type   string       `yaml:"type"`
	Note   string       `yaml:"note,omitempty"`
}

// VenueEntry describes a journal or conference.
type VenueEntry struct {
	ImpactFactor    float64        `yaml:"impact_factor"`
	Quartile        types.Quartile `yaml:"quartile"`
	Category        string         `yaml:"category"`
	DomainRelevance float64        `yaml:"phm_relevance"`
	Publisher       string         `yaml:"publisher"`
}

// Registry maps normalized publisher and venue names to reputation entries.
type Registry struct {
	publishers map[string]PublisherEntry
	venues     map[string]VenueEntry
}

// NewRegistry builds a registry from the given tables. Keys are normalized
// and the maps are copied, so later changes by the caller are not observed.
func NewRegistry(publishers map[string]PublisherEntry, venues map[string]VenueEntry) *Registry {
	r := &Registry{
		publishers: make(map[string]PublisherEntry, len(publishers)),
		venues:     make(map[string]VenueEntry, len(venues)),
	}
	for name, e := range publishers {
		r.publishers[Normalize(name)] = e
	}
	for name, e := range venues {
		e.Publisher = Normalize(e.Publisher)
		e.DomainRelevance = clamp01(e.DomainRelevance)
		if e.ImpactFactor < 0 {
			e.ImpactFactor = 0
		}
		r.venues[Normalize(name)] = e
	}
	return r
}

// Default returns a registry holding the built-in tables.
func Default() *Registry {
	return NewRegistry(builtinPublishers, builtinVenues)
}

// Publisher looks up a publisher by name.
func (r *Registry) Publisher(name string) (PublisherEntry, bool) {
	if name == "" {
		return PublisherEntry{}, false
	}
	e, ok := r.publishers[Normalize(name)]
	return e, ok
}

// Venue looks up a venue by exact normalized name.
func (r *Registry) Venue(name string) (VenueEntry, bool) {
	if name == "" {
		return VenueEntry{}, false
	}
	e, ok := r.venues[Normalize(name)]
	return e, ok
}

// VenueNames returns the tabulated venue names in sorted order.
func (r *Registry) VenueNames() []string {
	names := make([]string, 0, len(r.venues))
	for n := range r.venues {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Overrides is the on-disk form of extra registry entries.
type Overrides struct {
	Publishers map[string]PublisherEntry `yaml:"publishers"`
	Venues     map[string]VenueEntry     `yaml:"venues"`
}

// With returns a new registry with the overrides layered on top of r.
// r itself is left unchanged.
func (r *Registry) With(o Overrides) *Registry {
	pubs := make(map[string]PublisherEntry, len(r.publishers)+len(o.Publishers))
	for k, v := range r.publishers {
		pubs[k] = v
	}
	for k, v := range o.Publishers {
		pubs[k] = v
	}
	venues := make(map[string]VenueEntry, len(r.venues)+len(o.Venues))
	for k, v := range r.venues {
		venues[k] = v
	}
	for k, v := range o.Venues {
		venues[k] = v
	}
	return NewRegistry(pubs, venues)
}

// LoadOverrides reads a YAML overrides file.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("reading registry file: %w", err)
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Overrides{}, fmt.Errorf("parsing registry file %s: %w", path, err)
	}
	return o, nil
}

// Normalize lowercases a name, trims it, and collapses inner whitespace.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
