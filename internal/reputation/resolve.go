// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reputation

import (
	"strings"

	"github.com/pdiddy/phm-curator/pkg/types"
)

// venueToken maps a substring of a venue name to a publisher. Order matters:
// the first token found in the venue wins.
type venueToken struct {
	tokens    []string
	publisher string
}

var venueTokens = []venueToken{
	{[]string{"ieee"}, "ieee"},
	{[]string{"elsevier", "science direct"}, "elsevier"},
	{[]string{"springer"}, "springer"},
	{[]string{"nature"}, "nature publishing group"},
	{[]string{"wiley"}, "wiley"},
	{[]string{"mdpi"}, "mdpi"},
	{[]string{"hindawi"}, "hindawi"},
}

// doiPrefixes maps DOI registrant prefixes to publishers.
var doiPrefixes = []struct {
	prefix    string
	publisher string
}{
	{"10.1109", "ieee"},
	{"10.1016", "elsevier"},
	{"10.1007", "springer"},
	{"10.1038", "nature publishing group"},
	{"10.3390", "mdpi"},
	{"10.1155", "hindawi"},
}

// Resolver derives a normalized publisher identity for a paper.
type Resolver struct {
	registry *Registry
}

// NewResolver returns a resolver backed by reg.
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{registry: reg}
}

// Resolve returns the lowercase publisher for p, or "" when none can be
// derived. Resolution order: explicit publisher field, venue-name tokens,
// the venue table's publisher reference, then the DOI registrant prefix.
func (r *Resolver) Resolve(p types.Paper) string {
	if pub := Normalize(p.Publisher); pub != "" {
		return pub
	}

	venue := Normalize(p.Venue)
	if venue != "" {
		for _, vt := range venueTokens {
			for _, tok := range vt.tokens {
				if strings.Contains(venue, tok) {
					return vt.publisher
				}
			}
		}
		if r.registry != nil {
			if e, ok := r.registry.Venue(venue); ok && e.Publisher != "" {
				return e.Publisher
			}
		}
	}

	doi := NormalizeDOI(p.DOI)
	for _, dp := range doiPrefixes {
		if strings.HasPrefix(doi, dp.prefix+"/") {
			return dp.publisher
		}
	}
	return ""
}

// publisherAliases are long-form publisher names as bibliographic APIs
// report them.
var publisherAliases = []struct {
	alias     string
	publisher string
}{
	{"institute of electrical and electronics engineers", "ieee"},
	{"multidisciplinary digital publishing institute", "mdpi"},
	{"taylor & francis", "taylor & francis"},
	{"taylor and francis", "taylor & francis"},
}

// CanonicalPublisher maps a publisher name as reported by an API (e.g.
// "Elsevier BV", "Springer Science and Business Media LLC") to the registry
// name. Unrecognized names are returned normalized.
func CanonicalPublisher(name string) string {
	n := Normalize(name)
	if n == "" {
		return ""
	}
	for _, a := range publisherAliases {
		if strings.Contains(n, a.alias) {
			return a.publisher
		}
	}
	for _, vt := range venueTokens {
		for _, tok := range vt.tokens {
			if strings.Contains(n, tok) {
				return vt.publisher
			}
		}
	}
	return n
}

// NormalizeDOI strips resolver URL and "doi:" prefixes and lowercases the DOI.
func NormalizeDOI(doi string) string {
	d := strings.ToLower(strings.TrimSpace(doi))
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		d = strings.TrimPrefix(d, prefix)
	}
	return strings.TrimSpace(d)
}
