// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the phm-curator pipeline:
// paper records, quality assessments, filter criteria, and configuration.
// See DESIGN.md for how each structure flows through the filter stages.
package types

import "strings"

// VenueType classifies where a paper appeared.
type VenueType string

const (
	VenueJournal    VenueType = "journal"
	VenueConference VenueType = "conference"
	VenuePreprint   VenueType = "preprint"
	VenueArxiv      VenueType = "arxiv"
)

// Paper holds the metadata of a candidate paper as delivered by a source or
// an input file, plus the blocks derived by the filter stages.
//
// Optional numeric fields are pointers so that "absent" and "zero" stay
// distinct; every consumer falls back to a documented default when nil.
type Paper struct {
	// ID is the source identifier (DOI, arXiv ID, OpenAlex work ID, ...).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Keywords are author or source supplied keywords.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Venue is the journal or conference name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// VenueType is journal, conference, preprint, or arxiv.
	VenueType VenueType `json:"venue_type,omitempty" yaml:"venue_type,omitempty"`

	// Publisher is the explicit publisher name, when the source provides one.
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	Year          *int     `json:"year,omitempty" yaml:"year,omitempty"`
	CitationCount *int     `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`
	ImpactFactor  *float64 `json:"impact_factor,omitempty" yaml:"impact_factor,omitempty"`

	DOI        string `json:"doi,omitempty" yaml:"doi,omitempty"`
	OpenAccess bool   `json:"open_access" yaml:"open_access"`

	// RelevanceScore caches a previously computed PHM relevance score.
	RelevanceScore *float64 `json:"phm_relevance_score,omitempty" yaml:"phm_relevance_score,omitempty"`

	// Source identifies which backend produced the record (e.g. "openalex").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Assessment, Indicators and FilterScore are attached to papers that
	// pass the filter.
	Assessment  *QualityAssessment `json:"quality_assessment,omitempty" yaml:"quality_assessment,omitempty"`
	Indicators  *QualityIndicators `json:"quality_indicators,omitempty" yaml:"quality_indicators,omitempty"`
	FilterScore *float64           `json:"filter_score,omitempty" yaml:"filter_score,omitempty"`

	// Extra holds caller-supplied fields this package does not model. They
	// are carried through untouched and re-emitted on output.
	Extra map[string]any `json:"-" yaml:"-"`
}

// Citations returns the citation count, or 0 when unknown.
func (p Paper) Citations() int {
	if p.CitationCount == nil || *p.CitationCount < 0 {
		return 0
	}
	return *p.CitationCount
}

// IsPreprint reports whether the paper is a preprint or arXiv posting.
func (p Paper) IsPreprint() bool {
	switch VenueType(strings.ToLower(string(p.VenueType))) {
	case VenuePreprint, VenueArxiv:
		return true
	}
	return false
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
