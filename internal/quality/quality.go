// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality combines venue, publisher, impact-factor, citation and
// relevance signals into one overall score and a discrete quality tier.
package quality

import (
	"fmt"
	"math"
	"time"

	"github.com/pdiddy/phm-curator/internal/relevance"
	"github.com/pdiddy/phm-curator/internal/reputation"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// Sub-score weights of the overall score.
const (
	venueWeight     = 0.4
	publisherWeight = 0.2
	impactWeight    = 0.15
	citationWeight  = 0.15
	relevanceWeight = 0.1
)

const (
	unknownVenueScore     = 0.2
	unknownPublisherScore = 0.5
)

// Config tunes an Assessor.
type Config struct {
	// ReferenceYear is the year paper ages are measured against. Zero means
	// the current year.
	ReferenceYear int

	// CoreVenues are venue names that earn a "Core PHM venue" strength.
	CoreVenues []string
}

// Assessor scores papers. It holds only read-only state and is safe for
// concurrent use.
type Assessor struct {
	registry      *reputation.Registry
	resolver      *reputation.Resolver
	scorer        *relevance.Scorer
	referenceYear int
	coreVenues    map[string]bool
}

// NewAssessor returns an assessor over reg. A nil scorer uses the default
// PHM categories.
func NewAssessor(reg *reputation.Registry, scorer *relevance.Scorer, cfg Config) *Assessor {
	if reg == nil {
		reg = reputation.Default()
	}
	if scorer == nil {
		scorer = relevance.NewScorer()
	}
	year := cfg.ReferenceYear
	if year == 0 {
		year = time.Now().Year()
	}
	core := make(map[string]bool, len(cfg.CoreVenues))
	for _, v := range cfg.CoreVenues {
		core[reputation.Normalize(v)] = true
	}
	return &Assessor{
		registry:      reg,
		resolver:      reputation.NewResolver(reg),
		scorer:        scorer,
		referenceYear: year,
		coreVenues:    core,
	}
}

// Resolver returns the publisher resolver the assessor uses.
func (a *Assessor) Resolver() *reputation.Resolver { return a.resolver }

// ReferenceYear returns the year ages are computed against.
func (a *Assessor) ReferenceYear() int { return a.referenceYear }

// Assess scores p. It never fails: missing fields fall back to defaults.
func (a *Assessor) Assess(p types.Paper) types.QualityAssessment {
	qa := types.QualityAssessment{
		Warnings:  []string{},
		Strengths: []string{},
	}

	venueName := reputation.Normalize(p.Venue)
	venue, knownVenue := a.registry.Venue(venueName)
	if knownVenue {
		qa.VenueScore = VenueScore(venue.Quartile)
		if venue.Quartile == types.Q1 {
			qa.Strengths = append(qa.Strengths, "Published in Q1 journal")
		}
	} else {
		qa.VenueScore = unknownVenueScore
		qa.Warnings = append(qa.Warnings, "Unknown venue quality")
	}
	if a.coreVenues[venueName] {
		qa.Strengths = append(qa.Strengths, "Core PHM venue")
	}

	qa.Publisher = a.resolver.Resolve(p)
	rating := types.RatingUnknown
	if entry, ok := a.registry.Publisher(qa.Publisher); ok {
		rating = entry.Rating
		switch entry.Rating {
		case types.RatingExcellent:
			qa.Strengths = append(qa.Strengths, "Excellent publisher")
		case types.RatingQuestionable, types.RatingPoor:
			qa.Warnings = append(qa.Warnings, fmt.Sprintf("Publisher quality concern: %s", entry.Note))
		}
	}
	qa.PublisherScore = PublisherScore(rating)

	qa.ImpactFactor = impactFactor(p, venue, knownVenue)
	qa.ImpactScore = ImpactScore(qa.ImpactFactor)
	if qa.ImpactFactor >= 8.0 {
		qa.Strengths = append(qa.Strengths, "High impact factor")
	} else if qa.ImpactFactor < 3.0 {
		qa.Warnings = append(qa.Warnings, "Low impact factor")
	}

	citations := p.Citations()
	qa.CitationScore = CitationScore(citations, a.age(p))
	if citations > 100 {
		qa.Strengths = append(qa.Strengths, "High citation count")
	}

	if p.RelevanceScore != nil {
		qa.RelevanceScore = clamp01(*p.RelevanceScore)
	} else {
		qa.RelevanceScore = a.scorer.Score(p)
	}
	if qa.RelevanceScore >= 0.8 {
		qa.Strengths = append(qa.Strengths, "High PHM relevance")
	} else if qa.RelevanceScore < 0.5 {
		qa.Warnings = append(qa.Warnings, "Low PHM relevance")
	}

	qa.OverallScore = math.Min(1.0,
		qa.VenueScore*venueWeight+
			qa.PublisherScore*publisherWeight+
			qa.ImpactScore*impactWeight+
			qa.CitationScore*citationWeight+
			qa.RelevanceScore*relevanceWeight)
	qa.Tier = Tier(qa.OverallScore)
	return qa
}

// age returns the paper's age in years; a missing year counts as brand new.
func (a *Assessor) age(p types.Paper) int {
	if p.Year == nil || *p.Year <= 0 {
		return 0
	}
	return a.referenceYear - *p.Year
}

// impactFactor prefers the paper's own value and falls back to the venue table.
func impactFactor(p types.Paper, venue reputation.VenueEntry, knownVenue bool) float64 {
	if p.ImpactFactor != nil && *p.ImpactFactor > 0 && !math.IsNaN(*p.ImpactFactor) {
		return *p.ImpactFactor
	}
	if knownVenue {
		return venue.ImpactFactor
	}
	return 0
}

// VenueScore maps a quartile to a score; unrecognized quartiles score as Q4.
func VenueScore(q types.Quartile) float64 {
	switch q {
	case types.Q1:
		return 1.0
	case types.Q2:
		return 0.8
	case types.Q3:
		return 0.6
	default:
		return 0.4
	}
}

// PublisherScore maps a publisher rating to a score.
func PublisherScore(r types.Rating) float64 {
	switch r {
	case types.RatingExcellent:
		return 1.0
	case types.RatingGood:
		return 0.8
	case types.RatingQuestionable:
		return 0.4
	case types.RatingPoor:
		return 0.1
	default:
		return unknownPublisherScore
	}
}

// ImpactScore maps an impact factor to a score.
func ImpactScore(impactFactor float64) float64 {
	switch {
	case impactFactor >= 8.0:
		return 1.0
	case impactFactor >= 5.0:
		return 0.8
	case impactFactor >= 3.0:
		return 0.6
	case impactFactor >= 1.0:
		return 0.4
	default:
		return 0.2
	}
}

// ExpectedCitations is the citation baseline for a paper of the given age.
func ExpectedCitations(age int) int {
	switch {
	case age <= 1:
		return 5
	case age <= 2:
		return 15
	case age <= 5:
		return 30
	default:
		return 50
	}
}

// CitationScore is citations relative to the age baseline, capped at 1.
func CitationScore(citations, age int) float64 {
	if citations <= 0 {
		return 0
	}
	return math.Min(1.0, float64(citations)/float64(ExpectedCitations(age)))
}

// Tier maps an overall score to a quality tier.
func Tier(score float64) types.QualityTier {
	switch {
	case score >= 0.85:
		return types.TierExcellent
	case score >= 0.70:
		return types.TierGood
	case score >= 0.55:
		return types.TierAcceptable
	case score >= 0.40:
		return types.TierQuestionable
	default:
		return types.TierPoor
	}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
