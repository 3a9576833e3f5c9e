// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/phm-curator/internal/reputation"
	"github.com/pdiddy/phm-curator/pkg/types"
)

func newTestAssessor() *Assessor {
	return NewAssessor(reputation.Default(), nil, Config{ReferenceYear: 2025})
}

func msspPaper() types.Paper {
	return types.Paper{
		ID:            "W1",
		Venue:         "Mechanical Systems and Signal Processing",
		ImpactFactor:  types.Float(8.4),
		CitationCount: types.Int(150),
		Year:          types.Int(2023),
		Keywords:      []string{"prognostics", "fault diagnosis"},
	}
}

func TestAssessTopJournalPaper(t *testing.T) {
	qa := newTestAssessor().Assess(msspPaper())

	assert.Equal(t, 1.0, qa.VenueScore)
	assert.Equal(t, 1.0, qa.PublisherScore)
	assert.Equal(t, 1.0, qa.ImpactScore)
	assert.Equal(t, 1.0, qa.CitationScore)
	assert.Equal(t, "elsevier", qa.Publisher)
	assert.Equal(t, types.TierExcellent, qa.Tier)
	assert.GreaterOrEqual(t, qa.OverallScore, 0.85)
	assert.Contains(t, qa.Strengths, "Published in Q1 journal")
	assert.Contains(t, qa.Strengths, "Excellent publisher")
	assert.Contains(t, qa.Strengths, "High impact factor")
	assert.Contains(t, qa.Strengths, "High citation count")
}

func TestAssessDefaultsForBareRecord(t *testing.T) {
	qa := newTestAssessor().Assess(types.Paper{Title: "Untitled"})

	assert.Equal(t, unknownVenueScore, qa.VenueScore)
	assert.Equal(t, unknownPublisherScore, qa.PublisherScore)
	assert.Equal(t, 0.2, qa.ImpactScore)
	assert.Equal(t, 0.0, qa.CitationScore)
	assert.Equal(t, 0.0, qa.RelevanceScore)
	assert.InDelta(t, 0.2*0.4+0.5*0.2+0.2*0.15, qa.OverallScore, 1e-9)
	assert.Equal(t, types.TierPoor, qa.Tier)
	assert.Contains(t, qa.Warnings, "Unknown venue quality")
	assert.Contains(t, qa.Warnings, "Low impact factor")
	assert.Contains(t, qa.Warnings, "Low PHM relevance")
	assert.NotNil(t, qa.Strengths)
}

func TestAssessImpactFactorFallsBackToVenue(t *testing.T) {
	p := types.Paper{Venue: "IEEE Transactions on Reliability"}
	qa := newTestAssessor().Assess(p)
	assert.Equal(t, 5.9, qa.ImpactFactor)
	assert.Equal(t, 0.8, qa.ImpactScore)

	p.ImpactFactor = types.Float(9.1)
	qa = newTestAssessor().Assess(p)
	assert.Equal(t, 9.1, qa.ImpactFactor)
	assert.Equal(t, 1.0, qa.ImpactScore)
}

func TestAssessUsesCachedRelevance(t *testing.T) {
	a := newTestAssessor()
	p := msspPaper()

	p.RelevanceScore = types.Float(0.9)
	assert.Equal(t, 0.9, a.Assess(p).RelevanceScore)

	p.RelevanceScore = types.Float(7)
	assert.Equal(t, 1.0, a.Assess(p).RelevanceScore)

	p.RelevanceScore = types.Float(-1)
	assert.Equal(t, 0.0, a.Assess(p).RelevanceScore)
}

func TestAssessQuestionablePublisherWarning(t *testing.T) {
	qa := newTestAssessor().Assess(types.Paper{Publisher: "MDPI"})
	assert.Equal(t, 0.4, qa.PublisherScore)
	assert.Contains(t, qa.Warnings, "Publisher quality concern: Quality varies by journal")
}

func TestAssessCoreVenueStrength(t *testing.T) {
	a := NewAssessor(reputation.Default(), nil, Config{
		ReferenceYear: 2025,
		CoreVenues:    []string{"Mechanical Systems and Signal Processing"},
	})
	assert.Contains(t, a.Assess(msspPaper()).Strengths, "Core PHM venue")
	assert.NotContains(t, newTestAssessor().Assess(msspPaper()).Strengths, "Core PHM venue")
}

func TestAssessIsIdempotent(t *testing.T) {
	a := newTestAssessor()
	p := msspPaper()
	p.Abstract = "Remaining useful life estimation for bearings using deep learning."
	first := a.Assess(p)
	second := a.Assess(p)
	assert.Equal(t, first, second)
	assert.Nil(t, p.Assessment, "assess must not mutate its input")
}

func TestAssessScoresStayInBounds(t *testing.T) {
	a := newTestAssessor()
	papers := []types.Paper{
		{},
		msspPaper(),
		{Venue: "Sensors", Publisher: "mdpi", CitationCount: types.Int(-5), Year: types.Int(3000)},
		{Venue: "Unknown", CitationCount: types.Int(1 << 30), Year: types.Int(1900), RelevanceScore: types.Float(2)},
		{ImpactFactor: types.Float(-3)},
	}
	for _, p := range papers {
		qa := a.Assess(p)
		for _, v := range []float64{qa.VenueScore, qa.PublisherScore, qa.ImpactScore, qa.CitationScore, qa.RelevanceScore, qa.OverallScore} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestSubScoreMappings(t *testing.T) {
	assert.Equal(t, 1.0, VenueScore(types.Q1))
	assert.Equal(t, 0.8, VenueScore(types.Q2))
	assert.Equal(t, 0.6, VenueScore(types.Q3))
	assert.Equal(t, 0.4, VenueScore(types.Q4))
	assert.Equal(t, 0.4, VenueScore("Q9"))

	assert.Equal(t, 0.8, PublisherScore(types.RatingGood))
	assert.Equal(t, 0.1, PublisherScore(types.RatingPoor))
	assert.Equal(t, 0.5, PublisherScore(""))

	impact := []struct {
		in   float64
		want float64
	}{
		{8, 1.0}, {7.99, 0.8}, {5, 0.8}, {3, 0.6}, {1, 0.4}, {0.99, 0.2}, {0, 0.2},
	}
	for _, tt := range impact {
		assert.Equal(t, tt.want, ImpactScore(tt.in), "impact factor %v", tt.in)
	}
}

func TestCitationScore(t *testing.T) {
	tests := []struct {
		name      string
		citations int
		age       int
		want      float64
	}{
		{"new paper", 5, 0, 1.0},
		{"one year", 2, 1, 0.4},
		{"two years", 3, 2, 0.2},
		{"five years", 15, 5, 0.5},
		{"old paper", 25, 10, 0.5},
		{"capped", 500, 10, 1.0},
		{"no citations", 0, 3, 0.0},
		{"future year", 1, -2, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CitationScore(tt.citations, tt.age), 1e-9)
		})
	}
}

func TestTier(t *testing.T) {
	assert.Equal(t, types.TierExcellent, Tier(0.85))
	assert.Equal(t, types.TierGood, Tier(0.8499))
	assert.Equal(t, types.TierGood, Tier(0.70))
	assert.Equal(t, types.TierAcceptable, Tier(0.55))
	assert.Equal(t, types.TierQuestionable, Tier(0.40))
	assert.Equal(t, types.TierPoor, Tier(0.3999))
}

func TestCompleteness(t *testing.T) {
	assert.Equal(t, 0.0, Completeness(types.Paper{Title: "  ", Authors: []string{""}}))

	full := types.Paper{
		Title:    "Bearing prognostics",
		Authors:  []string{"A. Author"},
		Abstract: "Abstract",
		DOI:      "10.1016/x",
		Venue:    "Measurement",
		Year:     types.Int(2024),
		Keywords: []string{"rul"},
	}
	assert.InDelta(t, 1.0, Completeness(full), 1e-9)

	full.Abstract = ""
	full.Keywords = nil
	assert.InDelta(t, 0.75, Completeness(full), 1e-9)
}

func TestIndicators(t *testing.T) {
	a := newTestAssessor()

	ind := a.Indicators(types.Paper{
		Title:         "Gear fault detection",
		Venue:         "Sensors",
		Year:          types.Int(2023),
		CitationCount: types.Int(12),
	}, []string{"MDPI"})
	assert.True(t, ind.IsRecent)
	assert.False(t, ind.HasAbstract)
	assert.Equal(t, 12, ind.Citations)
	assert.True(t, ind.ExcludedPublisher, "sensors resolves to mdpi via the venue table")

	ind = a.Indicators(types.Paper{Year: types.Int(2015), Abstract: "x"}, nil)
	assert.False(t, ind.IsRecent)
	assert.True(t, ind.HasAbstract)
	assert.False(t, ind.ExcludedPublisher)

	assert.False(t, a.Indicators(types.Paper{}, nil).IsRecent)
}
