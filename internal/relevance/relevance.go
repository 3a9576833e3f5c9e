// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance estimates how closely a paper relates to prognostics and
// health management from weighted keyword-category matches over its text.
package relevance

import (
	"math"
	"strings"

	"github.com/pdiddy/phm-curator/pkg/types"
)

// Citation boost constants. They are empirical and tunable.
var (
	BoostMinCitations = 20
	BoostMinScore     = 0.3
	BoostFactor       = 1.2
)

// Category is a weighted keyword list.
type Category struct {
	Name     string
	Weight   float64
	Keywords []string
}

// DefaultCategories returns the PHM keyword categories.
func DefaultCategories() []Category {
	return []Category{
		{
			Name:   "core",
			Weight: 0.4,
			Keywords: []string{
				"prognostics", "health management", "phm", "condition monitoring",
				"predictive maintenance", "fault diagnosis", "anomaly detection",
				"failure prediction", "reliability engineering", "remaining useful life",
			},
		},
		{
			Name:   "technical",
			Weight: 0.3,
			Keywords: []string{
				"rul", "degradation modeling", "health assessment", "system reliability",
				"maintenance optimization", "sensor fusion", "digital twin",
				"signal processing", "pattern recognition", "vibration analysis",
			},
		},
		{
			Name:   "ml_methods",
			Weight: 0.2,
			Keywords: []string{
				"machine learning", "deep learning", "neural networks", "cnn", "rnn", "lstm",
				"support vector machine", "random forest", "ensemble learning",
				"transfer learning", "unsupervised learning", "classification",
			},
		},
		{
			Name:   "applications",
			Weight: 0.1,
			Keywords: []string{
				"bearing", "gearbox", "turbine", "motor", "pump", "valve", "battery",
				"aircraft", "automotive", "wind energy", "manufacturing", "industrial",
			},
		},
	}
}

// Scorer computes PHM relevance scores. A Scorer is immutable and safe for
// concurrent use.
type Scorer struct {
	categories []Category
}

// NewScorer returns a scorer over the given categories, or the defaults when
// none are given. Keywords are lowercased and deduplicated per category.
func NewScorer(categories ...Category) *Scorer {
	if len(categories) == 0 {
		categories = DefaultCategories()
	}
	s := &Scorer{categories: make([]Category, 0, len(categories))}
	for _, c := range categories {
		seen := make(map[string]bool, len(c.Keywords))
		kws := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			kws = append(kws, kw)
		}
		s.categories = append(s.categories, Category{Name: c.Name, Weight: c.Weight, Keywords: kws})
	}
	return s
}

// CategoryMatch reports the keywords of one category found in a paper.
type CategoryMatch struct {
	Name    string
	Weight  float64
	Score   float64
	Matched []string
}

// Breakdown explains a relevance score.
type Breakdown struct {
	Categories []CategoryMatch
	BaseScore  float64
	Boosted    bool
	Score      float64
}

// Score returns the relevance of p in [0,1].
func (s *Scorer) Score(p types.Paper) float64 {
	return s.Explain(p).Score
}

// Explain returns the per-category matches behind Score.
func (s *Scorer) Explain(p types.Paper) Breakdown {
	text := textBlob(p)
	if strings.TrimSpace(text) == "" {
		return Breakdown{}
	}

	var b Breakdown
	for _, c := range s.categories {
		m := CategoryMatch{Name: c.Name, Weight: c.Weight}
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				m.Matched = append(m.Matched, kw)
			}
		}
		if len(c.Keywords) > 0 {
			m.Score = float64(len(m.Matched)) / float64(len(c.Keywords))
		}
		b.BaseScore += m.Score * m.Weight
		b.Categories = append(b.Categories, m)
	}

	b.BaseScore = math.Min(1.0, b.BaseScore)
	b.Score = b.BaseScore
	if p.Citations() > BoostMinCitations && b.Score > BoostMinScore {
		b.Score = math.Min(1.0, b.Score*BoostFactor)
		b.Boosted = true
	}
	return b
}

// textBlob joins the searchable fields of p into one lowercase string.
func textBlob(p types.Paper) string {
	return strings.ToLower(strings.Join([]string{
		p.Title,
		p.Abstract,
		strings.Join(p.Keywords, " "),
		p.Venue,
	}, " "))
}
