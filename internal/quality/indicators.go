// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"math"
	"strings"

	"github.com/pdiddy/phm-curator/internal/reputation"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// recentYears is the age at or below which a paper counts as recent.
const recentYears = 3

// Completeness weights per metadata field.
const (
	completeTitle    = 0.25
	completeAuthors  = 0.20
	completeAbstract = 0.20
	completeDOI      = 0.10
	completeVenue    = 0.10
	completeYear     = 0.10
	completeKeywords = 0.05
)

// Completeness returns how much of the important metadata p carries, in [0,1].
func Completeness(p types.Paper) float64 {
	var score float64
	if strings.TrimSpace(p.Title) != "" {
		score += completeTitle
	}
	if hasNonBlank(p.Authors) {
		score += completeAuthors
	}
	if strings.TrimSpace(p.Abstract) != "" {
		score += completeAbstract
	}
	if strings.TrimSpace(p.DOI) != "" {
		score += completeDOI
	}
	if strings.TrimSpace(p.Venue) != "" {
		score += completeVenue
	}
	if p.Year != nil && *p.Year > 0 {
		score += completeYear
	}
	if hasNonBlank(p.Keywords) {
		score += completeKeywords
	}
	return math.Min(1.0, score)
}

// Indicators summarizes the metadata health of p. excluded is the publisher
// deny list; a paper whose publisher or venue contains one of its entries is
// flagged.
func (a *Assessor) Indicators(p types.Paper, excluded []string) types.QualityIndicators {
	ind := types.QualityIndicators{
		DataCompleteness: Completeness(p),
		Citations:        p.Citations(),
		HasAbstract:      strings.TrimSpace(p.Abstract) != "",
	}
	if p.Year != nil && *p.Year > 0 {
		ind.IsRecent = a.referenceYear-*p.Year <= recentYears
	}

	pub := a.resolver.Resolve(p)
	venue := reputation.Normalize(p.Venue)
	for _, ex := range excluded {
		ex = reputation.Normalize(ex)
		if ex == "" {
			continue
		}
		if strings.Contains(pub, ex) || strings.Contains(venue, ex) {
			ind.ExcludedPublisher = true
			break
		}
	}
	return ind
}

func hasNonBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
