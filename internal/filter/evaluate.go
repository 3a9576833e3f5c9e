// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter applies configurable pass/fail criteria to assessed papers
// and runs the assess-then-evaluate pipeline over a paper collection.
//
// Every check runs on every paper so a rejection lists all of its reasons,
// not only the first one.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/phm-curator/internal/reputation"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// Check identifies which criterion produced a rejection reason.
type Check string

const (
	CheckExcludedPublisher Check = "excluded_publisher"
	CheckNotApproved       Check = "publisher_not_approved"
	CheckImpactFactor      Check = "impact_factor"
	CheckQuartile          Check = "quartile"
	CheckCitations         Check = "citation_count"
	CheckRelevance         Check = "phm_relevance"
	CheckPreprint          Check = "preprint"
	CheckCustomRule        Check = "custom_rule"
	CheckProcessingError   Check = "processing_error"
)

// Reason is one failed criterion. Message is the human-readable text used as
// the report key.
type Reason struct {
	Check   Check  `json:"check" yaml:"check"`
	Message string `json:"message" yaml:"message"`
}

// Evaluation is the outcome of applying criteria to one paper.
type Evaluation struct {
	Passed  bool     `json:"passed"`
	Reasons []Reason `json:"reasons,omitempty"`

	// Score is the overall score plus custom-rule boosts. It is not capped.
	Score float64 `json:"score"`
}

// quartileThresholds gives the minimum venue score each quartile demands.
// Q4 is absent: it imposes no threshold.
var quartileThresholds = map[types.Quartile]float64{
	types.Q1: 1.0,
	types.Q2: 0.8,
	types.Q3: 0.6,
}

// QuartileThreshold returns the venue score a minimum quartile requires.
// Q4 and unrecognized labels return false, meaning no restriction.
func QuartileThreshold(q types.Quartile) (float64, bool) {
	v, ok := quartileThresholds[normalizeQuartile(q)]
	return v, ok
}

func normalizeQuartile(q types.Quartile) types.Quartile {
	return types.Quartile(strings.ToUpper(strings.TrimSpace(string(q))))
}

// Evaluate applies c to p and its assessment qa.
func Evaluate(p types.Paper, qa types.QualityAssessment, c types.FilterCriteria) Evaluation {
	ev := Evaluation{Passed: true, Score: qa.OverallScore}
	fail := func(check Check, format string, args ...any) {
		ev.Passed = false
		ev.Reasons = append(ev.Reasons, Reason{Check: check, Message: fmt.Sprintf(format, args...)})
	}

	publisher := qa.Publisher
	if publisher != "" && containsName(c.ExcludePublishers, publisher) {
		fail(CheckExcludedPublisher, "Excluded publisher: %s", publisher)
	}
	if publisher != "" && len(c.IncludePublishers) > 0 && !containsName(c.IncludePublishers, publisher) {
		fail(CheckNotApproved, "Not in approved publisher list: %s", publisher)
	}

	if qa.ImpactFactor > 0 && qa.ImpactFactor < c.MinImpactFactor {
		fail(CheckImpactFactor, "Impact factor %s below minimum %s", num(qa.ImpactFactor), num(c.MinImpactFactor))
	}

	if minScore, ok := QuartileThreshold(c.MinQuartile); ok && qa.VenueScore < minScore {
		fail(CheckQuartile, "Journal quality below %s", normalizeQuartile(c.MinQuartile))
	}

	if citations := p.Citations(); citations < c.MinCitationCount {
		fail(CheckCitations, "Citation count %d below minimum %d", citations, c.MinCitationCount)
	}

	if qa.RelevanceScore < c.RelevanceThreshold {
		fail(CheckRelevance, "PHM relevance %.2f below threshold %s", qa.RelevanceScore, num(c.RelevanceThreshold))
	}

	if !c.AllowPreprints && p.IsPreprint() {
		fail(CheckPreprint, "Preprints not allowed")
	}

	for _, r := range c.CustomRules {
		if !Matches(r, p, qa) {
			continue
		}
		switch r.Action {
		case types.ActionExclude:
			fail(CheckCustomRule, "Custom rule: %s", ruleName(r))
		case types.ActionBoost:
			ev.Score += boostAmount(r)
		}
	}
	return ev
}

// Messages returns the reason messages of ev in order.
func (ev Evaluation) Messages() []string {
	out := make([]string, len(ev.Reasons))
	for i, r := range ev.Reasons {
		out[i] = r.Message
	}
	return out
}

func containsName(list []string, name string) bool {
	name = reputation.Normalize(name)
	for _, v := range list {
		if reputation.Normalize(v) == name {
			return true
		}
	}
	return false
}

func ruleName(r types.Rule) string {
	if strings.TrimSpace(r.Name) == "" {
		return "unnamed rule"
	}
	return r.Name
}

// num formats a float without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
