// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/pdiddy/phm-curator/pkg/types"
)

// DefaultBoostAmount is added by a boost rule whose amount is zero.
const DefaultBoostAmount = 0.1

const eqTolerance = 1e-9

// Matches reports whether rule r holds for p and qa. A rule on an unknown
// field or comparator, or on a field the paper does not carry, never matches.
// An unknown year, citation count or impact factor counts as not carried.
func Matches(r types.Rule, p types.Paper, qa types.QualityAssessment) bool {
	v, ok := fieldValue(r.Field, p, qa)
	if !ok {
		return false
	}
	switch r.Comparator {
	case types.CompareGT:
		return v > r.Threshold
	case types.CompareGTE:
		return v >= r.Threshold
	case types.CompareLT:
		return v < r.Threshold
	case types.CompareLTE:
		return v <= r.Threshold
	case types.CompareEQ:
		return math.Abs(v-r.Threshold) <= eqTolerance
	}
	return false
}

func fieldValue(f types.RuleField, p types.Paper, qa types.QualityAssessment) (float64, bool) {
	switch f {
	case types.FieldCitationCount:
		if p.CitationCount == nil {
			return 0, false
		}
		return float64(p.Citations()), true
	case types.FieldYear:
		if p.Year == nil {
			return 0, false
		}
		return float64(*p.Year), true
	case types.FieldImpactFactor:
		if qa.ImpactFactor <= 0 {
			return 0, false
		}
		return qa.ImpactFactor, true
	case types.FieldAuthorCount:
		return float64(len(p.Authors)), true
	case types.FieldRelevanceScore:
		return qa.RelevanceScore, true
	case types.FieldOverallScore:
		return qa.OverallScore, true
	case types.FieldVenueScore:
		return qa.VenueScore, true
	case types.FieldPublisherScore:
		return qa.PublisherScore, true
	case types.FieldImpactScore:
		return qa.ImpactScore, true
	case types.FieldCitationScore:
		return qa.CitationScore, true
	}
	return 0, false
}

var ruleFields = map[types.RuleField]bool{
	types.FieldCitationCount:  true,
	types.FieldYear:           true,
	types.FieldImpactFactor:   true,
	types.FieldAuthorCount:    true,
	types.FieldRelevanceScore: true,
	types.FieldOverallScore:   true,
	types.FieldVenueScore:     true,
	types.FieldPublisherScore: true,
	types.FieldImpactScore:    true,
	types.FieldCitationScore:  true,
}

// boostAmount returns the score a matching boost rule adds.
func boostAmount(r types.Rule) float64 {
	if r.BoostAmount == 0 {
		return DefaultBoostAmount
	}
	return r.BoostAmount
}

// ValidateRules reports every rule that names an unknown field, comparator
// or action. Invalid rules never match at evaluation time.
func ValidateRules(rules []types.Rule) error {
	var errs []error
	for i, r := range rules {
		if !ruleFields[r.Field] {
			errs = append(errs, fmt.Errorf("rule %d (%s): unknown field %q", i, ruleName(r), r.Field))
		}
		switch r.Comparator {
		case types.CompareGT, types.CompareGTE, types.CompareLT, types.CompareLTE, types.CompareEQ:
		default:
			errs = append(errs, fmt.Errorf("rule %d (%s): unknown comparator %q", i, ruleName(r), r.Comparator))
		}
		switch r.Action {
		case types.ActionExclude, types.ActionBoost:
		default:
			errs = append(errs, fmt.Errorf("rule %d (%s): unknown action %q", i, ruleName(r), r.Action))
		}
	}
	return errors.Join(errs...)
}

// normalizeRules fills in the default boost amount.
func normalizeRules(rules []types.Rule) []types.Rule {
	if len(rules) == 0 {
		return nil
	}
	out := make([]types.Rule, len(rules))
	for i, r := range rules {
		if r.Action == types.ActionBoost {
			r.BoostAmount = boostAmount(r)
		}
		out[i] = r
	}
	return out
}
