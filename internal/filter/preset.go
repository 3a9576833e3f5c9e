// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/phm-curator/pkg/types"
)

// ErrUnknownPreset is returned by Preset for an unrecognized name.
var ErrUnknownPreset = errors.New("unknown preset")

// DefaultCriteria returns criteria that impose no restriction.
func DefaultCriteria() types.FilterCriteria {
	return types.FilterCriteria{
		MinQuartile:    types.Q4,
		AllowPreprints: true,
	}
}

var presets = map[string]func() types.FilterCriteria{
	"strict": func() types.FilterCriteria {
		c := DefaultCriteria()
		c.ExcludePublishers = []string{"mdpi", "hindawi", "bentham science"}
		c.MinImpactFactor = 5.0
		c.MinQuartile = types.Q2
		c.RelevanceThreshold = 0.7
		return c
	},
	"moderate": func() types.FilterCriteria {
		c := DefaultCriteria()
		c.ExcludePublishers = []string{"bentham science", "omics international"}
		c.MinImpactFactor = 3.0
		c.MinQuartile = types.Q3
		c.RelevanceThreshold = 0.5
		return c
	},
	"permissive": func() types.FilterCriteria {
		c := DefaultCriteria()
		c.ExcludePublishers = []string{"omics international"}
		c.MinImpactFactor = 1.0
		c.MinQuartile = types.Q4
		c.RelevanceThreshold = 0.3
		return c
	},
}

// Preset returns the named criteria preset: strict, moderate or permissive.
func Preset(name string) (types.FilterCriteria, error) {
	fn, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return types.FilterCriteria{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	return fn(), nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultQualityFilters returns the quality_filters configuration applied
// when no configuration file overrides it.
func DefaultQualityFilters() types.QualityFiltersConfig {
	return types.QualityFiltersConfig{
		PublisherBlacklist: []string{
			"mdpi",
			"hindawi",
			"bentham science",
			"omics international",
			"scientific research publishing",
			"scirp",
			"insight medical publishing",
		},
		PublisherWhitelist: []string{
			"ieee",
			"elsevier",
			"springer",
			"nature publishing group",
			"science",
			"wiley",
			"taylor & francis",
			"american chemical society",
			"american physical society",
			"optical society of america",
		},
		ImpactFactor: types.ThresholdLevels{Minimum: 3.0, Preferred: 5.0, Excellent: 8.0},
		Quartile:     types.QuartileLevels{Minimum: types.Q3, Preferred: types.Q2, Excellent: types.Q1},
		PHM: types.PHMConfig{
			RelevanceThreshold: 0.6,
			CoreVenues: []string{
				"Mechanical Systems and Signal Processing",
				"IEEE Transactions on Industrial Electronics",
				"Reliability Engineering & System Safety",
				"Expert Systems with Applications",
				"Applied Soft Computing",
				"Knowledge-Based Systems",
				"IEEE Transactions on Reliability",
				"ISA Transactions",
				"Measurement",
				"Sensors",
				"Neurocomputing",
			},
		},
		AllowPreprints: true,
	}
}

// CriteriaFromConfig builds filter criteria from the quality_filters section.
// An empty minimum quartile means Q4. Boost rules without an amount get
// DefaultBoostAmount.
func CriteriaFromConfig(cfg types.QualityFiltersConfig) types.FilterCriteria {
	q := normalizeQuartile(cfg.Quartile.Minimum)
	if q == "" {
		q = types.Q4
	}
	return types.FilterCriteria{
		ExcludePublishers:  append([]string(nil), cfg.PublisherBlacklist...),
		IncludePublishers:  append([]string(nil), cfg.PublisherWhitelist...),
		MinImpactFactor:    cfg.ImpactFactor.Minimum,
		MinQuartile:        q,
		MinCitationCount:   cfg.MinCitationCount,
		RelevanceThreshold: cfg.PHM.RelevanceThreshold,
		AllowPreprints:     cfg.AllowPreprints,
		CustomRules:        normalizeRules(cfg.CustomRules),
	}
}
