// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RuleField names a numeric paper or assessment attribute a custom rule can test.
type RuleField string

const (
	FieldCitationCount  RuleField = "citation_count"
	FieldYear           RuleField = "year"
	FieldImpactFactor   RuleField = "impact_factor"
	FieldAuthorCount    RuleField = "author_count"
	FieldRelevanceScore RuleField = "phm_relevance_score"
	FieldOverallScore   RuleField = "overall_score"
	FieldVenueScore     RuleField = "venue_score"
	FieldPublisherScore RuleField = "publisher_score"
	FieldImpactScore    RuleField = "impact_score"
	FieldCitationScore  RuleField = "citation_score"
)

// Comparator is the relation between a field value and a rule threshold.
type Comparator string

const (
	CompareGT  Comparator = "gt"
	CompareGTE Comparator = "gte"
	CompareLT  Comparator = "lt"
	CompareLTE Comparator = "lte"
	CompareEQ  Comparator = "eq"
)

// RuleAction is what happens when a custom rule matches.
type RuleAction string

const (
	ActionExclude RuleAction = "exclude"
	ActionBoost   RuleAction = "boost"
)

// Rule is a threshold predicate on one numeric field.
type Rule struct {
	Name        string     `json:"name" yaml:"name" mapstructure:"name"`
	Field       RuleField  `json:"field" yaml:"field" mapstructure:"field"`
	Comparator  Comparator `json:"comparator" yaml:"comparator" mapstructure:"comparator"`
	Threshold   float64    `json:"threshold" yaml:"threshold" mapstructure:"threshold"`
	Action      RuleAction `json:"action" yaml:"action" mapstructure:"action"`
	BoostAmount float64    `json:"boost_amount,omitempty" yaml:"boost_amount,omitempty" mapstructure:"boost_amount"`
}

// FilterCriteria configures which papers pass the filter. The zero value
// imposes no restrictions except that preprints are rejected; use
// filter.DefaultCriteria for the permissive defaults.
type FilterCriteria struct {
	ExcludePublishers  []string `json:"exclude_publishers,omitempty" yaml:"exclude_publishers,omitempty"`
	IncludePublishers  []string `json:"include_publishers,omitempty" yaml:"include_publishers,omitempty"`
	MinImpactFactor    float64  `json:"min_impact_factor" yaml:"min_impact_factor"`
	MinQuartile        Quartile `json:"min_quartile" yaml:"min_quartile"`
	MinCitationCount   int      `json:"min_citation_count" yaml:"min_citation_count"`
	RelevanceThreshold float64  `json:"phm_relevance_threshold" yaml:"phm_relevance_threshold"`
	AllowPreprints     bool     `json:"allow_preprints" yaml:"allow_preprints"`
	CustomRules        []Rule   `json:"custom_rules,omitempty" yaml:"custom_rules,omitempty"`
}
