// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Quartile is a journal ranking tier within its subject category.
type Quartile string

const (
	Q1 Quartile = "Q1"
	Q2 Quartile = "Q2"
	Q3 Quartile = "Q3"
	Q4 Quartile = "Q4"
)

// Rating is a publisher reputation grade.
type Rating string

const (
	RatingExcellent    Rating = "excellent"
	RatingGood         Rating = "good"
	RatingQuestionable Rating = "questionable"
	RatingPoor         Rating = "poor"
	RatingUnknown      Rating = "unknown"
)

// QualityTier is the discrete grade derived from an overall score.
type QualityTier string

const (
	TierExcellent    QualityTier = "excellent"
	TierGood         QualityTier = "good"
	TierAcceptable   QualityTier = "acceptable"
	TierQuestionable QualityTier = "questionable"
	TierPoor         QualityTier = "poor"
)

// QualityAssessment is the per-paper scoring result. It is recomputed on
// every filter pass and never treated as ground truth.
type QualityAssessment struct {
	VenueScore     float64 `json:"venue_score" yaml:"venue_score"`
	PublisherScore float64 `json:"publisher_score" yaml:"publisher_score"`
	ImpactScore    float64 `json:"impact_score" yaml:"impact_score"`
	CitationScore  float64 `json:"citation_score" yaml:"citation_score"`
	RelevanceScore float64 `json:"phm_relevance_score" yaml:"phm_relevance_score"`

	// OverallScore is the weighted sum of the sub-scores, in [0,1].
	OverallScore float64     `json:"overall_score" yaml:"overall_score"`
	Tier         QualityTier `json:"quality_tier" yaml:"quality_tier"`

	// Publisher is the resolved, normalized publisher ("" when unresolved).
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// ImpactFactor is the impact factor used for scoring (0 when unknown).
	ImpactFactor float64 `json:"impact_factor" yaml:"impact_factor"`

	Warnings  []string `json:"warnings" yaml:"warnings"`
	Strengths []string `json:"strengths" yaml:"strengths"`
}

// QualityIndicators summarizes metadata health for a paper.
type QualityIndicators struct {
	DataCompleteness  float64 `json:"data_completeness" yaml:"data_completeness"`
	Citations         int     `json:"citations" yaml:"citations"`
	IsRecent          bool    `json:"is_recent" yaml:"is_recent"`
	HasAbstract       bool    `json:"has_abstract" yaml:"has_abstract"`
	ExcludedPublisher bool    `json:"excluded_publisher" yaml:"excluded_publisher"`
}
