// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import "github.com/pdiddy/phm-curator/pkg/types"

// unknownPublisher is the publisher distribution key for unresolved papers.
const unknownPublisher = "unknown"

// Report summarizes one Filter call. It is descriptive only.
type Report struct {
	TotalPapers   int     `json:"total_papers" yaml:"total_papers"`
	PassedCount   int     `json:"passed_count" yaml:"passed_count"`
	FilteredCount int     `json:"filtered_count" yaml:"filtered_count"`
	FilterRate    float64 `json:"filter_rate" yaml:"filter_rate"`

	// Reasons counts rejection messages. A paper failing several checks
	// contributes to several entries.
	Reasons map[string]int `json:"filter_reasons" yaml:"filter_reasons"`

	// Checks counts rejections by check kind.
	Checks map[Check]int `json:"check_counts" yaml:"check_counts"`

	// QualityDistribution and PublisherDistribution count every assessed
	// paper, passed or not.
	QualityDistribution   map[types.QualityTier]int `json:"quality_distribution" yaml:"quality_distribution"`
	PublisherDistribution map[string]int            `json:"publisher_distribution" yaml:"publisher_distribution"`

	ProcessingErrors int `json:"processing_errors" yaml:"processing_errors"`
}

func newReport(total int) Report {
	return Report{
		TotalPapers:           total,
		Reasons:               map[string]int{},
		Checks:                map[Check]int{},
		QualityDistribution:   map[types.QualityTier]int{},
		PublisherDistribution: map[string]int{},
	}
}

func (r *Report) addRejection(reasons []Reason) {
	for _, reason := range reasons {
		r.Reasons[reason.Message]++
		r.Checks[reason.Check]++
	}
}

func (r *Report) addAssessment(qa types.QualityAssessment) {
	r.QualityDistribution[qa.Tier]++
	pub := qa.Publisher
	if pub == "" {
		pub = unknownPublisher
	}
	r.PublisherDistribution[pub]++
}

func (r *Report) finish(passed int) {
	r.PassedCount = passed
	r.FilteredCount = r.TotalPapers - passed
	if r.TotalPapers > 0 {
		r.FilterRate = float64(r.FilteredCount) / float64(r.TotalPapers)
	}
}
