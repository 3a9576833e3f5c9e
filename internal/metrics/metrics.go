// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes filter pipeline counters in Prometheus format.
// A CLI run has no scrape endpoint, so the registry is written to a
// node_exporter textfile instead.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/phm-curator/internal/filter"
	"github.com/pdiddy/phm-curator/pkg/types"
)

const namespace = "phm_curator"

// FilterMetrics records pipeline outcomes on its own registry.
type FilterMetrics struct {
	registry *prometheus.Registry

	papersTotal     *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	tierTotal       *prometheus.CounterVec
	scores          prometheus.Histogram
	runsTotal       prometheus.Counter
	runDuration     prometheus.Histogram
	lastFilterRate  prometheus.Gauge
}

var _ filter.Recorder = (*FilterMetrics)(nil)

// NewFilterMetrics creates and registers the pipeline collectors.
func NewFilterMetrics() *FilterMetrics {
	registry := prometheus.NewRegistry()

	papersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "papers_total",
			Help:      "Papers processed by outcome.",
		},
		[]string{"outcome"},
	)
	rejectionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "rejections_total",
			Help:      "Failed checks by check name. A paper can fail several checks.",
		},
		[]string{"check"},
	)
	tierTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quality",
			Name:      "tier_total",
			Help:      "Assessed papers by quality tier.",
		},
		[]string{"tier"},
	)
	scores := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "quality",
			Name:      "overall_score",
			Help:      "Distribution of overall quality scores.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)
	runsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "runs_total",
			Help:      "Completed filter runs.",
		},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "run_duration_seconds",
			Help:      "Filter run duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)
	lastFilterRate := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "last_filter_rate",
			Help:      "Share of papers rejected by the most recent run.",
		},
	)

	registry.MustRegister(papersTotal, rejectionsTotal, tierTotal, scores, runsTotal, runDuration, lastFilterRate)

	return &FilterMetrics{
		registry:        registry,
		papersTotal:     papersTotal,
		rejectionsTotal: rejectionsTotal,
		tierTotal:       tierTotal,
		scores:          scores,
		runsTotal:       runsTotal,
		runDuration:     runDuration,
		lastFilterRate:  lastFilterRate,
	}
}

// Registry returns the underlying registry.
func (m *FilterMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *FilterMetrics) ObservePaper(_ types.Paper, qa *types.QualityAssessment, ev filter.Evaluation) {
	switch {
	case qa == nil:
		m.papersTotal.WithLabelValues("error").Inc()
	case ev.Passed:
		m.papersTotal.WithLabelValues("passed").Inc()
	default:
		m.papersTotal.WithLabelValues("filtered").Inc()
	}
	for _, r := range ev.Reasons {
		m.rejectionsTotal.WithLabelValues(string(r.Check)).Inc()
	}
	if qa != nil {
		m.tierTotal.WithLabelValues(string(qa.Tier)).Inc()
		m.scores.Observe(qa.OverallScore)
	}
}

func (m *FilterMetrics) ObserveRun(r filter.Report, elapsed time.Duration) {
	m.runsTotal.Inc()
	m.runDuration.Observe(elapsed.Seconds())
	m.lastFilterRate.Set(r.FilterRate)
}

// WriteTextfile writes the current metric values to path in the text
// exposition format.
func (m *FilterMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
