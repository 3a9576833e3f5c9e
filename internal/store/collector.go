// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"sync"
	"time"

	"github.com/pdiddy/phm-curator/internal/filter"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// Collector is a filter.Recorder that gathers per-paper outcomes for
// archiving.
type Collector struct {
	mu       sync.Mutex
	started  time.Time
	outcomes []PaperOutcome
	report   filter.Report
	elapsed  time.Duration
}

var _ filter.Recorder = (*Collector)(nil)

// NewCollector returns an empty collector stamped with the current time.
func NewCollector() *Collector {
	return &Collector{started: time.Now()}
}

// ObservePaper records one paper's outcome.
func (c *Collector) ObservePaper(p types.Paper, qa *types.QualityAssessment, ev filter.Evaluation) {
	po := PaperOutcome{
		PaperID: p.ID,
		Title:   p.Title,
		Passed:  ev.Passed,
		Score:   ev.Score,
		Reasons: append([]filter.Reason(nil), ev.Reasons...),
	}
	if qa != nil {
		po.Tier = qa.Tier
	}
	c.mu.Lock()
	c.outcomes = append(c.outcomes, po)
	c.mu.Unlock()
}

// ObserveRun records the run report.
func (c *Collector) ObserveRun(r filter.Report, elapsed time.Duration) {
	c.mu.Lock()
	c.report = r
	c.elapsed = elapsed
	c.mu.Unlock()
}

// Run assembles an archivable run from what was observed.
func (c *Collector) Run(input, preset string, criteria types.FilterCriteria) Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Run{
		StartedAt: c.started,
		Elapsed:   c.elapsed,
		Input:     input,
		Preset:    preset,
		Criteria:  criteria,
		Report:    c.report,
		Papers:    append([]PaperOutcome(nil), c.outcomes...),
	}
}
