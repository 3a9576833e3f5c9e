// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/phm-curator/internal/quality"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// Recorder observes pipeline outcomes. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// ObservePaper is called once per input paper, in input order. qa is nil
	// when the paper failed with a processing error.
	ObservePaper(p types.Paper, qa *types.QualityAssessment, ev Evaluation)

	// ObserveRun is called once per Filter call.
	ObserveRun(r Report, elapsed time.Duration)
}

// Recorders fans observations out to several recorders.
type Recorders []Recorder

func (rs Recorders) ObservePaper(p types.Paper, qa *types.QualityAssessment, ev Evaluation) {
	for _, r := range rs {
		if r != nil {
			r.ObservePaper(p, qa, ev)
		}
	}
}

func (rs Recorders) ObserveRun(r Report, elapsed time.Duration) {
	for _, rec := range rs {
		if rec != nil {
			rec.ObserveRun(r, elapsed)
		}
	}
}

// Options configure a Pipeline.
type Options struct {
	// Workers bounds concurrent assessment. Values below 2 run sequentially.
	Workers int

	Logger   *zap.Logger
	Recorder Recorder
}

// Pipeline assesses and evaluates paper collections.
type Pipeline struct {
	assessor *quality.Assessor
	logger   *zap.Logger
	recorder Recorder
	workers  int
}

// NewPipeline returns a pipeline over assessor.
func NewPipeline(assessor *quality.Assessor, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		assessor: assessor,
		logger:   logger,
		recorder: opts.Recorder,
		workers:  opts.Workers,
	}
}

// outcome is the per-paper result slot.
type outcome struct {
	qa  *types.QualityAssessment
	ind types.QualityIndicators
	ev  Evaluation
}

// Filter assesses every paper, applies c, and returns the survivors sorted by
// descending filter score. Ties keep their input order. The input slice and
// its papers are not modified; survivors are copies with the assessment,
// indicators and filter score attached.
func (pl *Pipeline) Filter(papers []types.Paper, c types.FilterCriteria) ([]types.Paper, Report) {
	start := time.Now()
	results := make([]outcome, len(papers))

	if pl.workers > 1 && len(papers) > 1 {
		var g errgroup.Group
		g.SetLimit(pl.workers)
		for i := range papers {
			g.Go(func() error {
				results[i] = pl.process(papers[i], c)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range papers {
			results[i] = pl.process(papers[i], c)
		}
	}

	report := newReport(len(papers))
	var survivors []types.Paper
	for i, res := range results {
		if pl.recorder != nil {
			pl.recorder.ObservePaper(papers[i], res.qa, res.ev)
		}
		if res.qa != nil {
			report.addAssessment(*res.qa)
		} else {
			report.ProcessingErrors++
		}
		if !res.ev.Passed {
			report.addRejection(res.ev.Reasons)
			pl.logger.Debug("paper rejected",
				zap.String("id", papers[i].ID),
				zap.Strings("reasons", res.ev.Messages()))
			continue
		}
		out := papers[i]
		out.Assessment = res.qa
		ind := res.ind
		out.Indicators = &ind
		score := res.ev.Score
		out.FilterScore = &score
		survivors = append(survivors, out)
	}

	slices.SortStableFunc(survivors, func(a, b types.Paper) int {
		return cmp.Compare(*b.FilterScore, *a.FilterScore)
	})
	if survivors == nil {
		survivors = []types.Paper{}
	}

	report.finish(len(survivors))
	elapsed := time.Since(start)
	if pl.recorder != nil {
		pl.recorder.ObserveRun(report, elapsed)
	}
	pl.logger.Info("filter run complete",
		zap.Int("total", report.TotalPapers),
		zap.Int("passed", report.PassedCount),
		zap.Float64("filter_rate", report.FilterRate),
		zap.Int("processing_errors", report.ProcessingErrors),
		zap.Duration("elapsed", elapsed))
	return survivors, report
}

// process assesses and evaluates one paper. A panic while handling the
// paper is turned into a rejection so the rest of the run continues.
func (pl *Pipeline) process(p types.Paper, c types.FilterCriteria) (res outcome) {
	defer func() {
		if r := recover(); r != nil {
			pl.logger.Warn("recovered while processing paper",
				zap.String("id", p.ID),
				zap.Any("panic", r))
			res = outcome{ev: Evaluation{
				Reasons: []Reason{{Check: CheckProcessingError, Message: fmt.Sprintf("Processing error: %v", r)}},
			}}
		}
	}()

	qa := pl.assessor.Assess(p)
	return outcome{
		qa:  &qa,
		ind: pl.assessor.Indicators(p, c.ExcludePublishers),
		ev:  Evaluate(p, qa, c),
	}
}

// Assess returns the assessment of p without applying criteria.
func (pl *Pipeline) Assess(p types.Paper) types.QualityAssessment {
	return pl.assessor.Assess(p)
}
