// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"bytes"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/phm-curator/internal/quality"
	"github.com/pdiddy/phm-curator/internal/reputation"
	"github.com/pdiddy/phm-curator/pkg/types"
)

func newAssessor() *quality.Assessor {
	return quality.NewAssessor(reputation.Default(), nil, quality.Config{ReferenceYear: 2025})
}

func newPipeline(opts Options) *Pipeline {
	return NewPipeline(newAssessor(), opts)
}

func msspPaper() types.Paper {
	return types.Paper{
		ID:            "mssp",
		Title:         "Bearing degradation tracking",
		Venue:         "Mechanical Systems and Signal Processing",
		ImpactFactor:  types.Float(8.4),
		CitationCount: types.Int(150),
		Year:          types.Int(2023),
		Keywords:      []string{"prognostics", "fault diagnosis"},
	}
}

func mdpiPaper() types.Paper {
	return types.Paper{
		ID:             "mdpi",
		Title:          "A study",
		Publisher:      "mdpi",
		ImpactFactor:   types.Float(2.1),
		CitationCount:  types.Int(5),
		RelevanceScore: types.Float(0.3),
	}
}

// tiePaper scores exactly 0.4*0.8 + 0.2*1.0 + 0.15*0.6 + 0.15*0.6 + 0.1*0 = 0.70.
func tiePaper(id string) types.Paper {
	return types.Paper{
		ID:             id,
		Title:          "Tie " + id,
		Venue:          "IEEE Access",
		Year:           types.Int(2025),
		CitationCount:  types.Int(3),
		RelevanceScore: types.Float(0),
	}
}

func TestFilterTopJournalPasses(t *testing.T) {
	survivors, report := newPipeline(Options{}).Filter([]types.Paper{msspPaper()}, DefaultCriteria())

	require.Len(t, survivors, 1)
	got := survivors[0]
	require.NotNil(t, got.Assessment)
	require.NotNil(t, got.Indicators)
	require.NotNil(t, got.FilterScore)
	assert.Equal(t, types.TierExcellent, got.Assessment.Tier)
	assert.Equal(t, 1.0, got.Assessment.VenueScore)
	assert.Equal(t, got.Assessment.OverallScore, *got.FilterScore)
	assert.Equal(t, 1, report.PassedCount)
	assert.Equal(t, 0.0, report.FilterRate)
	assert.Equal(t, 1, report.QualityDistribution[types.TierExcellent])
	assert.Equal(t, 1, report.PublisherDistribution["elsevier"])
}

func TestEvaluateReportsEveryFailingCheck(t *testing.T) {
	c := DefaultCriteria()
	c.MinImpactFactor = 5.0
	c.ExcludePublishers = []string{"mdpi"}

	p := mdpiPaper()
	qa := newAssessor().Assess(p)
	ev := Evaluate(p, qa, c)

	assert.False(t, ev.Passed)
	assert.Equal(t, []string{
		"Excluded publisher: mdpi",
		"Impact factor 2.1 below minimum 5",
	}, ev.Messages())
	assert.Equal(t, CheckExcludedPublisher, ev.Reasons[0].Check)
	assert.Equal(t, CheckImpactFactor, ev.Reasons[1].Check)

	_, report := newPipeline(Options{}).Filter([]types.Paper{p}, c)
	assert.Equal(t, 1, report.Reasons["Excluded publisher: mdpi"])
	assert.Equal(t, 1, report.Reasons["Impact factor 2.1 below minimum 5"])
	assert.Equal(t, 1, report.Checks[CheckImpactFactor])
	assert.Equal(t, 1, report.FilteredCount)
	assert.Equal(t, 1.0, report.FilterRate)
}

func TestEvaluateChecks(t *testing.T) {
	a := newAssessor()

	tests := []struct {
		name   string
		paper  types.Paper
		modify func(*types.FilterCriteria)
		want   []Check
	}{
		{
			name:   "allow list rejects other publishers",
			paper:  types.Paper{Publisher: "Hindawi"},
			modify: func(c *types.FilterCriteria) { c.IncludePublishers = []string{"IEEE", "Elsevier"} },
			want:   []Check{CheckNotApproved},
		},
		{
			name:   "allow list ignores unresolved publishers",
			paper:  types.Paper{Title: "No venue"},
			modify: func(c *types.FilterCriteria) { c.IncludePublishers = []string{"ieee"} },
		},
		{
			name:   "exclusion is case-insensitive",
			paper:  types.Paper{Publisher: "MDPI"},
			modify: func(c *types.FilterCriteria) { c.ExcludePublishers = []string{" Mdpi "} },
			want:   []Check{CheckExcludedPublisher},
		},
		{
			name:   "unknown impact factor is not judged",
			paper:  types.Paper{Title: "x"},
			modify: func(c *types.FilterCriteria) { c.MinImpactFactor = 3 },
		},
		{
			name:   "quartile threshold",
			paper:  types.Paper{Venue: "Sensors"},
			modify: func(c *types.FilterCriteria) { c.MinQuartile = types.Q1 },
			want:   []Check{CheckQuartile},
		},
		{
			name:   "q4 imposes no threshold",
			paper:  types.Paper{Venue: "Unlisted"},
			modify: func(c *types.FilterCriteria) { c.MinQuartile = types.Q4 },
		},
		{
			name:   "unrecognized quartile is permissive",
			paper:  types.Paper{Venue: "Unlisted"},
			modify: func(c *types.FilterCriteria) { c.MinQuartile = "Q7" },
		},
		{
			name:   "lowercase quartile label",
			paper:  types.Paper{Venue: "Unlisted"},
			modify: func(c *types.FilterCriteria) { c.MinQuartile = "q3" },
			want:   []Check{CheckQuartile},
		},
		{
			name:   "citation minimum",
			paper:  types.Paper{CitationCount: types.Int(4)},
			modify: func(c *types.FilterCriteria) { c.MinCitationCount = 5 },
			want:   []Check{CheckCitations},
		},
		{
			name:   "relevance threshold",
			paper:  types.Paper{RelevanceScore: types.Float(0.2)},
			modify: func(c *types.FilterCriteria) { c.RelevanceThreshold = 0.5 },
			want:   []Check{CheckRelevance},
		},
		{
			name:   "preprints rejected when disallowed",
			paper:  types.Paper{VenueType: types.VenueArxiv},
			modify: func(c *types.FilterCriteria) { c.AllowPreprints = false },
			want:   []Check{CheckPreprint},
		},
		{
			name:  "preprints allowed by default",
			paper: types.Paper{VenueType: "Preprint"},
		},
		{
			name:  "custom exclude rule",
			paper: types.Paper{Authors: []string{"a"}},
			modify: func(c *types.FilterCriteria) {
				c.CustomRules = []types.Rule{{Name: "solo", Field: types.FieldAuthorCount, Comparator: types.CompareLT, Threshold: 2, Action: types.ActionExclude}}
			},
			want: []Check{CheckCustomRule},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCriteria()
			if tt.modify != nil {
				tt.modify(&c)
			}
			ev := Evaluate(tt.paper, a.Assess(tt.paper), c)
			var got []Check
			for _, r := range ev.Reasons {
				got = append(got, r.Check)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want) == 0, ev.Passed)
		})
	}
}

func TestReasonMessages(t *testing.T) {
	a := newAssessor()
	p := types.Paper{
		Publisher:      "omics international",
		CitationCount:  types.Int(1),
		RelevanceScore: types.Float(0.25),
		VenueType:      types.VenuePreprint,
	}
	c := types.FilterCriteria{
		IncludePublishers:  []string{"ieee"},
		MinQuartile:        types.Q2,
		MinCitationCount:   3,
		RelevanceThreshold: 0.6,
		CustomRules:        []types.Rule{{Field: types.FieldCitationCount, Comparator: types.CompareEQ, Threshold: 1, Action: types.ActionExclude}},
	}
	ev := Evaluate(p, a.Assess(p), c)
	assert.Equal(t, []string{
		"Not in approved publisher list: omics international",
		"Journal quality below Q2",
		"Citation count 1 below minimum 3",
		"PHM relevance 0.25 below threshold 0.6",
		"Preprints not allowed",
		"Custom rule: unnamed rule",
	}, ev.Messages())
}

func TestBoostRuleAddsExactAmount(t *testing.T) {
	a := newAssessor()
	p := msspPaper()
	qa := a.Assess(p)

	base := Evaluate(p, qa, DefaultCriteria())

	c := DefaultCriteria()
	c.CustomRules = []types.Rule{{
		Name:        "highly cited",
		Field:       types.FieldCitationCount,
		Comparator:  types.CompareGT,
		Threshold:   100,
		Action:      types.ActionBoost,
		BoostAmount: 0.1,
	}}
	boosted := Evaluate(p, qa, c)

	assert.Equal(t, base.Passed, boosted.Passed)
	assert.Empty(t, boosted.Reasons)
	assert.InDelta(t, 0.1, boosted.Score-qa.OverallScore, 1e-12)
	assert.Greater(t, boosted.Score, 1.0, "boosted scores are not capped")

	p.CitationCount = types.Int(100)
	assert.Equal(t, a.Assess(p).OverallScore, Evaluate(p, a.Assess(p), c).Score)
}

func TestBoostRuleWithoutAmountUsesDefault(t *testing.T) {
	a := newAssessor()
	p := msspPaper()
	qa := a.Assess(p)

	c := types.FilterCriteria{CustomRules: []types.Rule{{
		Field:      types.FieldCitationCount,
		Comparator: types.CompareGT,
		Threshold:  100,
		Action:     types.ActionBoost,
	}}}
	ev := Evaluate(p, qa, c)
	assert.InDelta(t, DefaultBoostAmount, ev.Score-qa.OverallScore, 1e-12)
	assert.Equal(t, 0.0, c.CustomRules[0].BoostAmount, "criteria must not be modified")
}

func TestRulesOnUnknownFieldsNeverMatch(t *testing.T) {
	p := types.Paper{Authors: []string{"a"}}
	qa := types.QualityAssessment{}

	tests := []struct {
		name string
		rule types.Rule
	}{
		{"impact factor", types.Rule{Field: types.FieldImpactFactor, Comparator: types.CompareLT, Threshold: 3, Action: types.ActionExclude}},
		{"citation count", types.Rule{Field: types.FieldCitationCount, Comparator: types.CompareLT, Threshold: 5, Action: types.ActionExclude}},
		{"year", types.Rule{Field: types.FieldYear, Comparator: types.CompareLT, Threshold: 2015, Action: types.ActionExclude}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Matches(tt.rule, p, qa))
			ev := Evaluate(p, qa, types.FilterCriteria{AllowPreprints: true, CustomRules: []types.Rule{tt.rule}})
			assert.True(t, ev.Passed, "%v", ev.Messages())
		})
	}

	p.CitationCount = types.Int(0)
	assert.True(t, Matches(tests[1].rule, p, qa), "a known zero citation count is carried")
	qa.ImpactFactor = 1.2
	assert.True(t, Matches(tests[0].rule, p, qa))
}

func TestFilterStableOnTies(t *testing.T) {
	in := []types.Paper{tiePaper("first"), msspPaper(), tiePaper("second")}
	survivors, _ := newPipeline(Options{}).Filter(in, DefaultCriteria())

	require.Len(t, survivors, 3)
	assert.Equal(t, "mssp", survivors[0].ID)
	assert.Equal(t, "first", survivors[1].ID)
	assert.Equal(t, "second", survivors[2].ID)
	assert.InDelta(t, 0.70, survivors[1].Assessment.OverallScore, 1e-9)
	assert.Equal(t, *survivors[1].FilterScore, *survivors[2].FilterScore)
}

func TestFilterEmptyInput(t *testing.T) {
	survivors, report := newPipeline(Options{}).Filter(nil, DefaultCriteria())
	assert.NotNil(t, survivors)
	assert.Empty(t, survivors)
	assert.Equal(t, 0, report.TotalPapers)
	assert.Equal(t, 0.0, report.FilterRate)
	assert.Empty(t, report.Reasons)
}

func TestMinImpactFactorIsMonotonic(t *testing.T) {
	papers := []types.Paper{
		msspPaper(),
		mdpiPaper(),
		tiePaper("a"),
		{ID: "ieee-tr", Venue: "IEEE Transactions on Reliability", Year: types.Int(2020)},
		{ID: "if-1.5", ImpactFactor: types.Float(1.5)},
		{ID: "unknown"},
	}
	pl := newPipeline(Options{})
	prev := len(papers) + 1
	for _, minIF := range []float64{0, 1, 2, 3, 4, 5, 6, 8, 9, 20} {
		c := DefaultCriteria()
		c.MinImpactFactor = minIF
		survivors, _ := pl.Filter(papers, c)
		assert.LessOrEqual(t, len(survivors), prev, "min impact factor %v", minIF)
		prev = len(survivors)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := []types.Paper{msspPaper(), mdpiPaper()}
	survivors, _ := newPipeline(Options{}).Filter(in, DefaultCriteria())
	require.NotEmpty(t, survivors)
	for _, p := range in {
		assert.Nil(t, p.Assessment)
		assert.Nil(t, p.Indicators)
		assert.Nil(t, p.FilterScore)
	}
}

func TestFilterPreservesExtraFields(t *testing.T) {
	p := msspPaper()
	p.Extra = map[string]any{"pdf_url": "https://example.org/x.pdf"}
	survivors, _ := newPipeline(Options{}).Filter([]types.Paper{p}, DefaultCriteria())
	require.Len(t, survivors, 1)
	assert.Equal(t, "https://example.org/x.pdf", survivors[0].Extra["pdf_url"])
}

func TestFilterConcurrentMatchesSequential(t *testing.T) {
	var papers []types.Paper
	for i := 0; i < 40; i++ {
		p := tiePaper(strconv.Itoa(i))
		p.CitationCount = types.Int(i)
		papers = append(papers, p, mdpiPaper(), msspPaper())
	}
	c := DefaultCriteria()
	c.MinCitationCount = 10

	seqOut, seqReport := newPipeline(Options{}).Filter(papers, c)
	parOut, parReport := newPipeline(Options{Workers: 8}).Filter(papers, c)

	assert.Equal(t, seqReport, parReport)
	require.Equal(t, len(seqOut), len(parOut))
	for i := range seqOut {
		assert.Equal(t, seqOut[i].ID, parOut[i].ID)
	}
}

func TestFilterRecoversPerPaperPanics(t *testing.T) {
	pl := NewPipeline(nil, Options{})
	survivors, report := pl.Filter([]types.Paper{{ID: "a"}, {ID: "b"}}, DefaultCriteria())

	assert.Empty(t, survivors)
	assert.Equal(t, 2, report.ProcessingErrors)
	assert.Equal(t, 2, report.Checks[CheckProcessingError])
	assert.Equal(t, 2, report.FilteredCount)
	assert.Empty(t, report.QualityDistribution)
}

type fakeRecorder struct {
	mu     sync.Mutex
	ids    []string
	papers int
	passed int
	runs   int
	last   Report
}

func (f *fakeRecorder) ObservePaper(p types.Paper, qa *types.QualityAssessment, ev Evaluation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, p.ID)
	f.papers++
	if ev.Passed {
		f.passed++
	}
}

func (f *fakeRecorder) ObserveRun(r Report, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	f.last = r
}

func TestFilterNotifiesRecorder(t *testing.T) {
	rec := &fakeRecorder{}
	c := DefaultCriteria()
	c.ExcludePublishers = []string{"mdpi"}
	newPipeline(Options{Recorder: rec}).Filter([]types.Paper{msspPaper(), mdpiPaper()}, c)

	assert.Equal(t, 2, rec.papers)
	assert.Equal(t, 1, rec.passed)
	assert.Equal(t, 1, rec.runs)
	assert.Equal(t, 2, rec.last.TotalPapers)
	assert.Equal(t, []string{msspPaper().ID, mdpiPaper().ID}, rec.ids)
}

func TestRecordersFanOut(t *testing.T) {
	a, b := &fakeRecorder{}, &fakeRecorder{}
	newPipeline(Options{Recorder: Recorders{a, nil, b}, Workers: 4}).
		Filter([]types.Paper{msspPaper(), tiePaper("t1"), tiePaper("t2")}, DefaultCriteria())

	assert.Equal(t, 3, a.papers)
	assert.Equal(t, 3, b.papers)
	assert.Equal(t, a.ids, b.ids)
	assert.Equal(t, 1, b.runs)
}

func TestPresets(t *testing.T) {
	strict, err := Preset("strict")
	require.NoError(t, err)
	assert.Equal(t, 5.0, strict.MinImpactFactor)
	assert.Equal(t, types.Q2, strict.MinQuartile)
	assert.Equal(t, 0.7, strict.RelevanceThreshold)
	assert.Contains(t, strict.ExcludePublishers, "hindawi")

	moderate, err := Preset(" Moderate ")
	require.NoError(t, err)
	assert.Equal(t, types.Q3, moderate.MinQuartile)

	permissive, err := Preset("permissive")
	require.NoError(t, err)
	assert.Equal(t, []string{"omics international"}, permissive.ExcludePublishers)

	_, err = Preset("lenient")
	assert.True(t, errors.Is(err, ErrUnknownPreset))
	assert.Equal(t, []string{"moderate", "permissive", "strict"}, PresetNames())
}

func TestStricterPresetsKeepFewerPapers(t *testing.T) {
	papers := []types.Paper{msspPaper(), mdpiPaper(), tiePaper("a"), {ID: "bare"}}
	pl := newPipeline(Options{})
	counts := map[string]int{}
	for _, name := range PresetNames() {
		c, err := Preset(name)
		require.NoError(t, err)
		out, _ := pl.Filter(papers, c)
		counts[name] = len(out)
	}
	assert.LessOrEqual(t, counts["strict"], counts["moderate"])
	assert.LessOrEqual(t, counts["moderate"], counts["permissive"])
}

func TestCriteriaFromConfig(t *testing.T) {
	cfg := DefaultQualityFilters()
	cfg.CustomRules = []types.Rule{{Name: "cited", Field: types.FieldCitationCount, Comparator: types.CompareGT, Threshold: 100, Action: types.ActionBoost}}

	c := CriteriaFromConfig(cfg)
	assert.Equal(t, 3.0, c.MinImpactFactor)
	assert.Equal(t, types.Q3, c.MinQuartile)
	assert.Equal(t, 0.6, c.RelevanceThreshold)
	assert.True(t, c.AllowPreprints)
	assert.Contains(t, c.ExcludePublishers, "mdpi")
	assert.Contains(t, c.IncludePublishers, "elsevier")
	require.Len(t, c.CustomRules, 1)
	assert.Equal(t, DefaultBoostAmount, c.CustomRules[0].BoostAmount)
	assert.Equal(t, 0.0, cfg.CustomRules[0].BoostAmount, "config must not be modified")

	assert.Equal(t, types.Q4, CriteriaFromConfig(types.QualityFiltersConfig{}).MinQuartile)
}

func TestMatchesComparators(t *testing.T) {
	p := types.Paper{CitationCount: types.Int(10), Authors: []string{"a", "b"}}
	qa := types.QualityAssessment{OverallScore: 0.5}

	tests := []struct {
		rule types.Rule
		want bool
	}{
		{types.Rule{Field: types.FieldCitationCount, Comparator: types.CompareGT, Threshold: 9}, true},
		{types.Rule{Field: types.FieldCitationCount, Comparator: types.CompareGT, Threshold: 10}, false},
		{types.Rule{Field: types.FieldCitationCount, Comparator: types.CompareGTE, Threshold: 10}, true},
		{types.Rule{Field: types.FieldAuthorCount, Comparator: types.CompareLT, Threshold: 3}, true},
		{types.Rule{Field: types.FieldAuthorCount, Comparator: types.CompareLTE, Threshold: 1}, false},
		{types.Rule{Field: types.FieldOverallScore, Comparator: types.CompareEQ, Threshold: 0.5}, true},
		{types.Rule{Field: types.FieldYear, Comparator: types.CompareLT, Threshold: 3000}, false},
		{types.Rule{Field: "h_index", Comparator: types.CompareGT, Threshold: 0}, false},
		{types.Rule{Field: types.FieldCitationCount, Comparator: "~", Threshold: 0}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(tt.rule, p, qa), "%+v", tt.rule)
	}
}

func TestValidateRules(t *testing.T) {
	assert.NoError(t, ValidateRules(nil))
	assert.NoError(t, ValidateRules([]types.Rule{{Name: "ok", Field: types.FieldYear, Comparator: types.CompareGTE, Threshold: 2015, Action: types.ActionExclude}}))

	err := ValidateRules([]types.Rule{{Name: "bad", Field: "h_index", Comparator: "like", Action: "drop"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "h_index"`)
	assert.Contains(t, err.Error(), `unknown comparator "like"`)
	assert.Contains(t, err.Error(), `unknown action "drop"`)
}

func TestFormatSummary(t *testing.T) {
	c := DefaultCriteria()
	c.ExcludePublishers = []string{"mdpi"}
	c.MinImpactFactor = 5
	_, report := newPipeline(Options{}).Filter([]types.Paper{msspPaper(), mdpiPaper(), mdpiPaper()}, c)

	var buf bytes.Buffer
	FormatSummary(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "Total papers:  3")
	assert.Contains(t, out, "Passed:        1")
	assert.Contains(t, out, "Filter rate:   66.7%")
	assert.Contains(t, out, "  - Excluded publisher: mdpi: 2\n")
	assert.Contains(t, out, "excellent")
}

func TestFormatTable(t *testing.T) {
	survivors, _ := newPipeline(Options{}).Filter([]types.Paper{msspPaper()}, DefaultCriteria())

	var buf bytes.Buffer
	require.NoError(t, FormatTable(&buf, survivors))
	out := buf.String()
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "excellent")
	assert.Contains(t, out, "Bearing degradation tracking")
	assert.Contains(t, out, "2023")
}
