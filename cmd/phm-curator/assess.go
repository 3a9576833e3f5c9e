// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/phm-curator/internal/filter"
	"github.com/pdiddy/phm-curator/internal/ingest"
	"github.com/pdiddy/phm-curator/internal/relevance"
	"github.com/pdiddy/phm-curator/pkg/types"
)

var assessCmd = &cobra.Command{
	Use:   "assess [file]",
	Short: "Explain the quality assessment of each paper without filtering",
	Long: `Assess scores every paper in a file and prints the sub-scores, tier,
warnings and strengths, the matched PHM keywords, and the checks the paper
would fail under the current criteria. Nothing is dropped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().String("input", "", "paper file (.json, .jsonl, .yaml)")
	assessCmd.Flags().String("preset", "", "criteria preset: "+strings.Join(filter.PresetNames(), ", "))
	assessCmd.Flags().Bool("json", false, "output assessments as JSON")

	rootCmd.AddCommand(assessCmd)
}

// assessment is the per-paper record printed by assess.
type assessment struct {
	ID         string                  `json:"id"`
	Title      string                  `json:"title"`
	Quality    types.QualityAssessment `json:"quality_assessment"`
	Indicators types.QualityIndicators `json:"quality_indicators"`
	Relevance  relevance.Breakdown     `json:"relevance"`
	Passed     bool                    `json:"passed"`
	Reasons    []string                `json:"reasons,omitempty"`
}

func runAssess(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" && len(args) == 1 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("provide a paper file as argument or with --input")
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	criteria, _, err := criteriaFromFlags(cmd, cfg)
	if err != nil {
		return err
	}
	papers, err := ingest.ReadFile(input)
	if err != nil {
		return err
	}

	scorer := relevance.NewScorer()
	assessor, err := newAssessor(cfg, scorer)
	if err != nil {
		return err
	}

	results := make([]assessment, 0, len(papers))
	for _, p := range papers {
		qa := assessor.Assess(p)
		ev := filter.Evaluate(p, qa, criteria)
		results = append(results, assessment{
			ID:         p.ID,
			Title:      p.Title,
			Quality:    qa,
			Indicators: assessor.Indicators(p, criteria.ExcludePublishers),
			Relevance:  scorer.Explain(p),
			Passed:     ev.Passed,
			Reasons:    ev.Messages(),
		})
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return encodeJSON(results)
	}
	for i, a := range results {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		printAssessment(os.Stdout, a)
	}
	return nil
}

func printAssessment(w io.Writer, a assessment) {
	title := a.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(w, "%s  %s\n", a.ID, title)

	q := a.Quality
	fmt.Fprintf(w, "  overall    %.3f (%s)\n", q.OverallScore, q.Tier)
	fmt.Fprintf(w, "  venue      %.3f\n", q.VenueScore)
	fmt.Fprintf(w, "  publisher  %.3f (%s)\n", q.PublisherScore, orUnknown(q.Publisher))
	fmt.Fprintf(w, "  impact     %.3f (IF %.2f)\n", q.ImpactScore, q.ImpactFactor)
	fmt.Fprintf(w, "  citations  %.3f (%d)\n", q.CitationScore, a.Indicators.Citations)
	fmt.Fprintf(w, "  relevance  %.3f\n", q.RelevanceScore)

	for _, c := range a.Relevance.Categories {
		if len(c.Matched) == 0 {
			continue
		}
		fmt.Fprintf(w, "    %-12s %.2f  %s\n", c.Name, c.Score, strings.Join(c.Matched, ", "))
	}
	if a.Relevance.Boosted {
		fmt.Fprintln(w, "    boosted for citations")
	}

	fmt.Fprintf(w, "  completeness %.2f", a.Indicators.DataCompleteness)
	if a.Indicators.IsRecent {
		fmt.Fprint(w, ", recent")
	}
	if !a.Indicators.HasAbstract {
		fmt.Fprint(w, ", no abstract")
	}
	fmt.Fprintln(w)

	for _, s := range q.Strengths {
		fmt.Fprintf(w, "  + %s\n", s)
	}
	for _, s := range q.Warnings {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	if a.Passed {
		fmt.Fprintln(w, "  PASS")
		return
	}
	fmt.Fprintf(w, "  FAIL: %s\n", strings.Join(a.Reasons, "; "))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
