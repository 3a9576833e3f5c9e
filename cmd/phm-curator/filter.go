// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/phm-curator/internal/filter"
	"github.com/pdiddy/phm-curator/internal/ingest"
	"github.com/pdiddy/phm-curator/internal/metrics"
	"github.com/pdiddy/phm-curator/internal/search"
	"github.com/pdiddy/phm-curator/internal/store"
	"github.com/pdiddy/phm-curator/pkg/types"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Assess and filter papers from a file",
	Long: `Filter reads paper records from a JSON, JSON lines or YAML file, scores
each one, applies the filter criteria, and writes the survivors ranked by
filter score. A summary of why papers were rejected is printed to stderr.

Criteria come from the quality_filters config section unless --preset names
one of the built-in presets. Individual flags override either source.`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().String("input", "", "paper file (.json, .jsonl, .yaml)")
	addFilterFlags(filterCmd)

	rootCmd.AddCommand(filterCmd)
}

// addFilterFlags registers the flags shared by filter and search.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "criteria preset: "+strings.Join(filter.PresetNames(), ", "))
	cmd.Flags().String("output", "", "write results to this file (default stdout)")
	cmd.Flags().String("format", "table", "output format: table, json, jsonl, or csl")
	cmd.Flags().String("report", "", "write the filter report as JSON to this file")
	cmd.Flags().String("db", "", "archive the run in this SQLite database (overrides store_path)")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile")
	cmd.Flags().Bool("dedupe", false, "merge duplicate records before filtering")
	cmd.Flags().Int("workers", 1, "number of papers assessed concurrently")

	cmd.Flags().StringSlice("exclude-publisher", nil, "publisher to exclude (repeatable)")
	cmd.Flags().StringSlice("include-publisher", nil, "publisher allow-list entry (repeatable)")
	cmd.Flags().Float64("min-impact-factor", 0, "minimum impact factor")
	cmd.Flags().String("min-quartile", "", "minimum venue quartile: Q1, Q2, Q3, Q4")
	cmd.Flags().Int("min-citations", 0, "minimum citation count")
	cmd.Flags().Float64("relevance-threshold", 0, "minimum PHM relevance score")
	cmd.Flags().Bool("allow-preprints", true, "accept preprints and arXiv postings")
}

func runFilter(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" && len(args) == 1 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("provide --input with a paper file")
	}

	papers, err := ingest.ReadFile(input)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "read %d papers from %s\n", len(papers), input)

	return filterAndWrite(cmd, papers, input)
}

// filterAndWrite runs the pipeline over papers and handles every output
// flag. input labels the run in the archive.
func filterAndWrite(cmd *cobra.Command, papers []types.Paper, input string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	criteria, preset, err := criteriaFromFlags(cmd, cfg)
	if err != nil {
		return err
	}

	if dedupe, _ := cmd.Flags().GetBool("dedupe"); dedupe {
		var removed int
		papers, removed = search.Deduplicate(papers)
		fmt.Fprintf(os.Stderr, "removed %d duplicates\n", removed)
	}

	assessor, err := newAssessor(cfg, nil)
	if err != nil {
		return err
	}

	collector := store.NewCollector()
	recorders := filter.Recorders{collector}
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	var fm *metrics.FilterMetrics
	if metricsFile != "" {
		fm = metrics.NewFilterMetrics()
		recorders = append(recorders, fm)
	}

	workers, _ := cmd.Flags().GetInt("workers")
	pl := filter.NewPipeline(assessor, filter.Options{
		Workers:  workers,
		Logger:   logger,
		Recorder: recorders,
	})
	survivors, report := pl.Filter(papers, criteria)
	filter.FormatSummary(os.Stderr, report)

	if err := writeResults(cmd, survivors); err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := writeReport(path, report); err != nil {
			return err
		}
	}
	if fm != nil {
		if err := fm.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.StorePath
	}
	if dbPath != "" {
		if err := archiveRun(commandContext(cmd), dbPath, collector.Run(input, preset, criteria)); err != nil {
			return err
		}
	}
	return nil
}

// criteriaFromFlags starts from the preset or config criteria and applies
// any explicitly set flag. It returns the preset name used, if any.
func criteriaFromFlags(cmd *cobra.Command, cfg types.Config) (types.FilterCriteria, string, error) {
	fromConfig := filter.CriteriaFromConfig(cfg.QualityFilters)
	criteria := fromConfig

	preset, _ := cmd.Flags().GetString("preset")
	if preset != "" {
		c, err := filter.Preset(preset)
		if err != nil {
			return criteria, "", err
		}
		c.CustomRules = fromConfig.CustomRules
		criteria = c
		preset = strings.ToLower(strings.TrimSpace(preset))
	}

	flags := cmd.Flags()
	if flags.Changed("exclude-publisher") {
		criteria.ExcludePublishers, _ = flags.GetStringSlice("exclude-publisher")
	}
	if flags.Changed("include-publisher") {
		criteria.IncludePublishers, _ = flags.GetStringSlice("include-publisher")
	}
	if flags.Changed("min-impact-factor") {
		criteria.MinImpactFactor, _ = flags.GetFloat64("min-impact-factor")
	}
	if flags.Changed("min-quartile") {
		q, _ := flags.GetString("min-quartile")
		criteria.MinQuartile = types.Quartile(strings.ToUpper(strings.TrimSpace(q)))
	}
	if flags.Changed("min-citations") {
		criteria.MinCitationCount, _ = flags.GetInt("min-citations")
	}
	if flags.Changed("relevance-threshold") {
		criteria.RelevanceThreshold, _ = flags.GetFloat64("relevance-threshold")
	}
	if flags.Changed("allow-preprints") {
		criteria.AllowPreprints, _ = flags.GetBool("allow-preprints")
	}
	return criteria, preset, nil
}

func writeResults(cmd *cobra.Command, papers []types.Paper) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	var err error
	switch format {
	case "table", "":
		err = filter.FormatTable(w, papers)
	case "json":
		err = ingest.WriteJSON(w, papers)
	case "jsonl":
		err = ingest.WriteJSONL(w, papers)
	case "csl":
		err = ingest.WriteCSL(w, papers)
	default:
		return fmt.Errorf("unsupported format %q: use table, json, jsonl, or csl", format)
	}
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "wrote %d papers to %s\n", len(papers), output)
	}
	return nil
}

func writeReport(path string, r filter.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func archiveRun(ctx context.Context, dbPath string, run store.Run) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.SaveRun(ctx, run)
	if err != nil {
		return err
	}
	logger.Info("run archived", zap.String("run_id", id), zap.String("db", dbPath))
	fmt.Fprintf(os.Stderr, "archived run %s\n", id)
	return nil
}
