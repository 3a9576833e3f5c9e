// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/phm-curator/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived filter runs",
	Long: `Runs lists the filter runs archived in the SQLite store (store_path or
--db), newest first. Use "runs show <id>" for the rejection breakdown and
per-paper outcomes of one run.`,
	RunE: runListRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show rejection reasons and paper outcomes for one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var runsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write one archived run as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportRun,
}

func init() {
	runsCmd.PersistentFlags().String("db", "", "run archive database (default store_path)")
	runsCmd.PersistentFlags().Bool("json", false, "output as JSON")
	runsCmd.Flags().Int("limit", 20, "maximum runs to list (0 for all)")
	runsShowCmd.Flags().Bool("papers", false, "include per-paper outcomes")
	runsExportCmd.Flags().String("output", "", "write the export to this file (default stdout)")

	runsCmd.AddCommand(runsShowCmd, runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("store_path")
	}
	if dbPath == "" {
		return nil, fmt.Errorf("no run archive configured: set store_path or pass --db")
	}
	return store.Open(dbPath)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runListRuns(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := s.ListRuns(commandContext(cmd), limit)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return encodeJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs archived")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tPRESET\tPASSED\tTOTAL\tFILTERED\tINPUT")
	for _, r := range runs {
		preset := r.Preset
		if preset == "" {
			preset = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.1f%%\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), preset,
			r.Passed, r.Total, r.FilterRate*100, r.Input)
	}
	return tw.Flush()
}

func runShowRun(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	reasons, err := s.RunReasons(ctx, args[0])
	if err != nil {
		return err
	}
	var papers []store.PaperOutcome
	if withPapers, _ := cmd.Flags().GetBool("papers"); withPapers {
		if papers, err = s.RunPapers(ctx, args[0]); err != nil {
			return err
		}
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return encodeJSON(struct {
			Reasons []store.ReasonCount  `json:"reasons"`
			Papers  []store.PaperOutcome `json:"papers,omitempty"`
		}{reasons, papers})
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COUNT\tCHECK\tREASON")
	for _, r := range reasons {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Count, r.Check, r.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(papers) == 0 {
		return nil
	}
	fmt.Fprintln(os.Stdout)
	tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RESULT\tSCORE\tTIER\tID\tTITLE")
	for _, p := range papers {
		result := "PASS"
		if !p.Passed {
			result = "FAIL"
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%s\t%s\t%s\n", result, p.Score, p.Tier, p.PaperID, p.Title)
	}
	return tw.Flush()
}

func runExportRun(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	w := os.Stdout
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return s.ExportJSON(commandContext(cmd), args[0], w)
	}
	return s.ExportYAML(commandContext(cmd), args[0], w)
}

func encodeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
