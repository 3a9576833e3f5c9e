// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/phm-curator/internal/httputil"
	"github.com/pdiddy/phm-curator/internal/search"
	"github.com/pdiddy/phm-curator/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search bibliographic APIs and filter the results",
	Long: `Search queries OpenAlex, arXiv and Semantic Scholar for papers matching
a research question or structured query parameters. Results are deduplicated
across sources and then filtered exactly like the filter command.

Use --save to keep the raw merged results as a YAML query file; the file can
be passed back to filter with --input.`,
	RunE: runSearch,
}

var searchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe each enabled source",
	RunE:  runSearchStatus,
}

func init() {
	addQueryFlags(searchCmd)
	searchCmd.Flags().String("save", "", "write the unfiltered results to this YAML query file")
	addFilterFlags(searchCmd)

	searchStatusCmd.Flags().Bool("json", false, "output status as JSON")
	searchCmd.AddCommand(searchStatusCmd)

	rootCmd.AddCommand(searchCmd)
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "free-text research question")
	cmd.Flags().String("author", "", "filter by author name")
	cmd.Flags().String("keywords", "", "filter by keywords (comma-separated)")
	cmd.Flags().Int("from-year", 0, "earliest publication year")
	cmd.Flags().Int("to-year", 0, "latest publication year")
	cmd.Flags().Int("max-results", 0, "records requested per source (default search.max_results)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	q, err := queryFromFlags(cmd, cfg.Search)
	if err != nil {
		return err
	}

	sources := buildSources(cfg.Search)
	out, err := search.Collect(commandContext(cmd), q, sources, os.Stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "collected %d papers (%d duplicates removed)\n", len(out.Papers), out.DupsRemoved)

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := search.WriteQueryFile(path, q, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved results to %s\n", path)
	}

	return filterAndWrite(cmd, out.Papers, "search:"+q.FreeText)
}

// queryFromFlags builds a Query, defaulting MaxResults from the config.
func queryFromFlags(cmd *cobra.Command, cfg types.SearchConfig) (search.Query, error) {
	flags := cmd.Flags()
	var q search.Query
	q.FreeText, _ = flags.GetString("query")
	q.Author, _ = flags.GetString("author")
	if kw, _ := flags.GetString("keywords"); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				q.Keywords = append(q.Keywords, k)
			}
		}
	}
	q.FromYear, _ = flags.GetInt("from-year")
	q.ToYear, _ = flags.GetInt("to-year")
	q.MaxResults, _ = flags.GetInt("max-results")
	if q.MaxResults <= 0 {
		q.MaxResults = cfg.MaxResults
	}

	if q.FromYear > 0 && q.ToYear > 0 && q.FromYear > q.ToYear {
		return q, fmt.Errorf("invalid year range %d-%d", q.FromYear, q.ToYear)
	}
	if q.IsEmpty() {
		return q, search.ErrEmptyQuery
	}
	return q, nil
}

// buildSources returns the enabled sources, each with its own client so
// that rate limits and circuit breakers are independent.
func buildSources(cfg types.SearchConfig) []search.Source {
	client := func(name string) *httputil.Client {
		return httputil.NewClient(httputil.Options{
			Name:              name,
			Timeout:           cfg.Timeout,
			UserAgent:         cfg.UserAgent,
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxRetries:        cfg.MaxRetries,
			Logger:            logger.Named(name),
		})
	}

	var sources []search.Source
	if cfg.EnableOpenAlex {
		sources = append(sources, &search.OpenAlexSource{Client: client("openalex"), Email: cfg.OpenAlexEmail})
	}
	if cfg.EnableArxiv {
		sources = append(sources, &search.ArxivSource{Client: client("arxiv")})
	}
	if cfg.EnableSemanticScholar {
		sources = append(sources, &search.SemanticScholarSource{Client: client("semantic_scholar"), APIKey: cfg.SemanticScholarAPIKey})
	}
	return sources
}

func runSearchStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	statuses := search.CheckStatus(commandContext(cmd), buildSources(cfg.Search))

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return encodeJSON(statuses)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tHEALTHY\tLATENCY\tERROR")
	for _, s := range statuses {
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", s.Name, s.Healthy, s.Latency.Round(time.Millisecond), s.Error)
	}
	return tw.Flush()
}
