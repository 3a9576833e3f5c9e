// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/phm-curator/pkg/types"
)

// QueryFile is the on-disk representation of a search query and its
// results. A saved search can be filtered again later without re-querying
// the APIs.
type QueryFile struct {
	Query   QueryParams   `yaml:"query"`
	Papers  []types.Paper `yaml:"papers"`
	Summary QuerySummary  `yaml:"summary"`
}

// QueryParams stores the query parameters in a serializable form.
type QueryParams struct {
	FreeText   string   `yaml:"free_text,omitempty"`
	Author     string   `yaml:"author,omitempty"`
	Keywords   []string `yaml:"keywords,omitempty"`
	FromYear   int      `yaml:"from_year,omitempty"`
	ToYear     int      `yaml:"to_year,omitempty"`
	MaxResults int      `yaml:"max_results,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total             int            `yaml:"total"`
	DuplicatesRemoved int            `yaml:"duplicates_removed"`
	PerSource         map[string]int `yaml:"per_source,omitempty"`
	SourceErrors      []string       `yaml:"source_errors,omitempty"`
	Timestamp         time.Time      `yaml:"timestamp"`
}

// WriteQueryFile saves query parameters and results to a YAML file.
func WriteQueryFile(path string, query Query, out Output) error {
	qf := QueryFile{
		Query: QueryParams{
			FreeText:   query.FreeText,
			Author:     query.Author,
			Keywords:   query.Keywords,
			FromYear:   query.FromYear,
			ToYear:     query.ToYear,
			MaxResults: query.MaxResults,
		},
		Papers: out.Papers,
		Summary: QuerySummary{
			Total:             len(out.Papers),
			DuplicatesRemoved: out.DupsRemoved,
			PerSource:         out.PerSource,
			SourceErrors:      out.SourceErrors,
			Timestamp:         time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToQuery converts stored QueryParams back into a Query.
func (p QueryParams) ToQuery() (Query, error) {
	q := Query{
		FreeText:   p.FreeText,
		Author:     p.Author,
		Keywords:   p.Keywords,
		FromYear:   p.FromYear,
		ToYear:     p.ToYear,
		MaxResults: p.MaxResults,
	}
	if q.FromYear > 0 && q.ToYear > 0 && q.FromYear > q.ToYear {
		return q, fmt.Errorf("invalid year range %d-%d", q.FromYear, q.ToYear)
	}
	return q, nil
}
