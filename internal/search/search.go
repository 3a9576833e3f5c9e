// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries bibliographic APIs for candidate papers and returns
// unified, deduplicated paper records.
//
// Each API is a Source. Sources run concurrently; a failing source is
// reported and skipped rather than failing the whole search.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/phm-curator/pkg/types"
)

// ErrEmptyQuery is returned when a query has no searchable terms.
var ErrEmptyQuery = errors.New("query is empty: provide a research question or structured parameters")

// Source searches a single bibliographic API.
type Source interface {
	Name() string
	Search(ctx context.Context, query Query) ([]types.Paper, error)
	Status(ctx context.Context) Status
}

// Status describes the health of a source.
type Status struct {
	Name    string        `json:"name" yaml:"name"`
	Healthy bool          `json:"healthy" yaml:"healthy"`
	Latency time.Duration `json:"latency" yaml:"latency"`
	Error   string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Query holds the search parameters.
type Query struct {
	FreeText string
	Author   string
	Keywords []string

	// FromYear and ToYear bound the publication year; zero means open.
	FromYear int
	ToYear   int

	// MaxResults caps the records requested from each source.
	MaxResults int
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.FreeText) == "" && strings.TrimSpace(q.Author) == "" && len(q.Keywords) == 0
}

// terms joins the query fields into one search string.
func (q Query) terms() string {
	var parts []string
	if q.FreeText != "" {
		parts = append(parts, q.FreeText)
	}
	if q.Author != "" {
		parts = append(parts, q.Author)
	}
	parts = append(parts, q.Keywords...)
	return strings.Join(parts, " ")
}

func (q Query) limit(def, ceiling int) int {
	n := q.MaxResults
	if n <= 0 {
		n = def
	}
	if ceiling > 0 && n > ceiling {
		n = ceiling
	}
	return n
}

// Output holds merged results and per-source statistics.
type Output struct {
	Papers       []types.Paper
	DupsRemoved  int
	PerSource    map[string]int
	SourceErrors []string
}

// Collect fans the query out to all sources concurrently and deduplicates
// the combined results. Records keep source order: the first source listed
// contributes first. Progress and source failures are written to w.
func Collect(ctx context.Context, query Query, sources []Source, w io.Writer) (Output, error) {
	if query.IsEmpty() {
		return Output{}, ErrEmptyQuery
	}
	if len(sources) == 0 {
		return Output{}, fmt.Errorf("no search sources configured")
	}

	type sourceResult struct {
		papers []types.Paper
		err    error
	}

	results := make([]sourceResult, len(sources))
	var wg sync.WaitGroup
	for i, s := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			papers, err := s.Search(ctx, query)
			results[i] = sourceResult{papers: papers, err: err}
		}()
	}
	wg.Wait()

	out := Output{PerSource: make(map[string]int, len(sources))}
	var all []types.Paper
	for i, r := range results {
		name := sources[i].Name()
		if r.err != nil {
			out.SourceErrors = append(out.SourceErrors, fmt.Sprintf("%s: %v", name, r.err))
			fmt.Fprintf(w, "warning: source %s failed: %v\n", name, r.err)
			continue
		}
		out.PerSource[name] = len(r.papers)
		fmt.Fprintf(w, "%s: %d records\n", name, len(r.papers))
		all = append(all, r.papers...)
	}

	if len(out.SourceErrors) == len(sources) {
		return out, fmt.Errorf("all sources failed: %s", strings.Join(out.SourceErrors, "; "))
	}

	out.Papers, out.DupsRemoved = Deduplicate(all)
	return out, nil
}

// CheckStatus probes every source concurrently.
func CheckStatus(ctx context.Context, sources []Source) []Status {
	out := make([]Status, len(sources))
	var wg sync.WaitGroup
	for i, s := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = s.Status(ctx)
		}()
	}
	wg.Wait()
	return out
}

// probe times a status request made by fn.
func probe(ctx context.Context, name string, fn func(context.Context) error) Status {
	start := time.Now()
	err := fn(ctx)
	st := Status{Name: name, Healthy: err == nil, Latency: time.Since(start)}
	if err != nil {
		st.Error = err.Error()
	}
	return st
}
