// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/phm-curator/internal/httputil"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivSource queries the arXiv API. Every record it returns is a preprint.
type ArxivSource struct {
	Client *httputil.Client
}

// Name returns the source identifier.
func (s *ArxivSource) Name() string { return "arxiv" }

// Search queries the arXiv API and maps entries to papers.
func (s *ArxivSource) Search(ctx context.Context, query Query) ([]types.Paper, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	url := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, q, query.limit(50, 0))

	feed, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var papers []types.Paper
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		p := types.Paper{
			ID:        arxivID,
			Title:     strings.Join(strings.Fields(entry.Title), " "),
			Abstract:  strings.TrimSpace(entry.Summary),
			Venue:     "arXiv",
			VenueType: types.VenueArxiv,
			DOI:       strings.TrimSpace(entry.DOI),
			Source:    "arxiv",
			// arXiv postings are free to read.
			OpenAccess: true,
		}
		for _, a := range entry.Authors {
			p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
		}
		for _, c := range entry.Categories {
			p.Keywords = append(p.Keywords, c.Term)
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			p.Year = types.Int(t.Year())
		}
		if !yearInRange(p.Year, query) {
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// Status issues a one-result query to check that the API answers.
func (s *ArxivSource) Status(ctx context.Context) Status {
	return probe(ctx, s.Name(), func(ctx context.Context) error {
		_, err := s.fetch(ctx, arxivAPIBase+"?search_query=all:prognostics&max_results=1")
		return err
	})
}

func (s *ArxivSource) fetch(ctx context.Context, url string) (*arxivFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.Client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

// yearInRange applies the query's year bounds; arXiv has no server-side
// year filter.
func yearInRange(year *int, q Query) bool {
	if year == nil {
		return q.FromYear == 0 && q.ToYear == 0
	}
	if q.FromYear > 0 && *year < q.FromYear {
		return false
	}
	if q.ToYear > 0 && *year > q.ToYear {
		return false
	}
	return true
}

// buildArxivQuery constructs the search_query parameter from structured fields.
func buildArxivQuery(q Query) string {
	var parts []string

	if q.FreeText != "" {
		terms := strings.Fields(q.FreeText)
		parts = append(parts, "all:"+strings.Join(terms, "+"))
	}
	if q.Author != "" {
		terms := strings.Fields(q.Author)
		parts = append(parts, "au:"+strings.Join(terms, "+"))
	}
	for _, kw := range q.Keywords {
		terms := strings.Fields(kw)
		if len(terms) == 0 {
			continue
		}
		parts = append(parts, "all:"+strings.Join(terms, "+"))
	}

	return strings.Join(parts, "+AND+")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	DOI        string          `xml:"doi"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" becomes "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
