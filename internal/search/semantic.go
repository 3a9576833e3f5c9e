// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/phm-curator/internal/httputil"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,externalIds,year,venue,citationCount,publicationTypes,isOpenAccess,publicationVenue"

// SemanticScholarSource queries the Semantic Scholar API.
type SemanticScholarSource struct {
	Client *httputil.Client
	APIKey string
}

// Name returns the source identifier.
func (s *SemanticScholarSource) Name() string { return "semantic_scholar" }

// Search queries the Semantic Scholar API and maps results to papers.
func (s *SemanticScholarSource) Search(ctx context.Context, query Query) ([]types.Paper, error) {
	q := query.terms()
	if strings.TrimSpace(q) == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{
		"query":  {q},
		"limit":  {strconv.Itoa(query.limit(50, 100))},
		"fields": {semanticFields},
	}
	if yr := buildYearRange(query.FromYear, query.ToYear); yr != "" {
		params.Set("year", yr)
	}

	var sr semanticResponse
	if err := s.get(ctx, semanticAPIBase+"?"+params.Encode(), &sr); err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}

	papers := make([]types.Paper, 0, len(sr.Data))
	for _, sp := range sr.Data {
		papers = append(papers, sp.toPaper())
	}
	return papers, nil
}

// Status issues a one-result query to check that the API answers.
func (s *SemanticScholarSource) Status(ctx context.Context) Status {
	return probe(ctx, s.Name(), func(ctx context.Context) error {
		var sr semanticResponse
		return s.get(ctx, semanticAPIBase+"?query=prognostics&limit=1&fields=title", &sr)
	})
}

func (s *SemanticScholarSource) get(ctx context.Context, reqURL string, v any) error {
	if s.APIKey == "" {
		return s.Client.GetJSON(ctx, reqURL, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-api-key", s.APIKey)
	return s.Client.DoJSON(ctx, req, v)
}

func (sp semanticPaper) toPaper() types.Paper {
	p := types.Paper{
		Title:      strings.TrimSpace(sp.Title),
		Abstract:   sp.Abstract,
		Venue:      sp.Venue,
		DOI:        sp.ExternalIDs.DOI,
		OpenAccess: sp.IsOpenAccess,
		Source:     "semantic_scholar",
	}
	if sp.PublicationVenue != nil && sp.PublicationVenue.Name != "" {
		p.Venue = sp.PublicationVenue.Name
	}

	// Set identifiers: prefer DOI, then arXiv ID, then the corpus paper ID.
	switch {
	case sp.ExternalIDs.DOI != "":
		p.ID = sp.ExternalIDs.DOI
	case sp.ExternalIDs.ArXiv != "":
		p.ID = sp.ExternalIDs.ArXiv
	default:
		p.ID = sp.PaperID
	}

	for _, a := range sp.Authors {
		p.Authors = append(p.Authors, a.Name)
	}
	if sp.Year > 0 {
		p.Year = types.Int(sp.Year)
	}
	if sp.CitationCount != nil {
		p.CitationCount = types.Int(*sp.CitationCount)
	}
	p.VenueType = semanticVenueType(sp)
	return p
}

func semanticVenueType(sp semanticPaper) types.VenueType {
	for _, t := range sp.PublicationTypes {
		switch t {
		case "JournalArticle":
			return types.VenueJournal
		case "Conference":
			return types.VenueConference
		}
	}
	if sp.ExternalIDs.ArXiv != "" && sp.ExternalIDs.DOI == "" {
		return types.VenueArxiv
	}
	return types.VenueJournal
}

// buildYearRange returns a Semantic Scholar year filter string (e.g. "2020-2023").
func buildYearRange(from, to int) string {
	switch {
	case from > 0 && to > 0:
		return fmt.Sprintf("%d-%d", from, to)
	case from > 0:
		return fmt.Sprintf("%d-", from)
	case to > 0:
		return fmt.Sprintf("-%d", to)
	default:
		return ""
	}
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID          string              `json:"paperId"`
	Title            string              `json:"title"`
	Abstract         string              `json:"abstract"`
	Year             int                 `json:"year"`
	Venue            string              `json:"venue"`
	CitationCount    *int                `json:"citationCount"`
	IsOpenAccess     bool                `json:"isOpenAccess"`
	PublicationTypes []string            `json:"publicationTypes"`
	PublicationVenue *semanticVenue      `json:"publicationVenue"`
	Authors          []semanticAuthor    `json:"authors"`
	ExternalIDs      semanticExternalIDs `json:"externalIds"`
}

type semanticVenue struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int    `json:"CorpusId"`
}
