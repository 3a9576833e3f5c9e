// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/phm-curator/internal/httputil"
	"github.com/pdiddy/phm-curator/internal/reputation"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlexSource queries the OpenAlex API.
type OpenAlexSource struct {
	Client *httputil.Client
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the source identifier.
func (s *OpenAlexSource) Name() string { return "openalex" }

// Search queries the OpenAlex API and maps works to papers.
func (s *OpenAlexSource) Search(ctx context.Context, query Query) ([]types.Paper, error) {
	searchText := query.terms()
	if strings.TrimSpace(searchText) == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{
		"search":   {searchText},
		"per_page": {strconv.Itoa(query.limit(50, 200))},
		"page":     {"1"},
	}

	var filters []string
	if query.FromYear > 0 {
		filters = append(filters, fmt.Sprintf("from_publication_date:%d-01-01", query.FromYear))
	}
	if query.ToYear > 0 {
		filters = append(filters, fmt.Sprintf("to_publication_date:%d-12-31", query.ToYear))
	}
	if len(filters) > 0 {
		params.Set("filter", strings.Join(filters, ","))
	}
	if s.Email != "" {
		params.Set("mailto", s.Email)
	}

	var oar openAlexResponse
	if err := s.Client.GetJSON(ctx, openAlexSearchBase+"?"+params.Encode(), &oar); err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}

	papers := make([]types.Paper, 0, len(oar.Results))
	for _, work := range oar.Results {
		papers = append(papers, work.toPaper())
	}
	return papers, nil
}

// Status issues a minimal request to check that the API answers.
func (s *OpenAlexSource) Status(ctx context.Context) Status {
	return probe(ctx, s.Name(), func(ctx context.Context) error {
		params := url.Values{"per_page": {"1"}}
		if s.Email != "" {
			params.Set("mailto", s.Email)
		}
		var oar openAlexResponse
		return s.Client.GetJSON(ctx, openAlexSearchBase+"?"+params.Encode(), &oar)
	})
}

func (w openAlexWork) toPaper() types.Paper {
	p := types.Paper{
		Title:      strings.TrimSpace(w.Title),
		Abstract:   reconstructAbstract(w.AbstractInvertedIndex),
		DOI:        reputation.NormalizeDOI(w.DOI),
		OpenAccess: w.OpenAccess.IsOA,
		Source:     "openalex",
	}

	// Prefer DOI as identifier since OpenAlex is DOI-centric.
	p.ID = p.DOI
	if p.ID == "" {
		p.ID = w.ID
	}

	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			p.Authors = append(p.Authors, a.Author.DisplayName)
		}
	}
	for _, kw := range w.Keywords {
		if kw.DisplayName != "" {
			p.Keywords = append(p.Keywords, kw.DisplayName)
		}
	}

	if w.PublicationYear > 0 {
		p.Year = types.Int(w.PublicationYear)
	}
	p.CitationCount = types.Int(w.CitedByCount)

	if src := w.PrimaryLocation.Source; src != nil {
		p.Venue = src.DisplayName
		p.Publisher = reputation.CanonicalPublisher(src.HostOrganizationName)
	}
	p.VenueType = openAlexVenueType(w.Type, w.PrimaryLocation.Source)
	return p
}

// openAlexVenueType maps a work type and its primary source to a venue type.
func openAlexVenueType(workType string, src *openAlexSource) types.VenueType {
	if workType == "preprint" {
		return types.VenuePreprint
	}
	if src != nil {
		switch src.Type {
		case "conference":
			return types.VenueConference
		case "repository":
			if strings.Contains(strings.ToLower(src.DisplayName), "arxiv") {
				return types.VenueArxiv
			}
			return types.VenuePreprint
		}
	}
	return types.VenueJournal
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	Type                  string               `json:"type"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	Keywords              []openAlexKeyword    `json:"keywords"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
	OAURL    string `json:"oa_url"`
}

type openAlexLocation struct {
	Source *openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName          string `json:"display_name"`
	Type                 string `json:"type"`
	HostOrganizationName string `json:"host_organization_name"`
}

type openAlexKeyword struct {
	DisplayName string `json:"display_name"`
}
