// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/phm-curator/internal/reputation"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names follow the CSL-YAML schema so that output is
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes papers as a CSL-YAML list to w.
func WriteCSL(w io.Writer, papers []types.Paper) error {
	items := make([]CSLItem, len(papers))
	for i, p := range papers {
		items[i] = ToCSLItem(p)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// ToCSLItem converts a paper to a CSL item.
func ToCSLItem(p types.Paper) CSLItem {
	item := CSLItem{
		ID:             p.ID,
		Type:           cslType(p.VenueType),
		Title:          p.Title,
		Abstract:       p.Abstract,
		ContainerTitle: p.Venue,
		Publisher:      p.Publisher,
		DOI:            reputation.NormalizeDOI(p.DOI),
		Keyword:        strings.Join(p.Keywords, ", "),
	}

	for _, a := range p.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if p.Year != nil && *p.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{*p.Year}}}
	}

	// Fall back to the identifier if it looks like a DOI.
	if item.DOI == "" && strings.HasPrefix(p.ID, "10.") {
		item.DOI = p.ID
	}
	return item
}

func cslType(vt types.VenueType) string {
	switch vt {
	case types.VenueJournal:
		return "article-journal"
	case types.VenueConference:
		return "paper-conference"
	}
	return "article"
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
