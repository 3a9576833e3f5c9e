// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/phm-curator/internal/reputation"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// Deduplicate merges records that share a DOI, an identifier, or a
// fingerprint. The first occurrence is kept and filled in from later ones.
// It returns the merged records and the number removed.
func Deduplicate(papers []types.Paper) ([]types.Paper, int) {
	seen := make(map[string]int)
	out := make([]types.Paper, 0, len(papers))
	removed := 0

	for _, p := range papers {
		keys := dedupKeys(p)
		idx := -1
		for _, k := range keys {
			if i, ok := seen[k]; ok {
				idx = i
				break
			}
		}
		if idx >= 0 {
			mergeInto(&out[idx], p)
			removed++
			for _, k := range dedupKeys(out[idx]) {
				seen[k] = idx
			}
			continue
		}

		idx = len(out)
		out = append(out, p)
		for _, k := range keys {
			seen[k] = idx
		}
	}
	return out, removed
}

func dedupKeys(p types.Paper) []string {
	var keys []string
	if doi := reputation.NormalizeDOI(p.DOI); doi != "" {
		keys = append(keys, "doi:"+doi)
	}
	if id := strings.ToLower(strings.TrimSpace(p.ID)); id != "" {
		keys = append(keys, "id:"+id)
	}
	if fp := Fingerprint(p); fp != "" {
		keys = append(keys, "fp:"+fp)
	}
	return keys
}

// Fingerprint identifies a paper independently of its source: normalized
// title, first-author surname and year joined by "|". It is empty when the
// paper has no title.
func Fingerprint(p types.Paper) string {
	title := normalizeTitle(p.Title)
	if title == "" {
		return ""
	}
	var surname string
	if len(p.Authors) > 0 {
		if f := strings.Fields(p.Authors[0]); len(f) > 0 {
			surname = normalizeTitle(f[len(f)-1])
		}
	}
	year := ""
	if p.Year != nil && *p.Year > 0 {
		year = strconv.Itoa(*p.Year)
	}
	return title + "|" + surname + "|" + year
}

// mergeInto fills empty fields of dst from src and keeps the larger citation
// count.
func mergeInto(dst *types.Paper, src types.Paper) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if len(dst.Authors) == 0 {
		dst.Authors = src.Authors
	}
	if dst.Abstract == "" {
		dst.Abstract = src.Abstract
	}
	if len(dst.Keywords) == 0 {
		dst.Keywords = src.Keywords
	}
	if dst.Venue == "" {
		dst.Venue = src.Venue
	}
	switch {
	case dst.VenueType == "":
		dst.VenueType = src.VenueType
	case dst.IsPreprint() && src.VenueType != "" && !src.IsPreprint():
		// A published version outranks a preprint of the same work.
		dst.VenueType = src.VenueType
		if src.Venue != "" {
			dst.Venue = src.Venue
		}
	}
	if dst.Publisher == "" {
		dst.Publisher = src.Publisher
	}
	if dst.DOI == "" {
		dst.DOI = src.DOI
	}
	if dst.Year == nil {
		dst.Year = src.Year
	}
	if src.CitationCount != nil && (dst.CitationCount == nil || *src.CitationCount > *dst.CitationCount) {
		dst.CitationCount = src.CitationCount
	}
	if dst.ImpactFactor == nil {
		dst.ImpactFactor = src.ImpactFactor
	}
	dst.OpenAccess = dst.OpenAccess || src.OpenAccess
	if src.Source != "" && !containsToken(dst.Source, src.Source) {
		if dst.Source == "" {
			dst.Source = src.Source
		} else {
			dst.Source += "," + src.Source
		}
	}
}

func containsToken(list, tok string) bool {
	for _, s := range strings.Split(list, ",") {
		if s == tok {
			return true
		}
	}
	return false
}

// normalizeTitle returns a lowercased, punctuation-stripped version of s.
func normalizeTitle(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
