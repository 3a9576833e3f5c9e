// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest reads caller-supplied paper records into types.Paper and
// writes annotated papers back out.
//
// Decoding is lenient. A present field with the wrong type or a blank value
// is treated as absent, and common aliases from bibliographic APIs are
// accepted (cited_by_count, publication_year, type). Keys that are not
// modeled land in Paper.Extra and are re-emitted by WriteJSON, so the
// caller's fields survive a round trip. A modeled value that cannot be
// coerced, or whose typed form differs (a venue_type of "Journal Article", a
// semicolon-separated authors string), is typed for scoring and also kept
// raw in Extra, and the raw value is what gets written back.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/phm-curator/pkg/types"
)

// ErrUnsupportedFormat is returned for an input format this package cannot
// decode.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Format names an input encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// ReadFile decodes the papers in path, choosing the format by extension.
func ReadFile(path string) ([]types.Paper, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	papers, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return papers, nil
}

// Decode reads papers from r. JSON and YAML input may be a list of records
// or an object with a "papers" list, which is what saved search files look
// like. JSON lines input holds one record per line; blank lines are skipped.
func Decode(r io.Reader, format Format) ([]types.Paper, error) {
	var records []map[string]any
	var err error
	switch format {
	case FormatJSON:
		records, err = decodeJSON(r)
	case FormatJSONL:
		records, err = decodeJSONL(r)
	case FormatYAML:
		records, err = decodeYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	papers := make([]types.Paper, 0, len(records))
	for _, m := range records {
		papers = append(papers, FromMap(m))
	}
	return papers, nil
}

func decodeJSON(r io.Reader) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '{' {
		var wrapped struct {
			Papers []map[string]any `json:"papers"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		return wrapped.Papers, nil
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return records, nil
}

func decodeJSONL(r io.Reader) ([]map[string]any, error) {
	var records []map[string]any
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(text, &m); err != nil {
			return nil, fmt.Errorf("parsing JSON line %d: %w", line, err)
		}
		records = append(records, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading JSON lines: %w", err)
	}
	return records, nil
}

func decodeYAML(r io.Reader) ([]map[string]any, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	var list []any
	switch v := doc.(type) {
	case []any:
		list = v
	case map[string]any:
		l, ok := v["papers"].([]any)
		if !ok {
			return nil, fmt.Errorf("parsing YAML: expected a list of papers or a papers key")
		}
		list = l
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("parsing YAML: expected a list of papers, got %T", doc)
	}

	records := make([]map[string]any, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parsing YAML: record %d is %T, not a mapping", i, item)
		}
		records = append(records, m)
	}
	return records, nil
}

// modeledKeys are the record keys FromMap consumes into typed fields.
var modeledKeys = map[string]bool{
	"id": true, "title": true, "authors": true, "abstract": true, "keywords": true,
	"venue": true, "venue_type": true, "publisher": true, "year": true,
	"citation_count": true, "impact_factor": true, "doi": true, "open_access": true,
	"phm_relevance_score": true, "source": true,
}

// FromMap converts one decoded record into a Paper. It never fails: fields
// that cannot be coerced are left absent. Every key outside the modeled set,
// aliases and derived blocks included, is kept in Extra, and so is the raw
// value of a modeled key whose typed form does not reproduce it.
func FromMap(m map[string]any) types.Paper {
	p := types.Paper{
		ID:        str(m["id"]),
		Title:     str(m["title"]),
		Authors:   names(m["authors"]),
		Abstract:  str(m["abstract"]),
		Keywords:  list(m["keywords"]),
		Venue:     str(m["venue"]),
		Publisher: str(m["publisher"]),
		DOI:       str(m["doi"]),
		Source:    str(m["source"]),
	}

	p.VenueType = venueType(first(m, "venue_type", "type"))
	p.Year = positiveInt(first(m, "year", "publication_year"))

	nested, _ := m["quality_indicators"].(map[string]any)
	p.CitationCount = nonNegativeInt(first(m, "citation_count", "cited_by_count", "citations"))
	if p.CitationCount == nil && nested != nil {
		p.CitationCount = nonNegativeInt(nested["citations"])
	}
	p.ImpactFactor = nonNegativeFloat(m["impact_factor"])
	if p.ImpactFactor == nil && nested != nil {
		p.ImpactFactor = nonNegativeFloat(nested["impact_factor"])
	}

	p.RelevanceScore = nonNegativeFloat(m["phm_relevance_score"])
	if b, err := cast.ToBoolE(first(m, "open_access", "is_oa")); err == nil {
		p.OpenAccess = b
	}

	typed := typedFields(p)
	for k, v := range m {
		if modeledKeys[k] && (v == nil || sameValue(typed[k], v)) {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[k] = v
	}
	return p
}

// typedFields renders the modeled fields of p under their record keys.
func typedFields(p types.Paper) map[string]any {
	data, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

// sameValue reports whether a typed field re-emits the raw value. Strings
// compare after trimming surrounding whitespace.
func sameValue(typed, raw any) bool {
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
	}
	a, errA := json.Marshal(typed)
	b, errB := json.Marshal(normalize(raw))
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// first returns the first key of m holding a non-blank value.
func first(m map[string]any, keys ...string) any {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func str(v any) string {
	switch v.(type) {
	case nil, map[string]any, []any:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// names accepts a list of strings, a list of {name: ...} objects, or one
// string with names separated by semicolons.
func names(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, n := range strings.Split(t, ";") {
			if n = strings.TrimSpace(n); n != "" {
				out = append(out, n)
			}
		}
	case []any:
		for _, item := range t {
			var n string
			if obj, ok := item.(map[string]any); ok {
				n = str(first(obj, "name", "display_name"))
			} else {
				n = str(item)
			}
			if n != "" {
				out = append(out, n)
			}
		}
	}
	return out
}

// list accepts a list of strings or one comma-separated string.
func list(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []any:
		raw = cast.ToStringSlice(t)
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func venueType(v any) types.VenueType {
	s := strings.ToLower(str(v))
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "arxiv"):
		return types.VenueArxiv
	case strings.Contains(s, "preprint"), s == "posted-content":
		return types.VenuePreprint
	case strings.Contains(s, "conference"), strings.Contains(s, "proceedings"):
		return types.VenueConference
	case strings.Contains(s, "journal"), s == "article":
		return types.VenueJournal
	}
	return ""
}

func positiveInt(v any) *int {
	p := nonNegativeInt(v)
	if p == nil || *p == 0 {
		return nil
	}
	return p
}

func nonNegativeInt(v any) *int {
	if !numeric(v) {
		return nil
	}
	n, err := cast.ToIntE(v)
	if err != nil || n < 0 {
		return nil
	}
	return types.Int(n)
}

func nonNegativeFloat(v any) *float64 {
	if !numeric(v) {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return types.Float(f)
}

// numeric reports whether v may hold a number: bools, blanks and
// containers never do.
func numeric(v any) bool {
	switch t := v.(type) {
	case nil, bool, map[string]any, []any:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	}
	return true
}
