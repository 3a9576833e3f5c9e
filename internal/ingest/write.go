// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/phm-curator/pkg/types"
)

// ToMap renders p as a generic record: the typed fields under their JSON
// names, then every Extra key the typed fields do not set. A raw value kept
// for a modeled key replaces its typed rendering. When both sides hold an
// object under any other key the two are merged and typed values win, so a
// caller's quality_indicators keys sit beside the derived ones.
func ToMap(p types.Paper) (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding paper %q: %w", p.ID, err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encoding paper %q: %w", p.ID, err)
	}
	for k, v := range p.Extra {
		if modeledKeys[k] {
			m[k] = normalize(v)
			continue
		}
		m[k] = merge(m[k], v)
	}
	return m, nil
}

// merge combines a typed value with an extra value for the same key.
func merge(typed, extra any) any {
	if typed == nil {
		return normalize(extra)
	}
	tm, ok1 := typed.(map[string]any)
	em, ok2 := normalize(extra).(map[string]any)
	if !ok1 || !ok2 {
		return typed
	}
	for k, v := range em {
		tm[k] = merge(tm[k], v)
	}
	return tm
}

// normalize returns a copy of v with map[any]any values, which some YAML
// producers emit, converted into JSON-encodable map[string]any. The
// caller's Extra is never modified.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	}
	return v
}

// WriteJSON writes papers to w as an indented JSON array with extras
// preserved.
func WriteJSON(w io.Writer, papers []types.Paper) error {
	records := make([]map[string]any, 0, len(papers))
	for _, p := range papers {
		m, err := ToMap(p)
		if err != nil {
			return err
		}
		records = append(records, m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}

// WriteJSONL writes one JSON record per line.
func WriteJSONL(w io.Writer, papers []types.Paper) error {
	enc := json.NewEncoder(w)
	for _, p := range papers {
		m, err := ToMap(p)
		if err != nil {
			return err
		}
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("writing JSON line: %w", err)
		}
	}
	return nil
}
