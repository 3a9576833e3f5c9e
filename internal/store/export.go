// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/phm-curator/internal/filter"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// ExportRun is the serialized form of one archived run.
type ExportRun struct {
	ID        string               `json:"id" yaml:"id"`
	StartedAt time.Time            `json:"started_at" yaml:"started_at"`
	ElapsedMS int64                `json:"elapsed_ms" yaml:"elapsed_ms"`
	Input     string               `json:"input" yaml:"input"`
	Preset    string               `json:"preset,omitempty" yaml:"preset,omitempty"`
	Criteria  types.FilterCriteria `json:"criteria" yaml:"criteria"`
	Report    filter.Report        `json:"report" yaml:"report"`
	Papers    []PaperOutcome       `json:"papers" yaml:"papers"`
}

// LoadRun reads back the full run id, including criteria, report and
// per-paper outcomes.
func (s *Store) LoadRun(ctx context.Context, id string) (Run, error) {
	var r Run
	var started string
	var elapsedMS sql.NullInt64
	var input, preset, criteria, report sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, elapsed_ms, input, preset, criteria, report FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &started, &elapsedMS, &input, &preset, &criteria, &report)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return r, fmt.Errorf("loading run: %w", err)
	}

	r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	r.Elapsed = time.Duration(elapsedMS.Int64) * time.Millisecond
	r.Input = input.String
	r.Preset = preset.String
	if criteria.String != "" {
		if err := json.Unmarshal([]byte(criteria.String), &r.Criteria); err != nil {
			return r, fmt.Errorf("decoding criteria: %w", err)
		}
	}
	if report.String != "" {
		if err := json.Unmarshal([]byte(report.String), &r.Report); err != nil {
			return r, fmt.Errorf("decoding report: %w", err)
		}
	}

	r.Papers, err = s.RunPapers(ctx, id)
	if err != nil {
		return r, err
	}
	return r, nil
}

// ExportYAML writes run id as YAML to w.
func (s *Store) ExportYAML(ctx context.Context, id string, w io.Writer) error {
	e, err := s.exportRun(ctx, id)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes run id as indented JSON to w.
func (s *Store) ExportJSON(ctx context.Context, id string, w io.Writer) error {
	e, err := s.exportRun(ctx, id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (s *Store) exportRun(ctx context.Context, id string) (ExportRun, error) {
	r, err := s.LoadRun(ctx, id)
	if err != nil {
		return ExportRun{}, err
	}
	papers := r.Papers
	if papers == nil {
		papers = []PaperOutcome{}
	}
	return ExportRun{
		ID:        r.ID,
		StartedAt: r.StartedAt,
		ElapsedMS: r.Elapsed.Milliseconds(),
		Input:     r.Input,
		Preset:    r.Preset,
		Criteria:  r.Criteria,
		Report:    r.Report,
		Papers:    papers,
	}, nil
}
