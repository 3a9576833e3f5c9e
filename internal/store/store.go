// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store archives filter runs in SQLite: the criteria used, the
// report, and every paper's outcome with its rejection reasons. The archive
// is a history of decisions, not a source of truth for later runs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/phm-curator/internal/filter"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// ErrRunNotFound is returned when a run ID is not in the archive.
var ErrRunNotFound = errors.New("run not found")

// Run is one archived filter invocation.
type Run struct {
	ID        string
	StartedAt time.Time
	Elapsed   time.Duration

	// Input names what was filtered: a file path or a search query.
	Input  string
	Preset string

	Criteria types.FilterCriteria
	Report   filter.Report
	Papers   []PaperOutcome
}

// PaperOutcome records how one paper fared.
type PaperOutcome struct {
	PaperID string            `json:"paper_id" yaml:"paper_id"`
	Title   string            `json:"title" yaml:"title"`
	Passed  bool              `json:"passed" yaml:"passed"`
	Score   float64           `json:"score" yaml:"score"`
	Tier    types.QualityTier `json:"tier,omitempty" yaml:"tier,omitempty"`
	Reasons []filter.Reason   `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

// RunSummary is a row of the run listing.
type RunSummary struct {
	ID         string    `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	Input      string    `json:"input" yaml:"input"`
	Preset     string    `json:"preset,omitempty" yaml:"preset,omitempty"`
	Total      int       `json:"total" yaml:"total"`
	Passed     int       `json:"passed" yaml:"passed"`
	FilterRate float64   `json:"filter_rate" yaml:"filter_rate"`
}

// ReasonCount is the number of papers a reason rejected in one run.
type ReasonCount struct {
	Check   filter.Check `json:"check" yaml:"check"`
	Message string       `json:"message" yaml:"message"`
	Count   int          `json:"count" yaml:"count"`
}

// Store manages the run archive database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite archive at path and creates the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			elapsed_ms INTEGER,
			input TEXT,
			preset TEXT,
			criteria TEXT,
			report TEXT,
			total INTEGER,
			passed INTEGER,
			filter_rate REAL
		)`,
		`CREATE TABLE IF NOT EXISTS run_papers (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			paper_id TEXT,
			title TEXT,
			passed INTEGER NOT NULL,
			score REAL,
			tier TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS run_reasons (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			check_name TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_run_reasons_run_id ON run_reasons(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun archives r in one transaction and returns its ID. A new UUID is
// assigned when r.ID is empty; a zero StartedAt becomes the current time.
func (s *Store) SaveRun(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}

	criteriaJSON, err := json.Marshal(r.Criteria)
	if err != nil {
		return "", fmt.Errorf("encoding criteria: %w", err)
	}
	reportJSON, err := json.Marshal(r.Report)
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, elapsed_ms, input, preset, criteria, report, total, passed, filter_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(time.RFC3339Nano), r.Elapsed.Milliseconds(),
		r.Input, r.Preset, string(criteriaJSON), string(reportJSON),
		r.Report.TotalPapers, r.Report.PassedCount, r.Report.FilterRate,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	paperStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_papers (run_id, position, paper_id, title, passed, score, tier)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing paper insert: %w", err)
	}
	defer paperStmt.Close()

	reasonStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_reasons (run_id, position, check_name, message) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing reason insert: %w", err)
	}
	defer reasonStmt.Close()

	for i, p := range r.Papers {
		if _, err := paperStmt.ExecContext(ctx,
			r.ID, i, p.PaperID, p.Title, p.Passed, p.Score, string(p.Tier),
		); err != nil {
			return "", fmt.Errorf("inserting paper %s: %w", p.PaperID, err)
		}
		for _, reason := range p.Reasons {
			if _, err := reasonStmt.ExecContext(ctx,
				r.ID, i, string(reason.Check), reason.Message,
			); err != nil {
				return "", fmt.Errorf("inserting reason for %s: %w", p.PaperID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return r.ID, nil
}

// ListRuns returns up to limit runs, newest first. A limit of 0 or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `SELECT id, started_at, input, preset, total, passed, filter_rate
		FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var rs RunSummary
		var started string
		var input, preset sql.NullString
		if err := rows.Scan(&rs.ID, &started, &input, &preset, &rs.Total, &rs.Passed, &rs.FilterRate); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rs.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		rs.Input = input.String
		rs.Preset = preset.String
		runs = append(runs, rs)
	}
	return runs, rows.Err()
}

// RunReasons returns the rejection reasons of run id with their counts,
// most frequent first.
func (s *Store) RunReasons(ctx context.Context, id string) ([]ReasonCount, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT check_name, message, count(*) AS n FROM run_reasons
		 WHERE run_id = ? GROUP BY check_name, message ORDER BY n DESC, message`, id)
	if err != nil {
		return nil, fmt.Errorf("querying reasons: %w", err)
	}
	defer rows.Close()

	var out []ReasonCount
	for rows.Next() {
		var rc ReasonCount
		var check string
		if err := rows.Scan(&check, &rc.Message, &rc.Count); err != nil {
			return nil, fmt.Errorf("scanning reason: %w", err)
		}
		rc.Check = filter.Check(check)
		out = append(out, rc)
	}
	return out, rows.Err()
}

// RunPapers returns the per-paper outcomes of run id in input order.
func (s *Store) RunPapers(ctx context.Context, id string) ([]PaperOutcome, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, paper_id, title, passed, score, tier FROM run_papers
		 WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var out []PaperOutcome
	byPos := make(map[int]int)
	for rows.Next() {
		var po PaperOutcome
		var pos int
		var tier sql.NullString
		if err := rows.Scan(&pos, &po.PaperID, &po.Title, &po.Passed, &po.Score, &tier); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		po.Tier = types.QualityTier(tier.String)
		byPos[pos] = len(out)
		out = append(out, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reasons, err := s.db.QueryContext(ctx,
		`SELECT position, check_name, message FROM run_reasons
		 WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("querying reasons: %w", err)
	}
	defer reasons.Close()
	for reasons.Next() {
		var pos int
		var r filter.Reason
		var check string
		if err := reasons.Scan(&pos, &check, &r.Message); err != nil {
			return nil, fmt.Errorf("scanning reason: %w", err)
		}
		r.Check = filter.Check(check)
		if i, ok := byPos[pos]; ok {
			out[i].Reasons = append(out[i].Reasons, r)
		}
	}
	return out, reasons.Err()
}

func (s *Store) exists(ctx context.Context, id string) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("looking up run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
