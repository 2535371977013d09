package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/statematch/statematch/internal/engine"
)

// Run is one recorded validation run.
type Run struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Verifier  string `json:"verifier"`
	Report    string `json:"report"`
	Result    bool   `json:"result"`
	Total     int    `json:"totalVerifiers"`
	Passed    int    `json:"passedVerifiers"`
}

// NewRunID mints a UUIDv7 run identifier. V7 ids sort by creation time,
// which keeps id order and time order aligned in listings.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SaveRun records a validation report alongside the verifier spec that
// produced it. The verifier is stored as the raw input JSON; the report
// is stored in canonical form so stored bytes are comparable across runs.
// Returns the run id.
func (s *Store) SaveRun(ctx context.Context, verifierJSON []byte, report *engine.Report) (string, error) {
	reportJSON, err := report.CanonicalJSON()
	if err != nil {
		return "", fmt.Errorf("save run: marshal report: %w", err)
	}

	id := NewRunID()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, verifier, report, result, total, passed)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		id,
		string(verifierJSON),
		string(reportJSON),
		report.Success,
		report.Total,
		report.Passed,
	)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}

	return id, nil
}

// GetRun fetches one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, verifier, report, result, total, passed
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.CreatedAt, &run.Verifier, &run.Report, &run.Result, &run.Total, &run.Passed)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
// A non-positive limit lists everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, created_at, verifier, report, result, total, passed
		FROM runs ORDER BY id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Verifier, &run.Report, &run.Result, &run.Total, &run.Passed); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}
