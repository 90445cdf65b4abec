package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates no run exists for the requested ID.
var ErrNotFound = errors.New("run not found")

const runColumns = `id, kind, status, source_path, language, model, method,
    speaker_count, segment_count, turn_count, output_path, report_path,
    error_message, created_at, updated_at`

// Create inserts a new run in the running state and returns it with its
// generated ID and timestamps filled in.
func (s *Store) Create(ctx context.Context, run Run) (Run, error) {
	ctx = ensureContext(ctx)

	run.ID = uuid.NewString()
	if run.Status == "" {
		run.Status = StatusRunning
	}
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now

	err := s.execWithRetry(ctx, `
        INSERT INTO runs (`+runColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Kind), string(run.Status), run.SourcePath,
		run.Language, run.Model, run.Method, run.SpeakerCount,
		run.SegmentCount, run.TurnCount,
		run.OutputPath, run.ReportPath, run.ErrorMessage,
		run.CreatedAt.Format(time.RFC3339Nano), run.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Update persists the run's mutable fields (status, outputs, error message,
// speaker/segment/turn counts) and refreshes updated_at.
func (s *Store) Update(ctx context.Context, run Run) error {
	ctx = ensureContext(ctx)

	run.UpdatedAt = time.Now().UTC()
	err := s.execWithRetry(ctx, `
        UPDATE runs
        SET status = ?, language = ?, speaker_count = ?, segment_count = ?,
            turn_count = ?, output_path = ?, report_path = ?,
            error_message = ?, updated_at = ?
        WHERE id = ?`,
		string(run.Status), run.Language, run.SpeakerCount, run.SegmentCount,
		run.TurnCount, run.OutputPath, run.ReportPath, run.ErrorMessage,
		run.UpdatedAt.Format(time.RFC3339Nano), run.ID)
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.ID, err)
	}
	return nil
}

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	ctx = ensureContext(ctx)

	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// List returns the most recent runs, newest first, up to limit. A limit of
// zero or less returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)

	query := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC"
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
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan run: %w", scanErr)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Summarize returns aggregated run counts per lifecycle state.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	ctx = ensureContext(ctx)

	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(1) FROM runs GROUP BY status")
	if err != nil {
		return Summary{}, fmt.Errorf("summarize runs: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, fmt.Errorf("scan summary row: %w", err)
		}
		summary.Total += count
		switch Status(status) {
		case StatusRunning:
			summary.Running = count
		case StatusCompleted:
			summary.Completed = count
		case StatusFailed:
			summary.Failed = count
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("iterate summary: %w", err)
	}
	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var kind, status, createdAt, updatedAt string
	err := row.Scan(&run.ID, &kind, &status, &run.SourcePath,
		&run.Language, &run.Model, &run.Method, &run.SpeakerCount,
		&run.SegmentCount, &run.TurnCount,
		&run.OutputPath, &run.ReportPath, &run.ErrorMessage,
		&createdAt, &updatedAt)
	if err != nil {
		return Run{}, err
	}
	run.Kind = Kind(kind)
	run.Status = Status(status)
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	if run.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Run{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return run, nil
}
