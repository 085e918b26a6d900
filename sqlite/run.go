package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/sitefind"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ sitefind.RunService   = (*RunService)(nil)
	_ sitefind.OutcomeCache = (*RunService)(nil)
)

// RunService implements sitefind.RunService and sitefind.OutcomeCache using
// SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores run and its results in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *sitefind.Run, results *sitefind.ResultMap) error {
	if err := run.Validate(); err != nil {
		return err
	}
	if results == nil {
		results = sitefind.NewResultMap()
	}

	now := time.Now().UTC()
	run.ID = uuid.New().String()
	run.Total = results.Len()
	run.Found = results.Found()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, engine, source, total, found, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, string(run.Engine), run.Source, run.Total, run.Found,
		formatTime(run.StartedAt), formatTime(run.FinishedAt)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (run_id, position, company, url, domain, attempts)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range results.Results() {
		var domain string
		if r.Outcome.IsFound() {
			domain = sitefind.RegistrableDomain(r.Outcome.URL)
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, r.Company, r.Outcome.URL, domain, r.Outcome.Attempts); err != nil {
			return fmt.Errorf("insert result %q: %w", r.Company, err)
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*sitefind.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, engine, source, total, found, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitefind.Errorf(sitefind.ENOTFOUND, "run not found")
	}
	return run, err
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter sitefind.RunFilter) ([]*sitefind.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, engine, source, total, found, started_at, finished_at FROM runs WHERE 1=1")
	if filter.Engine != nil {
		query.WriteString(" AND engine = ?")
		args = append(args, string(*filter.Engine))
	}
	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*sitefind.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindResults retrieves the results of a run in processing order.
// Returns ENOTFOUND if the run does not exist.
func (s *RunService) FindResults(ctx context.Context, runID string) ([]*sitefind.StoredResult, error) {
	if _, err := s.FindRunByID(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, position, company, url, domain, attempts
		FROM results
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*sitefind.StoredResult
	for rows.Next() {
		var r sitefind.StoredResult
		if err := rows.Scan(&r.RunID, &r.Position, &r.Company, &r.URL, &r.Domain, &r.Attempts); err != nil {
			return nil, err
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

// DeleteRun removes a run; its results are removed by cascade.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sitefind.Errorf(sitefind.ENOTFOUND, "run not found")
	}
	return nil
}

// FindOutcome returns the most recent found outcome for company on engine.
func (s *RunService) FindOutcome(ctx context.Context, company string, engine sitefind.SearchEngine) (sitefind.Outcome, error) {
	var outcome sitefind.Outcome
	err := s.db.QueryRowContext(ctx, `
		SELECT r.url, r.attempts
		FROM results r
		JOIN runs ru ON ru.id = r.run_id
		WHERE r.company = ? AND ru.engine = ? AND r.url != ''
		ORDER BY ru.started_at DESC, ru.rowid DESC
		LIMIT 1
	`, company, string(engine)).Scan(&outcome.URL, &outcome.Attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return sitefind.Outcome{}, sitefind.Errorf(sitefind.ENOTFOUND, "no outcome for %q", company)
	}
	if err != nil {
		return sitefind.Outcome{}, err
	}
	return outcome, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*sitefind.Run, error) {
	var run sitefind.Run
	var engine, startedAt, finishedAt string

	if err := row.Scan(&run.ID, &engine, &run.Source, &run.Total, &run.Found, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	run.Engine = sitefind.SearchEngine(engine)

	var err error
	if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
