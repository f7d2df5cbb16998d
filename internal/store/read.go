package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/dynarray/internal/trace"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// ReadRun returns the run with the given ID.
// Returns an error matching ErrRunNotFound if it does not exist.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, element, trace_hash, pass, seq, version
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ReadSteps returns the steps of a run, decoded from their canonical
// records. Results are ordered by seq ASC.
//
// Returns an empty slice (not nil) if the run has no steps.
func (s *Store) ReadSteps(ctx context.Context, runID string) ([]trace.Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, record
		FROM steps
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []trace.Step{}
	for rows.Next() {
		var (
			seq    int64
			record string
		)
		if err := rows.Scan(&seq, &record); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		st, err := trace.ParseStep([]byte(record))
		if err != nil {
			return nil, fmt.Errorf("decode step %d: %w", seq, err)
		}
		if st.Seq != seq {
			return nil, fmt.Errorf("decode step %d: record has seq %d", seq, st.Seq)
		}
		steps = append(steps, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

// ListRuns returns the recorded runs of a scenario, or of every scenario
// when scenario is empty. Results are ordered by scenario, then by ID.
// Run IDs are UUIDv7, so within a scenario that is recording order.
func (s *Store) ListRuns(ctx context.Context, scenario string) ([]Run, error) {
	query := `
		SELECT id, scenario, element, trace_hash, pass, seq, version
		FROM runs
	`
	var args []any
	if scenario != "" {
		query += " WHERE scenario = ?"
		args = append(args, scenario)
	}
	query += " ORDER BY scenario COLLATE BINARY ASC, id COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// OpCounts returns how many steps of a run used each operation.
func (s *Store) OpCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT op, COUNT(*)
		FROM steps
		WHERE run_id = ?
		GROUP BY op
		ORDER BY op
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query op counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			op string
			n  int
		)
		if err := rows.Scan(&op, &n); err != nil {
			return nil, fmt.Errorf("scan op count: %w", err)
		}
		counts[op] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate op counts: %w", err)
	}
	return counts, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run  Run
		pass int
	)
	if err := row.Scan(
		&run.ID,
		&run.Scenario,
		&run.Element,
		&run.TraceHash,
		&pass,
		&run.Seq,
		&run.Version,
	); err != nil {
		return Run{}, err
	}
	run.Pass = pass != 0
	return run, nil
}
