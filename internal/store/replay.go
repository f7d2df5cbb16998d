package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/dynarray/internal/trace"
)

// ErrCorrupt is returned by VerifyRun when a run's stored steps no longer
// hash to its stored trace hash.
var ErrCorrupt = errors.New("stored steps do not match trace hash")

// MaxSeq returns the highest step seq in the store, or 0 when it is empty.
// Recording resumes the logical clock from here so that runs never share
// a seq range.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var maxSeq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM steps
	`).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("get max seq: %w", err)
	}
	return maxSeq, nil
}

// ListScenarios returns the distinct scenario names with recorded runs,
// ordered alphabetically.
func (s *Store) ListScenarios(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT scenario FROM runs
		ORDER BY scenario COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", err)
	}
	return names, nil
}

// VerifyRun re-hashes a run's stored steps and compares the result with the
// stored trace hash. It returns the run and its steps so callers can go on
// to replay them.
func (s *Store) VerifyRun(ctx context.Context, id string) (Run, []trace.Step, error) {
	run, err := s.ReadRun(ctx, id)
	if err != nil {
		return Run{}, nil, err
	}
	steps, err := s.ReadSteps(ctx, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("verify run %s: %w", id, err)
	}

	hash, err := trace.TraceHash(run.Scenario, steps)
	if err != nil {
		return Run{}, nil, fmt.Errorf("verify run %s: %w", id, err)
	}
	if hash != run.TraceHash {
		return run, steps, fmt.Errorf("verify run %s: %w", id, ErrCorrupt)
	}
	return run, steps, nil
}
