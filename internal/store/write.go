package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/dynarray/internal/trace"
)

// ErrHashMismatch is returned by WriteRun when a run's trace hash does not
// match its steps.
var ErrHashMismatch = errors.New("trace hash does not match steps")

// WriteRun records a run and its steps in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing a run whose ID
// already exists leaves the stored run and its steps untouched and reports
// inserted=false.
//
// An empty run.TraceHash is filled from the steps. A non-empty one must match
// the steps or ErrHashMismatch is returned. Steps must be in strictly
// increasing seq order, all after run.Seq.
func (s *Store) WriteRun(ctx context.Context, run Run, steps []trace.Step) (inserted bool, err error) {
	if run.ID == "" {
		return false, fmt.Errorf("write run: empty id")
	}
	if err := checkSeqOrder(run.Seq, steps); err != nil {
		return false, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	hash, err := trace.TraceHash(run.Scenario, steps)
	if err != nil {
		return false, fmt.Errorf("write run %s: %w", run.ID, err)
	}
	if run.TraceHash == "" {
		run.TraceHash = hash
	} else if run.TraceHash != hash {
		return false, fmt.Errorf("write run %s: %w", run.ID, ErrHashMismatch)
	}
	if run.Version == "" {
		run.Version = trace.RecordVersion
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, scenario, element, trace_hash, pass, seq, version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Scenario,
		run.Element,
		run.TraceHash,
		boolToInt(run.Pass),
		run.Seq,
		run.Version,
	)
	if err != nil {
		return false, fmt.Errorf("write run: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO steps
		(run_id, seq, op, target, outcome, error_code, size, capacity, record)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`)
	if err != nil {
		return false, fmt.Errorf("write run: prepare steps: %w", err)
	}
	defer stmt.Close()

	for _, st := range steps {
		record, err := marshalStep(st)
		if err != nil {
			return false, fmt.Errorf("write run %s: %w", run.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			run.ID,
			st.Seq,
			st.Op,
			st.Target,
			string(st.Outcome),
			st.ErrorCode,
			st.Size,
			st.Capacity,
			record,
		); err != nil {
			return false, fmt.Errorf("write run: insert step %d: %w", st.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}
	return true, nil
}

// checkSeqOrder reports an error unless every step's seq is greater than
// start and than the previous step's.
func checkSeqOrder(start int64, steps []trace.Step) error {
	prev := start
	for i, st := range steps {
		if st.Seq <= prev {
			return fmt.Errorf("step %d: seq %d not after %d", i, st.Seq, prev)
		}
		prev = st.Seq
	}
	return nil
}

// marshalStep converts a step to canonical JSON TEXT for storage.
func marshalStep(st trace.Step) (string, error) {
	data, err := trace.MarshalCanonical(st)
	if err != nil {
		return "", fmt.Errorf("marshal step %d: %w", st.Seq, err)
	}
	return string(data), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
