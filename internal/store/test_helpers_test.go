package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/dynarray/internal/trace"
)

// createTestStore creates a new store in a temporary directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSteps returns an init step followed by n appends, numbered from
// start+1.
func createTestSteps(start int64, n int) []trace.Step {
	steps := []trace.Step{{
		Seq:      start + 1,
		Op:       "init",
		Target:   "a",
		Args:     trace.Object{"init": trace.String("empty")},
		Outcome:  trace.OutcomeOK,
		Elements: trace.List{},
	}}
	elems := trace.List{}
	capacity := 0
	for i := 0; i < n; i++ {
		elems = append(elems, trace.Int(int64(i)))
		if len(elems) > capacity {
			capacity = max(1, 2*capacity)
		}
		steps = append(steps, trace.Step{
			Seq:      start + int64(i) + 2,
			Op:       "append",
			Target:   "a",
			Args:     trace.Object{"value": trace.Int(int64(i))},
			Outcome:  trace.OutcomeOK,
			Size:     len(elems),
			Capacity: capacity,
			Elements: append(trace.List{}, elems...),
		})
	}
	return steps
}

// createTestRun returns a passing run starting at seq start.
func createTestRun(id, scenario string, start int64) Run {
	return Run{
		ID:       id,
		Scenario: scenario,
		Element:  "int",
		Pass:     true,
		Seq:      start,
	}
}
