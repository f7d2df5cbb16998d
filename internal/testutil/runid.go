package testutil

import (
	"fmt"

	"github.com/roach88/dynarray/internal/trace"
)

// RunID returns the i-th deterministic run ID (1-based). The IDs are valid
// version 7 UUIDs that sort in i order, like real UUIDv7 run IDs recorded one
// after another.
func RunID(i int) string {
	return fmt.Sprintf("01920000-0000-7000-8000-%012d", i)
}

// RunIDs returns a generator that hands out RunID(1) .. RunID(n) in order.
//
// The same test with the same generator records byte-identical run logs.
func RunIDs(n int) *trace.FixedGenerator {
	return RunIDsFrom(1, n)
}

// RunIDsFrom returns a generator that hands out n IDs starting at
// RunID(first), for tests that record into an existing log.
func RunIDsFrom(first, n int) *trace.FixedGenerator {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = RunID(first + i)
	}
	return trace.NewFixedGenerator(ids...)
}
