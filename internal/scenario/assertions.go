package scenario

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/dynarray/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It includes the trace so the failure can be read in context.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []trace.Step // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, s := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s -> %s (size %d, cap %d)\n",
				s.Seq, s.Op, s.Target, s.Outcome, s.Size, s.Capacity)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion against result and returns the
// failure messages. An empty slice means all assertions held.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertFinalSize, AssertFinalCapacity, AssertReallocations, AssertFinalElements:
		return assertFinal(result, a)
	case AssertOpCount:
		return assertOpCount(result.Trace, a)
	case AssertOpOrder:
		return assertOpOrder(result.Trace, a)
	case AssertErrorCount:
		return assertErrorCount(result.Trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertFinal checks a property of a named array's final state.
func assertFinal(result *Result, a Assertion) error {
	st, ok := result.Final[a.Target]
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("array %q to exist", a.Target),
			Actual:   "no such array",
		}
	}

	if a.Type == AssertFinalElements {
		want, err := listOf(a.Elements)
		if err != nil {
			return fmt.Errorf("final_elements: %w", err)
		}
		if !reflect.DeepEqual(want, st.Elements) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s elements %v", a.Target, want),
				Actual:   fmt.Sprintf("%v", st.Elements),
				Trace:    result.Trace,
			}
		}
		return nil
	}

	if a.Equals == nil {
		return fmt.Errorf("%s: equals is required", a.Type)
	}
	var got int
	switch a.Type {
	case AssertFinalSize:
		got = st.Size
	case AssertFinalCapacity:
		got = st.Capacity
	case AssertReallocations:
		got = st.Stats.Reallocations
	}
	if got != *a.Equals {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s %s = %d", a.Target, a.Type, *a.Equals),
			Actual:   fmt.Sprintf("%d", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertOpCount checks that op was applied exactly Count times, optionally
// restricted to one target.
func assertOpCount(steps []trace.Step, a Assertion) error {
	count := 0
	for _, s := range steps {
		if s.Op == a.Op && (a.Target == "" || s.Target == a.Target) {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertOpCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    steps,
		}
	}
	return nil
}

// assertOpOrder checks that the first occurrence of each op appears in the
// given order. Other steps may sit in between.
func assertOpOrder(steps []trace.Step, a Assertion) error {
	positions := make(map[string]int)
	for i, s := range steps {
		if _, seen := positions[s.Op]; !seen {
			positions[s.Op] = i + 1
		}
	}

	for _, op := range a.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertOpOrder,
				Expected: fmt.Sprintf("all ops present: %v", a.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    steps,
			}
		}
	}

	for i := 1; i < len(a.Ops); i++ {
		prev, curr := a.Ops[i-1], a.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertOpOrder,
				Expected: fmt.Sprintf("ops in order: %v", a.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: steps,
			}
		}
	}
	return nil
}

// assertErrorCount checks how many steps ended in an error.
func assertErrorCount(steps []trace.Step, a Assertion) error {
	count := 0
	for _, s := range steps {
		if s.Outcome == trace.OutcomeError {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertErrorCount,
			Expected: fmt.Sprintf("%d failed steps", a.Count),
			Actual:   fmt.Sprintf("%d failed steps", count),
			Trace:    steps,
		}
	}
	return nil
}
