// Package scenario runs scripted operation sequences against dynamic arrays
// and records every step as a canonical trace.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: reserve_then_append
//	description: "Reserve avoids reallocation until capacity is exceeded"
//	element: int
//	arrays:
//	  - name: a
//	    init: empty
//	    reserve: 5
//	steps:
//	  - op: append
//	    target: a
//	    value: 1
//	    expect: { size: 1, capacity: 5 }
//	assertions:
//	  - type: reallocations
//	    target: a
//	    equals: 0
//
// Arrays are built with init empty, sized, filled or list. An array may
// carry faults that make its k-th constructor or copy hook call fail, which
// is how failure paths are exercised.
//
// # Assertion Types
//
//   - final_size, final_capacity, final_elements: final state of an array
//   - reallocations: number of buffer replacements on an array
//   - op_count: how many times an op ran (optionally on one target)
//   - op_order: first occurrences of ops appear in order
//   - error_count: how many steps ended in an error
//
// # Validation
//
// ValidateFile checks a file against an embedded CUE schema, then decodes it
// strictly (unknown YAML fields are rejected), then runs semantic checks
// such as references to undeclared arrays.
//
// # Deterministic Output
//
// Steps are numbered by a logical clock starting at 1 and carry no
// wall-clock data, so a scenario's canonical trace is byte-stable. Golden
// files under testdata/golden pin that output.
package scenario
