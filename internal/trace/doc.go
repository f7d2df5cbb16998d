// Package trace defines the canonical record of a scripted container run.
//
// A run is a sequence of Steps, one per operation applied to a named array.
// Each Step captures what was asked (op, target, args), what happened
// (outcome, error code, returned value) and the observable state afterwards
// (size, capacity, live elements).
//
// Steps serialize to RFC 8785 canonical JSON so that the same run always
// produces the same bytes, and therefore the same StepHash and TraceHash.
// Golden files and the run store both rely on that property.
//
// Key constraints:
//   - No floats and no null anywhere in a record
//   - JSON keys use snake_case
//   - Ordering uses logical sequence numbers, never wall-clock time
package trace
