package scenario

import (
	"github.com/roach88/dynarray/internal/dynarray"
	"github.com/roach88/dynarray/internal/trace"
)

// ArrayState is the observable state of a named array after the last step.
type ArrayState struct {
	Size     int            `json:"size"`
	Capacity int            `json:"capacity"`
	Elements trace.List     `json:"elements"`
	Stats    dynarray.Stats `json:"stats"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace holds one step per construction and operation, in seq order.
	Trace []trace.Step `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final maps array names to their state after the last step.
	Final map[string]ArrayState `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []trace.Step{},
		Errors: []string{},
		Final:  make(map[string]ArrayState),
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// AddStep appends a recorded step to the trace.
func (r *Result) AddStep(s trace.Step) {
	r.Trace = append(r.Trace, s)
}

// Hash returns the trace hash for this result under the scenario name.
func (r *Result) Hash(name string) (string, error) {
	return trace.TraceHash(name, r.Trace)
}
