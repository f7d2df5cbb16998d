package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted run against one or more named arrays.
// Arrays are built first, in order, then Steps are applied, then
// Assertions are evaluated against the trace and final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario demonstrates.
	Description string `yaml:"description"`

	// Element selects the element type: "int" (default) or "string".
	Element string `yaml:"element,omitempty"`

	// Arrays declares the initial arrays.
	Arrays []ArraySpec `yaml:"arrays"`

	// Steps are the operations to apply, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Element type names.
const (
	ElementInt    = "int"
	ElementString = "string"
)

// ArraySpec declares how an initial array is built.
type ArraySpec struct {
	Name string `yaml:"name"`

	// Init is one of empty, sized, filled, list.
	Init string `yaml:"init"`

	// Size is the element count for sized and filled.
	Size int `yaml:"size,omitempty"`

	// Value is the fill value for filled.
	Value any `yaml:"value,omitempty"`

	// Values are the initial elements for list.
	Values []any `yaml:"values,omitempty"`

	// Reserve, if positive, is applied right after construction.
	Reserve int `yaml:"reserve,omitempty"`

	// Faults makes this array's element hooks fail on a chosen call.
	Faults *Faults `yaml:"faults,omitempty"`

	// ExpectError is the error code construction must fail with.
	// When set, the array is not registered and later steps cannot use it.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Init kinds.
const (
	InitEmpty  = "empty"
	InitSized  = "sized"
	InitFilled = "filled"
	InitList   = "list"
)

// Faults selects the 1-based hook call that fails. Calls are counted from the
// moment the array is created, across construction and later mutations.
type Faults struct {
	FailConstructAt int `yaml:"fail_construct_at,omitempty"`
	FailCopyAt      int `yaml:"fail_copy_at,omitempty"`
}

// Step is one scripted operation.
type Step struct {
	// Op is the operation name, e.g. "append" or "resize".
	Op string `yaml:"op"`

	// Target names the array the operation applies to. For clone it names
	// the array being created.
	Target string `yaml:"target"`

	// From names the source array for copy, clone and move.
	From string `yaml:"from,omitempty"`

	// With names the other array for swap and compare.
	With string `yaml:"with,omitempty"`

	// N is the count for reserve, resize and resize_fill.
	N *int `yaml:"n,omitempty"`

	// Index is the position for at and set.
	Index *int `yaml:"index,omitempty"`

	// Value is the element for append, append_move, set and resize_fill.
	Value any `yaml:"value,omitempty"`

	// Expect, if present, is checked against the recorded step.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists the observations a step must produce. Only the fields that
// are set are checked. A step with an Expect but no Error must not fail.
type Expect struct {
	Error    string `yaml:"error,omitempty"`
	Outcome  string `yaml:"outcome,omitempty"`
	Value    any    `yaml:"value,omitempty"`
	Size     *int   `yaml:"size,omitempty"`
	Capacity *int   `yaml:"capacity,omitempty"`
	Elements []any  `yaml:"elements,omitempty"`
}

// Operation names.
const (
	OpAppend      = "append"
	OpAppendMove  = "append_move"
	OpRemoveLast  = "remove_last"
	OpPop         = "pop"
	OpReserve     = "reserve"
	OpResize      = "resize"
	OpResizeFill  = "resize_fill"
	OpShrinkToFit = "shrink_to_fit"
	OpClear       = "clear"
	OpRelease     = "release"
	OpAt          = "at"
	OpSet         = "set"
	OpFront       = "front"
	OpBack        = "back"
	OpCopy        = "copy"
	OpClone       = "clone"
	OpMove        = "move"
	OpSwap        = "swap"
	OpCompare     = "compare"

	// OpInit is the op recorded for array construction. It is not a
	// scriptable step.
	OpInit = "init"
)

// Assertion validates the trace or the final state of an array.
type Assertion struct {
	// Type is one of final_size, final_capacity, final_elements,
	// reallocations, op_count, op_order, error_count.
	Type string `yaml:"type"`

	// Target names the array (final_*, reallocations; optional for op_count).
	Target string `yaml:"target,omitempty"`

	// Op is the operation to count (op_count).
	Op string `yaml:"op,omitempty"`

	// Ops is the expected order of first occurrences (op_order).
	Ops []string `yaml:"ops,omitempty"`

	// Count is the expected number (op_count, error_count).
	Count int `yaml:"count,omitempty"`

	// Equals is the expected number (final_size, final_capacity, reallocations).
	Equals *int `yaml:"equals,omitempty"`

	// Elements are the expected live elements (final_elements).
	Elements []any `yaml:"elements,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalSize     = "final_size"
	AssertFinalCapacity = "final_capacity"
	AssertFinalElements = "final_elements"
	AssertReallocations = "reallocations"
	AssertOpCount       = "op_count"
	AssertOpOrder       = "op_order"
	AssertErrorCount    = "error_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, or fails semantic validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Parse decodes a scenario from YAML bytes with strict field checking and
// validates it.
func Parse(data []byte) (*Scenario, error) {
	s, err := decodeStrict(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if errs := Validate(s); len(errs) > 0 {
		return nil, fmt.Errorf("invalid scenario: %w", errs[0])
	}
	return s, nil
}

func decodeStrict(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Discover returns the scenario files (*.yaml, *.yml) under dir, sorted.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scenario directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scenario directory: %s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
