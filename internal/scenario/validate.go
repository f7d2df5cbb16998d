package scenario

import (
	"fmt"
	"slices"
)

// Validation error codes (E200-E299).
const (
	ErrCodeRead      = "E200" // file could not be read
	ErrCodeParse     = "E201" // YAML could not be decoded
	ErrCodeSchema    = "E202" // document does not match the scenario schema
	ErrCodeRequired  = "E203" // required field missing for an op or assertion
	ErrCodeReference = "E204" // reference to an array that does not exist
	ErrCodeDuplicate = "E205" // array declared twice
	ErrCodeUnknown   = "E206" // unknown op, init kind, element or assertion type
)

// MaxCount bounds every size, reserve and n in a scenario. Larger requests
// could not be allocated and would abort the run.
const MaxCount = 1 << 24

// ValidationError describes one problem with a scenario file.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var knownOps = []string{
	OpAppend, OpAppendMove, OpRemoveLast, OpPop, OpReserve, OpResize,
	OpResizeFill, OpShrinkToFit, OpClear, OpRelease, OpAt, OpSet, OpFront,
	OpBack, OpCopy, OpClone, OpMove, OpSwap, OpCompare,
}

// Validate performs semantic checks that the schema cannot express:
// op-specific required fields and references between arrays.
// Returns all errors found.
func Validate(s *Scenario) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if s.Name == "" {
		add("name", ErrCodeRequired, "name is required")
	}
	if s.Description == "" {
		add("description", ErrCodeRequired, "description is required")
	}
	switch s.Element {
	case "", ElementInt, ElementString:
	default:
		add("element", ErrCodeUnknown, "unknown element type %q (want int or string)", s.Element)
	}
	if len(s.Steps) == 0 {
		add("steps", ErrCodeRequired, "steps list is required and must be non-empty")
	}

	live := make(map[string]bool)
	for i, a := range s.Arrays {
		field := fmt.Sprintf("arrays[%d]", i)
		if a.Name == "" {
			add(field+".name", ErrCodeRequired, "name is required")
			continue
		}
		if live[a.Name] {
			add(field+".name", ErrCodeDuplicate, "array %q declared twice", a.Name)
		}
		switch a.Init {
		case InitEmpty, InitSized, InitList:
		case InitFilled:
			if a.Value == nil {
				add(field+".value", ErrCodeRequired, "value is required for filled")
			}
		default:
			add(field+".init", ErrCodeUnknown, "unknown init kind %q", a.Init)
		}
		if a.Size < 0 || a.Reserve < 0 {
			add(field, ErrCodeSchema, "size and reserve must be non-negative")
		}
		if a.Size > MaxCount || a.Reserve > MaxCount {
			add(field, ErrCodeSchema, "size and reserve must not exceed %d", MaxCount)
		}
		if a.ExpectError == "" {
			live[a.Name] = true
		}
	}

	for i, st := range s.Steps {
		errs = append(errs, validateStep(i, st, live)...)
		if st.Op == OpClone && st.Target != "" {
			live[st.Target] = true
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, live); err != nil {
			errs = append(errs, *err)
		}
	}

	return errs
}

func validateStep(i int, st Step, live map[string]bool) []ValidationError {
	var errs []ValidationError
	field := fmt.Sprintf("steps[%d]", i)
	add := func(suffix, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field + suffix, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if !slices.Contains(knownOps, st.Op) {
		add(".op", ErrCodeUnknown, "unknown op %q", st.Op)
		return errs
	}
	if st.Target == "" {
		add(".target", ErrCodeRequired, "target is required")
	} else if st.Op != OpClone && !live[st.Target] {
		add(".target", ErrCodeReference, "unknown array %q", st.Target)
	}

	needArray := func(suffix, name string) {
		switch {
		case name == "":
			add(suffix, ErrCodeRequired, "%s is required for %s", suffix[1:], st.Op)
		case !live[name]:
			add(suffix, ErrCodeReference, "unknown array %q", name)
		}
	}

	switch st.Op {
	case OpAppend, OpAppendMove:
		if st.Value == nil {
			add(".value", ErrCodeRequired, "value is required for %s", st.Op)
		}
	case OpReserve, OpResize:
		if st.N == nil {
			add(".n", ErrCodeRequired, "n is required for %s", st.Op)
		}
	case OpResizeFill:
		if st.N == nil {
			add(".n", ErrCodeRequired, "n is required for %s", st.Op)
		}
		if st.Value == nil {
			add(".value", ErrCodeRequired, "value is required for %s", st.Op)
		}
	case OpAt:
		if st.Index == nil {
			add(".index", ErrCodeRequired, "index is required for at")
		}
	case OpSet:
		if st.Index == nil {
			add(".index", ErrCodeRequired, "index is required for set")
		}
		if st.Value == nil {
			add(".value", ErrCodeRequired, "value is required for set")
		}
	case OpCopy, OpClone, OpMove:
		needArray(".from", st.From)
	case OpSwap, OpCompare:
		needArray(".with", st.With)
	}
	if st.N != nil && *st.N < 0 {
		add(".n", ErrCodeSchema, "n must be non-negative")
	}
	if st.N != nil && *st.N > MaxCount {
		add(".n", ErrCodeSchema, "n must not exceed %d", MaxCount)
	}
	return errs
}

func validateAssertion(i int, a Assertion, live map[string]bool) *ValidationError {
	field := fmt.Sprintf("assertions[%d]", i)
	fail := func(code, format string, args ...any) *ValidationError {
		return &ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)}
	}

	switch a.Type {
	case "":
		return fail(ErrCodeRequired, "type is required")
	case AssertFinalSize, AssertFinalCapacity, AssertReallocations:
		if a.Target == "" {
			return fail(ErrCodeRequired, "target is required for %s", a.Type)
		}
		if a.Equals == nil {
			return fail(ErrCodeRequired, "equals is required for %s", a.Type)
		}
	case AssertFinalElements:
		if a.Target == "" {
			return fail(ErrCodeRequired, "target is required for %s", a.Type)
		}
	case AssertOpCount:
		if a.Op == "" {
			return fail(ErrCodeRequired, "op is required for op_count")
		}
		if a.Count < 0 {
			return fail(ErrCodeSchema, "count must be non-negative for op_count")
		}
	case AssertOpOrder:
		if len(a.Ops) == 0 {
			return fail(ErrCodeRequired, "ops list is required for op_order")
		}
	case AssertErrorCount:
		if a.Count < 0 {
			return fail(ErrCodeSchema, "count must be non-negative for error_count")
		}
	default:
		return fail(ErrCodeUnknown, "unknown assertion type %q", a.Type)
	}

	if a.Target != "" && !live[a.Target] {
		return fail(ErrCodeReference, "unknown array %q", a.Target)
	}
	return nil
}
