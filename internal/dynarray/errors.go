package dynarray

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes container errors.
type ErrorCode string

const (
	// CodeInitFailed indicates an element could not be constructed or copied
	// while building an array (NewSized, NewFilled, FromList, Clone, CopyFrom).
	CodeInitFailed ErrorCode = "INIT_FAILED"

	// CodeElementFailed indicates an element hook failed during a mutation
	// of an existing array (Append, Resize, ResizeWith).
	CodeElementFailed ErrorCode = "ELEMENT_FAILED"

	// CodeOutOfRange indicates a checked access used an index outside [0, size).
	CodeOutOfRange ErrorCode = "OUT_OF_RANGE"
)

// Sentinel errors. Every *Error matches exactly one of them under errors.Is.
var (
	ErrInitialization = errors.New("dynarray: initialization failed")
	ErrElement        = errors.New("dynarray: element operation failed")
	ErrOutOfRange     = errors.New("dynarray: index out of range")
)

// Error describes a failed container operation.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the operation that failed, e.g. "NewSized" or "At".
	Op string

	// Index is the element index involved in the failure.
	Index int

	// Size is the array size observed when the failure happened.
	Size int

	// Err is the failure reported by an element hook, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case CodeOutOfRange:
		return fmt.Sprintf("%s: %s: index %d out of range [0:%d)", e.Code, e.Op, e.Index, e.Size)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: element %d: %v", e.Code, e.Op, e.Index, e.Err)
		}
		return fmt.Sprintf("%s: %s: element %d", e.Code, e.Op, e.Index)
	}
}

// Unwrap returns the hook failure so callers can inspect it.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to e.Code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInitialization:
		return e.Code == CodeInitFailed
	case ErrElement:
		return e.Code == CodeElementFailed
	case ErrOutOfRange:
		return e.Code == CodeOutOfRange
	}
	return false
}

// IsInitError reports whether err is an initialization failure.
// Uses errors.As to handle wrapped errors.
func IsInitError(err error) bool {
	return hasCode(err, CodeInitFailed)
}

// IsElementError reports whether err is an element failure during mutation.
func IsElementError(err error) bool {
	return hasCode(err, CodeElementFailed)
}

// IsOutOfRange reports whether err is an out-of-range access.
func IsOutOfRange(err error) bool {
	return hasCode(err, CodeOutOfRange)
}

// CodeOf returns the code carried by err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func newInitError(op string, index int, cause error) *Error {
	return &Error{Code: CodeInitFailed, Op: op, Index: index, Err: cause}
}

func newElementError(op string, index, size int, cause error) *Error {
	return &Error{Code: CodeElementFailed, Op: op, Index: index, Size: size, Err: cause}
}

func newRangeError(op string, index, size int) *Error {
	return &Error{Code: CodeOutOfRange, Op: op, Index: index, Size: size}
}
