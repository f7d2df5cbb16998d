package dynarray

import "fmt"

// noCopy makes `go vet` (copylocks) report by-value copies of Array.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Array is a resizable sequence of T stored in one contiguous buffer.
//
// The zero value is an empty array with no buffer and default hooks, ready
// to use. An Array must not be copied after first use.
type Array[T any] struct {
	_ noCopy

	buf   buffer[T]
	size  int
	hooks Hooks[T]
	stats Stats
}

// New returns an empty array. No storage is allocated.
func New[T any](opts ...Option[T]) *Array[T] {
	return &Array[T]{hooks: applyOptions(opts)}
}

// NewSized returns an array of n default-constructed elements with
// capacity n.
//
// If the constructor hook fails, the partially built buffer is released and
// the returned error matches ErrInitialization. No array is returned.
func NewSized[T any](n int, opts ...Option[T]) (*Array[T], error) {
	a := New(opts...)
	buf, failed, err := build(n, func(int) (T, error) {
		return a.hooks.construct()
	})
	if err != nil {
		return nil, newInitError("NewSized", failed, err)
	}
	a.adopt(buf, n)
	return a, nil
}

// NewFilled returns an array of n copies of value with capacity n.
// Failure semantics match NewSized.
func NewFilled[T any](n int, value T, opts ...Option[T]) (*Array[T], error) {
	a := New(opts...)
	buf, failed, err := build(n, func(int) (T, error) {
		return a.hooks.duplicate(value)
	})
	if err != nil {
		return nil, newInitError("NewFilled", failed, err)
	}
	a.adopt(buf, n)
	return a, nil
}

// FromList returns an array holding copies of values, in order, with
// capacity len(values). Failure semantics match NewSized.
func FromList[T any](values []T, opts ...Option[T]) (*Array[T], error) {
	a := New(opts...)
	buf, failed, err := build(len(values), func(i int) (T, error) {
		return a.hooks.duplicate(values[i])
	})
	if err != nil {
		return nil, newInitError("FromList", failed, err)
	}
	a.adopt(buf, len(values))
	return a, nil
}

// Of returns an array holding values with default hooks. It cannot fail.
//
//	xs := dynarray.Of(1, 2, 3)
func Of[T any](values ...T) *Array[T] {
	a := New[T]()
	buf := allocate[T](len(values))
	copy(buf.slots, values)
	a.adopt(buf, len(values))
	return a
}

// adopt installs a freshly built buffer holding size live elements.
func (a *Array[T]) adopt(buf buffer[T], size int) {
	a.buf = buf
	a.size = size
	if buf.present() {
		a.stats.Allocations++
	}
}

// Size returns the number of live elements.
func (a *Array[T]) Size() int {
	return a.size
}

// Capacity returns the number of allocated slots.
func (a *Array[T]) Capacity() int {
	return a.buf.capacity()
}

// Empty reports whether the array has no live elements.
func (a *Array[T]) Empty() bool {
	return a.size == 0
}

// Hooks returns the element hooks the array was configured with.
func (a *Array[T]) Hooks() Hooks[T] {
	return a.hooks
}

// Clear drops every element but keeps the buffer.
func (a *Array[T]) Clear() {
	clear(a.buf.slots[:a.size])
	a.size = 0
}

// Release frees the buffer. Afterwards Size and Capacity are both 0.
// The array stays usable; the next growth allocates a new buffer.
func (a *Array[T]) Release() {
	if a.buf.present() {
		a.stats.Releases++
	}
	a.buf.release()
	a.size = 0
}

// String formats the live elements like a slice, e.g. "[1 2 3]".
func (a *Array[T]) String() string {
	return fmt.Sprint(a.Data())
}
