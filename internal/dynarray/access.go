package dynarray

// Index returns the element at i without a bounds check against Size().
//
// Precondition: 0 <= i < Size(). Outside that range the result is undefined:
// it may be a stale spare slot or a runtime panic. Use At for a checked read.
func (a *Array[T]) Index(i int) T {
	return a.buf.slots[i]
}

// Ref returns a pointer to the element at i for in-place mutation.
// Same precondition as Index. The pointer is invalidated by reallocation.
func (a *Array[T]) Ref(i int) *T {
	return &a.buf.slots[i]
}

// At returns the element at i, or an error matching ErrOutOfRange when i is
// outside [0, Size()).
func (a *Array[T]) At(i int) (T, error) {
	if i < 0 || i >= a.size {
		var zero T
		return zero, newRangeError("At", i, a.size)
	}
	return a.buf.slots[i], nil
}

// Set stores v at i, or returns an error matching ErrOutOfRange when i is
// outside [0, Size()). The copy hook is not applied.
func (a *Array[T]) Set(i int, v T) error {
	if i < 0 || i >= a.size {
		return newRangeError("Set", i, a.size)
	}
	a.buf.slots[i] = v
	return nil
}

// Front returns the first element. Precondition: !Empty().
func (a *Array[T]) Front() T {
	return a.buf.slots[0]
}

// Back returns the last element. Precondition: !Empty().
func (a *Array[T]) Back() T {
	return a.buf.slots[a.size-1]
}

// Data returns the live elements as a slice sharing the array's buffer.
// Its capacity is clipped to Size(), so appending to it never writes into
// the array's spare slots. The slice is invalidated by reallocation.
func (a *Array[T]) Data() []T {
	return a.buf.slots[:a.size:a.size]
}
