package dynarray

// grow makes room for one more element using the doubling policy.
func (a *Array[T]) grow() {
	if a.size == a.buf.capacity() {
		a.reallocate(nextCapacity(a.buf.capacity()))
	}
}

// Append copies v through the copy hook and places it at index Size().
//
// The copy is made before the buffer is touched: if the hook fails the
// array is unchanged and the error matches ErrElement.
func (a *Array[T]) Append(v T) error {
	c, err := a.hooks.duplicate(v)
	if err != nil {
		return newElementError("Append", a.size, a.size, err)
	}
	a.AppendMove(c)
	return nil
}

// AppendMove places v at index Size() without calling the copy hook. The
// caller hands v over and should not keep using anything it owns.
// AppendMove never fails.
func (a *Array[T]) AppendMove(v T) {
	a.grow()
	a.buf.slots[a.size] = v
	a.size++
}

// RemoveLast drops the last element. It reports false, and changes
// nothing, when the array is empty. Capacity is never reduced.
func (a *Array[T]) RemoveLast() bool {
	if a.size == 0 {
		return false
	}
	a.size--
	var zero T
	a.buf.slots[a.size] = zero
	return true
}

// Pop removes and returns the last element.
// It returns the zero value and false when the array is empty.
func (a *Array[T]) Pop() (T, bool) {
	if a.size == 0 {
		var zero T
		return zero, false
	}
	v := a.buf.slots[a.size-1]
	a.RemoveLast()
	return v, true
}
