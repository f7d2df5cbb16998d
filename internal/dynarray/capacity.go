package dynarray

// nextCapacity is the growth policy used by Append.
func nextCapacity(c int) int {
	return max(1, 2*c)
}

// reallocate replaces the buffer with one of exactly n slots (n >= size),
// relocating the live elements. n == 0 leaves the array without a buffer.
func (a *Array[T]) reallocate(n int) {
	hadBuffer := a.buf.present()
	a.buf = a.buf.relocate(allocate[T](n), a.size)
	a.stats.Moves += a.size
	switch {
	case !hadBuffer && n > 0:
		a.stats.Allocations++
	case hadBuffer && n > 0:
		a.stats.Allocations++
		a.stats.Reallocations++
	case hadBuffer:
		a.stats.Releases++
	}
}

// Reserve ensures Capacity() >= n without changing the elements.
// It is a no-op when n <= Capacity().
//
// Reserve(0) is different: it releases all storage and resets both size and
// capacity to 0, whatever the array held before.
func (a *Array[T]) Reserve(n int) {
	if n < 0 {
		panic("dynarray: negative capacity")
	}
	if n == 0 {
		a.Release()
		return
	}
	if n <= a.buf.capacity() {
		return
	}
	a.reallocate(n)
}

// Resize sets the size to n.
//
// Shrinking only truncates: capacity is kept and the dropped slots are
// zeroed. Growing past the capacity reserves exactly n slots first, then
// default-constructs the new elements.
//
// Resize(0) releases all storage, like Reserve(0).
//
// If the constructor hook fails, the size is left unchanged and the
// returned error matches ErrElement; the capacity may have grown.
func (a *Array[T]) Resize(n int) error {
	return a.resize("Resize", n, a.hooks.construct)
}

// ResizeWith is Resize with new elements copied from value.
func (a *Array[T]) ResizeWith(n int, value T) error {
	return a.resize("ResizeWith", n, func() (T, error) {
		return a.hooks.duplicate(value)
	})
}

func (a *Array[T]) resize(op string, n int, produce func() (T, error)) error {
	if n < 0 {
		panic("dynarray: negative size")
	}
	if n == 0 {
		a.Release()
		return nil
	}
	if n <= a.size {
		clear(a.buf.slots[n:a.size])
		a.size = n
		return nil
	}
	if n > a.buf.capacity() {
		a.Reserve(n)
	}
	for i := a.size; i < n; i++ {
		v, err := produce()
		if err != nil {
			clear(a.buf.slots[a.size:i])
			return newElementError(op, i, a.size, err)
		}
		a.buf.slots[i] = v
	}
	a.size = n
	return nil
}

// ShrinkToFit reallocates so that Capacity() == Size(). An empty array ends
// up with no buffer. It is a no-op when there is no spare capacity.
func (a *Array[T]) ShrinkToFit() {
	if a.buf.capacity() > a.size {
		a.reallocate(a.size)
	}
}
