package dynarray

// Clone returns an independent copy of a.
//
// The copy gets a fresh buffer whose capacity equals a.Size() and shares
// a's hooks. Each element passes through the copy hook; if one fails the
// partial buffer is released and the error matches ErrInitialization.
func (a *Array[T]) Clone() (*Array[T], error) {
	c := &Array[T]{hooks: a.hooks}
	buf, failed, err := build(a.size, func(i int) (T, error) {
		return c.hooks.duplicate(a.buf.slots[i])
	})
	if err != nil {
		return nil, newInitError("Clone", failed, err)
	}
	c.adopt(buf, a.size)
	return c, nil
}

// CopyFrom replaces the contents of a with copies of src's elements.
//
// a's buffer is released first. An empty src leaves a empty with no buffer.
// Otherwise a gets a fresh buffer of capacity src.Size(), filled through a's
// copy hook. If a copy fails, a is left empty and the error matches
// ErrInitialization. Copying an array onto itself does nothing.
func (a *Array[T]) CopyFrom(src *Array[T]) error {
	if a == src {
		return nil
	}
	a.Release()
	if src.size == 0 {
		return nil
	}
	buf, failed, err := build(src.size, func(i int) (T, error) {
		return a.hooks.duplicate(src.buf.slots[i])
	})
	if err != nil {
		return newInitError("CopyFrom", failed, err)
	}
	a.adopt(buf, src.size)
	return nil
}

// Move transfers a's buffer, size, hooks and stats to a new array and leaves
// a empty with no buffer and zeroed stats. It never allocates and never
// fails.
func (a *Array[T]) Move() *Array[T] {
	m := &Array[T]{
		buf:   a.buf,
		size:  a.size,
		hooks: a.hooks,
		stats: a.stats,
	}
	a.buf = buffer[T]{}
	a.size = 0
	a.stats = Stats{}
	return m
}

// MoveFrom releases a's buffer and takes over src's buffer, size and stats,
// leaving src empty with no buffer and zeroed stats. a keeps its own hooks.
// As with Move, the stats travel with the buffer, so a's previous counters
// are discarded. Moving an array onto itself does nothing.
func (a *Array[T]) MoveFrom(src *Array[T]) {
	if a == src {
		return
	}
	a.Release()
	a.buf = src.buf
	a.size = src.size
	a.stats = src.stats
	src.buf = buffer[T]{}
	src.size = 0
	src.stats = Stats{}
}

// Swap exchanges the contents and stats of a and other. Hooks stay with
// their arrays.
func (a *Array[T]) Swap(other *Array[T]) {
	a.buf, other.buf = other.buf, a.buf
	a.size, other.size = other.size, a.size
	a.stats, other.stats = other.stats, a.stats
}
