package dynarray

// buffer is the single owned slot block behind an Array.
//
// len(slots) is the capacity. A zero-capacity buffer holds no slice at all,
// so "capacity 0" and "no buffer" are the same state.
type buffer[T any] struct {
	slots []T
}

// allocate returns a buffer with n zero-valued slots.
func allocate[T any](n int) buffer[T] {
	if n < 0 {
		panic("dynarray: negative capacity")
	}
	if n == 0 {
		return buffer[T]{}
	}
	return buffer[T]{slots: make([]T, n)}
}

// capacity returns the number of slots.
func (b *buffer[T]) capacity() int {
	return len(b.slots)
}

// present reports whether the buffer holds storage.
func (b *buffer[T]) present() bool {
	return b.slots != nil
}

// release zeroes every slot and drops the storage. Zeroing lets the collector
// reclaim anything the elements reference even if a stale view of the slice
// survives. Calling release on an absent buffer is a no-op.
func (b *buffer[T]) release() {
	clear(b.slots)
	b.slots = nil
}

// relocate moves the first n slots of b into dst by assignment and releases b.
// Assignment cannot fail, so relocation is all-or-nothing.
func (b *buffer[T]) relocate(dst buffer[T], n int) buffer[T] {
	copy(dst.slots[:n], b.slots[:n])
	b.release()
	return dst
}

// build allocates n slots and fills them with produce(i) in index order.
//
// If produce fails, the partial buffer is released before build returns, so
// callers never see or free a half-built block. The failing index is
// returned alongside the error.
func build[T any](n int, produce func(i int) (T, error)) (buffer[T], int, error) {
	b := allocate[T](n)
	committed := false
	defer func() {
		if !committed {
			b.release()
		}
	}()

	for i := 0; i < n; i++ {
		v, err := produce(i)
		if err != nil {
			return buffer[T]{}, i, err
		}
		b.slots[i] = v
	}

	committed = true
	return b, n, nil
}
