package dynarray

import "iter"

// All yields (index, element) pairs from front to back.
func (a *Array[T]) All() iter.Seq2[int, T] {
	live := a.Data()
	return func(yield func(int, T) bool) {
		for i, v := range live {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values yields the elements from front to back.
func (a *Array[T]) Values() iter.Seq[T] {
	live := a.Data()
	return func(yield func(T) bool) {
		for _, v := range live {
			if !yield(v) {
				return
			}
		}
	}
}

// Backward yields (index, element) pairs from back to front.
func (a *Array[T]) Backward() iter.Seq2[int, T] {
	live := a.Data()
	return func(yield func(int, T) bool) {
		for i := len(live) - 1; i >= 0; i-- {
			if !yield(i, live[i]) {
				return
			}
		}
	}
}

// Refs yields (index, pointer) pairs from front to back so elements can be
// updated in place. Inserting or removing elements while ranging is
// undefined.
func (a *Array[T]) Refs() iter.Seq2[int, *T] {
	live := a.Data()
	return func(yield func(int, *T) bool) {
		for i := range live {
			if !yield(i, &live[i]) {
				return
			}
		}
	}
}

// BackwardRefs is Refs from back to front.
func (a *Array[T]) BackwardRefs() iter.Seq2[int, *T] {
	live := a.Data()
	return func(yield func(int, *T) bool) {
		for i := len(live) - 1; i >= 0; i-- {
			if !yield(i, &live[i]) {
				return
			}
		}
	}
}
