package dynarray

import (
	"cmp"
	"slices"
)

// Equal reports whether a and b have the same size and equal elements.
func Equal[T comparable](a, b *Array[T]) bool {
	return slices.Equal(a.Data(), b.Data())
}

// EqualFunc is Equal with a caller-supplied element comparison.
func EqualFunc[T any](a, b *Array[T], eq func(T, T) bool) bool {
	return slices.EqualFunc(a.Data(), b.Data(), eq)
}

// Compare orders a and b lexicographically. The first differing element
// decides; if one array is a prefix of the other, the shorter one is smaller.
// The result is -1, 0 or +1.
func Compare[T cmp.Ordered](a, b *Array[T]) int {
	return slices.Compare(a.Data(), b.Data())
}

// CompareFunc is Compare with a caller-supplied element comparison.
func CompareFunc[T any](a, b *Array[T], compare func(T, T) int) int {
	return slices.CompareFunc(a.Data(), b.Data(), compare)
}

// Less reports whether a orders before b.
func Less[T cmp.Ordered](a, b *Array[T]) bool { return Compare(a, b) < 0 }

// LessOrEqual reports whether a orders before or equal to b.
func LessOrEqual[T cmp.Ordered](a, b *Array[T]) bool { return Compare(a, b) <= 0 }

// Greater reports whether a orders after b.
func Greater[T cmp.Ordered](a, b *Array[T]) bool { return Compare(a, b) > 0 }

// GreaterOrEqual reports whether a orders after or equal to b.
func GreaterOrEqual[T cmp.Ordered](a, b *Array[T]) bool { return Compare(a, b) >= 0 }
