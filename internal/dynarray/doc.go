// Package dynarray provides Array, a generic resizable container that keeps
// its elements in one contiguous buffer.
//
// An Array owns exactly one slot block whose length is the array's capacity.
// The first Size() slots hold live elements; the remaining slots are spare
// and never observable through the API.
//
// # Invariants
//
//   - Capacity() == 0 implies no buffer is held.
//   - Size() <= Capacity() at every call boundary.
//   - No two live arrays share a buffer. Clone and CopyFrom allocate fresh
//     storage; Move and MoveFrom hand the buffer over and leave the source
//     empty.
//
// # Growth
//
// Append doubles the capacity (max(1, 2*cap)) when the buffer is full, which
// keeps the amortised cost of N appends at O(1) per append. Stats exposes the
// number of reallocations and element relocations so callers can observe the
// policy.
//
// # Element failures
//
// Go values cannot fail to copy, but element types that own resources often
// need a fallible constructor or deep copy. Hooks (WithConstructor,
// WithCopier) model these operations. Each mutating operation documents what
// happens when a hook fails:
//
//   - Constructors (NewSized, NewFilled, FromList) and copies (Clone,
//     CopyFrom) release any partial buffer and return an error matching
//     ErrInitialization.
//   - Append runs the copy hook before touching the buffer; on failure the
//     array is unchanged.
//   - Resize and ResizeWith leave Size() unchanged on failure but may have
//     grown the capacity.
//   - Reallocation relocates elements by assignment and never fails.
//
// # Ownership
//
// An Array has a single owner and no internal synchronisation. Concurrent
// reads are safe only while nobody mutates. Slices returned by Data and the
// iterators are invalidated by any call that changes the size or reallocates
// (Reserve, Resize, ShrinkToFit, a growing Append); using them afterwards is
// undefined.
//
// Arrays must not be copied by value: a struct copy would share the buffer.
// Use Clone for an independent copy and Move to transfer ownership.
package dynarray
