package dynarray

// Stats counts buffer lifecycle events for one Array.
//
// Counters describe the buffer's history and follow it through Move,
// MoveFrom and Swap. Counters are plain integers: an Array has a single
// owner, so no atomics are needed.
type Stats struct {
	Allocations   int `json:"allocations"`   // buffers allocated, including the first one
	Reallocations int `json:"reallocations"` // live buffers replaced by a larger or smaller one
	Releases      int `json:"releases"`      // buffers released (Release, Reserve(0), Resize(0), CopyFrom)
	Moves         int `json:"moves"`         // elements relocated during reallocation
}

// Stats returns a snapshot of the array's counters.
func (a *Array[T]) Stats() Stats {
	return a.stats
}

// ResetStats zeroes the counters without touching the elements.
func (a *Array[T]) ResetStats() {
	a.stats = Stats{}
}
