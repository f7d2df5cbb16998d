package store

// Run is one recorded execution of a scenario.
type Run struct {
	// ID is the run's UUIDv7.
	ID string `json:"id"`

	Scenario string `json:"scenario"`
	Element  string `json:"element"`

	// TraceHash is the hash of the run's steps under the scenario name.
	TraceHash string `json:"trace_hash"`

	Pass bool `json:"pass"`

	// Seq is the clock value the run started from; its first step has
	// seq Seq+1. Replays restart the clock here to reproduce the hash.
	Seq int64 `json:"seq"`

	// Version is the step record version the run was written with.
	Version string `json:"version"`
}
