package trace

const (
	// RecordVersion is the step record format version stored with each run.
	RecordVersion = "1"

	// Version is the dynarray tool version.
	Version = "0.1.0"
)
