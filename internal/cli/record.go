package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dynarray/internal/scenario"
	"github.com/roach88/dynarray/internal/store"
	"github.com/roach88/dynarray/internal/trace"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Database string
	Filter   string

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs trace.RunIDGenerator
}

// RecordedRun reports one recorded scenario.
type RecordedRun struct {
	RunID     string   `json:"run_id"`
	Scenario  string   `json:"scenario"`
	Pass      bool     `json:"pass"`
	Steps     int      `json:"steps"`
	TraceHash string   `json:"trace_hash"`
	Errors    []string `json:"errors,omitempty"`
}

// RecordResult holds the overall record result.
type RecordResult struct {
	Runs    []RecordedRun `json:"runs"`
	Skipped []string      `json:"skipped,omitempty"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	return newRecordCommand(&RecordOptions{RootOptions: rootOpts})
}

func newRecordCommand(opts *RecordOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <scenario>...",
		Short: "Run scenarios and store their traces",
		Long: `Run scenarios and append each trace to a SQLite run log, creating the
database if it doesn't exist. Every run gets a UUIDv7 run ID.

Step numbering continues from the highest seq already in the log, so
runs never share a seq range. replay restarts the clock from each run's
starting seq to reproduce its trace hash.

Examples:
  dynarray record --db ./runs.db ./scenarios
  dynarray record --db ./runs.db ./scenarios --filter "copy_*"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runRecord(opts *RecordOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.Logger()

	dbPath, err := resolveDatabase(opts.Database, opts.RootOptions)
	if err != nil {
		return err
	}

	loaded, err := LoadScenarios(paths, opts.Filter)
	if err != nil {
		return loadErrorExit(formatter, err)
	}

	logger.Info("opening database", "path", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	maxSeq, err := st.MaxSeq(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run log", err)
	}
	clock := trace.NewClockAt(maxSeq)

	gen := opts.RunIDs
	if gen == nil {
		gen = trace.UUIDv7Generator{}
	}

	result := RecordResult{Runs: []RecordedRun{}}
	for _, l := range loaded {
		if l.Err != nil {
			logger.Warn("skipping scenario", "file", l.Path, "error", l.Err)
			result.Skipped = append(result.Skipped, l.Path)
			continue
		}

		rec, err := recordScenario(ctx, st, l.Scenario, clock, gen, opts.RootOptions)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to record %s", l.Scenario.Name), err)
		}
		logger.Debug("run recorded", "run_id", rec.RunID, "scenario", rec.Scenario, "steps", rec.Steps)
		result.Runs = append(result.Runs, rec)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	for _, r := range result.Runs {
		status := "✓"
		if !r.Pass {
			status = "✗"
		}
		fmt.Fprintf(w, "%s %s %s (%d steps, trace %s)\n", status, r.RunID, r.Scenario, r.Steps, shortHash(r.TraceHash))
	}
	for _, path := range result.Skipped {
		fmt.Fprintf(w, "- skipped %s (load error)\n", path)
	}
	fmt.Fprintf(w, "\nRecorded %d run(s) to %s\n", len(result.Runs), dbPath)
	return nil
}

// recordScenario runs s on the shared clock and writes the run. The run's
// starting seq is the clock value before its first step.
func recordScenario(
	ctx context.Context,
	st *store.Store,
	s *scenario.Scenario,
	clock *trace.Clock,
	gen trace.RunIDGenerator,
	opts *RootOptions,
) (RecordedRun, error) {
	start := clock.Current()
	res, err := scenario.Run(s, scenario.WithClock(clock), scenario.WithLogger(opts.Logger()))
	if err != nil {
		return RecordedRun{}, err
	}

	hash, err := res.Hash(s.Name)
	if err != nil {
		return RecordedRun{}, err
	}

	run := store.Run{
		ID:        gen.Generate(),
		Scenario:  s.Name,
		Element:   elementName(s),
		TraceHash: hash,
		Pass:      res.Pass,
		Seq:       start,
	}
	inserted, err := st.WriteRun(ctx, run, res.Trace)
	if err != nil {
		return RecordedRun{}, err
	}
	if !inserted {
		return RecordedRun{}, fmt.Errorf("run %s already recorded", run.ID)
	}

	return RecordedRun{
		RunID:     run.ID,
		Scenario:  s.Name,
		Pass:      res.Pass,
		Steps:     len(res.Trace),
		TraceHash: hash,
		Errors:    res.Errors,
	}, nil
}

// elementName returns the scenario's element type with the default filled in.
func elementName(s *scenario.Scenario) string {
	if s.Element == "" {
		return scenario.ElementInt
	}
	return s.Element
}
