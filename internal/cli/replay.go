package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dynarray/internal/scenario"
	"github.com/roach88/dynarray/internal/store"
	"github.com/roach88/dynarray/internal/trace"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Scenario string // optional - replay runs of one scenario only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID         string `json:"run_id"`
	Scenario      string `json:"scenario"`
	Steps         int    `json:"steps"`
	StoredHash    string `json:"stored_hash"`
	ReplayHash    string `json:"replay_hash,omitempty"`
	Intact        bool   `json:"intact"`
	Deterministic bool   `json:"deterministic"`
	Error         string `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario>...",
		Short: "Re-run recorded runs and verify determinism",
		Long: `Re-run every recorded run from its scenario file and compare trace hashes.

For each run in the log, the stored steps are first re-hashed to check the
log itself is intact. The scenario with the run's name is then executed
again with the clock restarted at the run's starting seq; the run is
deterministic when the new trace hash equals the stored one.

A --scenario with no recorded runs is a command error that lists the
scenarios the log does hold.

Exit codes:
  0 - All runs are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  dynarray replay --db ./runs.db ./scenarios
  dynarray replay --db ./runs.db ./scenarios --scenario doubling_growth
  dynarray replay --db ./runs.db ./scenarios --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "replay runs of this scenario only")

	return cmd
}

func runReplay(opts *ReplayOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	dbPath, err := resolveDatabase(opts.Database, opts.RootOptions)
	if err != nil {
		return err
	}

	loaded, err := LoadScenarios(paths, "")
	if err != nil {
		return loadErrorExit(formatter, err)
	}
	byName := indexByName(loaded)

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runs, err := st.ListRuns(ctx, opts.Scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if opts.Scenario != "" && len(runs) == 0 {
		return unknownScenarioExit(ctx, formatter, st, opts.Scenario)
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runs)),
		TotalRuns:        len(runs),
		AllDeterministic: true,
	}
	for _, run := range runs {
		runResult, err := replayRun(ctx, st, run, byName, opts.RootOptions)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", run.ID), err)
		}

		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return formatter.Report(result,
			failureIf(!result.AllDeterministic, ErrCodeDeterminism, "determinism verification failed"))
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// unknownScenarioExit reports a --scenario with no recorded runs, listing the
// scenarios that do have runs.
func unknownScenarioExit(ctx context.Context, formatter *OutputFormatter, st *store.Store, name string) error {
	recorded, err := st.ListScenarios(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list scenarios", err)
	}

	message := fmt.Sprintf("no runs recorded for scenario %q", name)
	if len(recorded) > 0 {
		message += fmt.Sprintf(" (recorded: %s)", strings.Join(recorded, ", "))
	}
	_ = formatter.Error(ErrCodeNotFound, message, map[string][]string{"recorded": recorded})
	return NewExitError(ExitCommandError, message)
}

// replayRun verifies a stored run and re-executes its scenario.
// Problems with the run itself are reported in the result; the returned
// error is reserved for store failures.
func replayRun(
	ctx context.Context,
	st *store.Store,
	run store.Run,
	byName map[string]*scenario.Scenario,
	opts *RootOptions,
) (ReplayRunResult, error) {
	result := ReplayRunResult{
		RunID:      run.ID,
		Scenario:   run.Scenario,
		StoredHash: run.TraceHash,
	}

	_, steps, err := st.VerifyRun(ctx, run.ID)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		result.Steps = len(steps)
		result.Error = "stored steps do not match the stored trace hash"
		return result, nil
	case err != nil:
		return ReplayRunResult{}, err
	}
	result.Steps = len(steps)
	result.Intact = true

	s, ok := byName[run.Scenario]
	if !ok {
		result.Error = fmt.Sprintf("scenario %q not found", run.Scenario)
		return result, nil
	}

	res, err := scenario.Run(s,
		scenario.WithClock(trace.NewClockAt(run.Seq)),
		scenario.WithLogger(opts.Logger()),
	)
	if err != nil {
		result.Error = fmt.Sprintf("execution failed: %v", err)
		return result, nil
	}

	hash, err := res.Hash(s.Name)
	if err != nil {
		result.Error = fmt.Sprintf("trace hash: %v", err)
		return result, nil
	}
	result.ReplayHash = hash
	result.Deterministic = hash == run.TraceHash
	if !result.Deterministic {
		opts.Logger().Warn("replay diverged",
			"run_id", run.ID,
			"scenario", run.Scenario,
			"first_difference", firstDifference(steps, res.Trace),
		)
	}
	return result, nil
}

// firstDifference returns the seq of the first step that differs between two
// traces, or -1 when one is a prefix of the other.
func firstDifference(a, b []trace.Step) int64 {
	for i := range min(len(a), len(b)) {
		ha, errA := trace.StepHash(a[i])
		hb, errB := trace.StepHash(b[i])
		if errA != nil || errB != nil || ha != hb {
			return a[i].Seq
		}
	}
	return -1
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	if result.TotalRuns == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run: %s (%s)\n", status, run.RunID, run.Scenario)
		if verbose {
			fmt.Fprintf(w, "  Steps: %d\n", run.Steps)
			fmt.Fprintf(w, "  Stored hash: %s\n", run.StoredHash)
			fmt.Fprintf(w, "  Replay hash: %s\n", run.ReplayHash)
		}
		if run.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n", run.Error)
		} else if !run.Deterministic {
			fmt.Fprintln(w, "  Warning: Non-deterministic replay detected!")
		}
	}
	fmt.Fprintln(w)

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All runs verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
