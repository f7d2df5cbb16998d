package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/dynarray/internal/store"
	"github.com/roach88/dynarray/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Op       string // optional - filter timeline to one op
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Run      store.Run      `json:"run"`
	Timeline []trace.Step   `json:"timeline"`
	OpCounts map[string]int `json:"op_counts"`
	Stats    TraceStats     `json:"stats"`
}

// TraceStats holds summary statistics for the run.
type TraceStats struct {
	TotalSteps  int `json:"total_steps"`
	Errors      int `json:"errors"`
	MaxSize     int `json:"max_size"`
	MaxCapacity int `json:"max_capacity"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <run-id>",
		Short: "Show a recorded run",
		Long: `Show a recorded run: its steps in seq order, how often each op was used
and summary statistics.

Examples:
  dynarray trace --db ./runs.db 01920000-0000-7000-8000-000000000001
  dynarray trace --db ./runs.db 01920000-0000-7000-8000-000000000001 --op append
  dynarray trace --db ./runs.db 01920000-0000-7000-8000-000000000001 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Op, "op", "", "filter timeline to one op")

	return cmd
}

func runTrace(opts *TraceOptions, runID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if !trace.ValidRunID(runID) {
		_ = formatter.Error(ErrCodeInvalidArgs, fmt.Sprintf("invalid run ID %q", runID), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid run ID %q", runID))
	}

	dbPath, err := resolveDatabase(opts.Database, opts.RootOptions)
	if err != nil {
		return err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	run, err := st.ReadRun(ctx, runID)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", runID), nil)
		return WrapExitError(ExitCommandError, "run not found", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	steps, err := st.ReadSteps(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read steps", err)
	}
	counts, err := st.OpCounts(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count ops", err)
	}

	result := TraceResult{
		Run:      run,
		Timeline: filterSteps(steps, opts.Op),
		OpCounts: counts,
		Stats:    traceStats(steps),
	}

	if opts.Format == "json" {
		return formatter.ReportRun(run.ID, result)
	}

	w := cmd.OutOrStdout()
	status := "pass"
	if !run.Pass {
		status = "fail"
	}
	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "  Scenario: %s (%s elements, %s)\n", run.Scenario, run.Element, status)
	fmt.Fprintf(w, "  Trace hash: %s\n", run.TraceHash)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Timeline:")
	for _, step := range result.Timeline {
		fmt.Fprintf(w, "  %s\n", formatStep(step))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Ops:")
	ops := make([]string, 0, len(counts))
	for op := range counts {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	for _, op := range ops {
		fmt.Fprintf(w, "  %-14s %d\n", op, counts[op])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Stats: %d steps, %d errors, max size %d, max capacity %d\n",
		result.Stats.TotalSteps, result.Stats.Errors, result.Stats.MaxSize, result.Stats.MaxCapacity)
	return nil
}

// filterSteps returns the steps with the given op, or all steps when op is
// empty.
func filterSteps(steps []trace.Step, op string) []trace.Step {
	if op == "" {
		return steps
	}
	filtered := []trace.Step{}
	for _, step := range steps {
		if step.Op == op {
			filtered = append(filtered, step)
		}
	}
	return filtered
}

func traceStats(steps []trace.Step) TraceStats {
	stats := TraceStats{TotalSteps: len(steps)}
	for _, step := range steps {
		if step.Outcome == trace.OutcomeError {
			stats.Errors++
		}
		stats.MaxSize = max(stats.MaxSize, step.Size)
		stats.MaxCapacity = max(stats.MaxCapacity, step.Capacity)
	}
	return stats
}
