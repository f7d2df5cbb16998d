package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dynarray/internal/scenario"
	"github.com/roach88/dynarray/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Trace bool // print every step in text output
}

// RunReport is the outcome of running one scenario.
type RunReport struct {
	Name      string                         `json:"name"`
	File      string                         `json:"file"`
	Pass      bool                           `json:"pass"`
	Errors    []string                       `json:"errors,omitempty"`
	TraceHash string                         `json:"trace_hash,omitempty"`
	Trace     []trace.Step                   `json:"trace,omitempty"`
	Final     map[string]scenario.ArrayState `json:"final,omitempty"`
}

// RunSummary holds the reports of a run command.
type RunSummary struct {
	Scenarios []RunReport `json:"scenarios"`
	Passed    int         `json:"passed"`
	Failed    int         `json:"failed"`
	Total     int         `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario>...",
		Short: "Run scenarios and print their traces",
		Long: `Run one or more scenario files (or directories of them) and report
each trace: its hash, the final state of every array and, with --trace or
JSON output, every recorded step.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  dynarray run ./scenarios/doubling_growth.yaml
  dynarray run ./scenarios --trace
  dynarray run ./scenarios --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print every recorded step")

	return cmd
}

func runScenarios(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadScenarios(paths, "")
	if err != nil {
		return loadErrorExit(formatter, err)
	}

	summary := RunSummary{
		Scenarios: make([]RunReport, 0, len(loaded)),
		Total:     len(loaded),
	}
	for _, l := range loaded {
		report := runOne(l, scenario.WithLogger(opts.Logger()))
		summary.Scenarios = append(summary.Scenarios, report)
		if report.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if opts.Format == "json" {
		return formatter.Report(summary,
			failureIf(summary.Failed > 0, ErrCodeScenarioFailed, "%d scenario(s) failed", summary.Failed))
	}
	return outputRunText(cmd.OutOrStdout(), summary, opts.Trace)
}

// runOne executes a loaded scenario and reports the outcome.
func runOne(l LoadedScenario, opts ...scenario.Option) RunReport {
	report := RunReport{Name: l.Name(), File: l.Path}
	if l.Err != nil {
		report.Errors = []string{fmt.Sprintf("load error: %v", l.Err)}
		return report
	}

	result, err := scenario.Run(l.Scenario, opts...)
	if err != nil {
		report.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return report
	}

	hash, err := result.Hash(l.Scenario.Name)
	if err != nil {
		report.Errors = []string{fmt.Sprintf("trace hash: %v", err)}
		return report
	}

	report.Pass = result.Pass
	report.Errors = result.Errors
	report.TraceHash = hash
	report.Trace = result.Trace
	report.Final = result.Final
	return report
}

func outputRunText(w io.Writer, summary RunSummary, showTrace bool) error {
	if summary.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	for _, r := range summary.Scenarios {
		if !r.Pass {
			fmt.Fprintf(w, "✗ %s\n", r.Name)
			for _, e := range r.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		} else {
			fmt.Fprintf(w, "✓ %s (%d steps, trace %s)\n", r.Name, len(r.Trace), shortHash(r.TraceHash))
		}
		if showTrace {
			for _, st := range r.Trace {
				fmt.Fprintf(w, "  %s\n", formatStep(st))
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run Summary: %d passed, %d failed, %d total\n", summary.Passed, summary.Failed, summary.Total)
	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
	}
	return nil
}

// formatStep renders a step on one line:
//
//	[3] append a value=4 -> ok size=4 cap=4 [1,2,3,4]
func formatStep(st trace.Step) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s %s", st.Seq, st.Op, st.Target)
	for _, k := range st.Args.SortedKeys() {
		fmt.Fprintf(&b, " %s=%s", k, renderValue(st.Args[k]))
	}
	fmt.Fprintf(&b, " -> %s", st.Outcome)
	if st.ErrorCode != "" {
		fmt.Fprintf(&b, " %s", st.ErrorCode)
	}
	if st.Value != nil {
		fmt.Fprintf(&b, " value=%s", renderValue(st.Value))
	}
	fmt.Fprintf(&b, " size=%d cap=%d %s", st.Size, st.Capacity, renderValue(st.Elements))
	return b.String()
}

// renderValue renders a trace value as canonical JSON.
func renderValue(v trace.Value) string {
	data, err := trace.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// shortHash returns the first 12 characters of a hash.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
