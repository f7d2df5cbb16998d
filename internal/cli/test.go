package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/dynarray/internal/scenario"
	"github.com/roach88/dynarray/internal/trace"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
	Golden string // golden directory (default <scenarios-dir>/golden)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "missing"
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// Golden comparison states.
const (
	goldenMatch   = "match"
	goldenUpdated = "updated"
	goldenMissing = "missing"
)

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenarios against their golden traces",
		Long: `Run every scenario in a directory, checking expectations, assertions
and, where a golden file exists, the exact canonical trace.

Golden files are named <scenario-name>.golden and live in
<scenarios-dir>/golden unless --golden says otherwise.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  dynarray test ./scenarios
  dynarray test ./scenarios --filter "resize_*"
  dynarray test ./scenarios --update
  dynarray test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.Golden, "golden", "", "golden file directory")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if info, err := os.Stat(scenariosDir); err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	loaded, err := LoadScenarios([]string{scenariosDir}, opts.Filter)
	if err != nil {
		return loadErrorExit(opts.formatter(cmd), err)
	}

	goldenDir := opts.Golden
	if goldenDir == "" {
		goldenDir = filepath.Join(scenariosDir, "golden")
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(loaded)),
		Total:     len(loaded),
	}
	for _, l := range loaded {
		scenResult := testScenario(l, goldenDir, opts)
		if opts.Format != "json" {
			printScenarioResult(cmd.OutOrStdout(), scenResult)
		}

		result.Scenarios = append(result.Scenarios, scenResult)
		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Report(result,
			failureIf(result.Failed > 0, ErrCodeScenarioFailed, "%d scenario(s) failed", result.Failed))
	}
	return outputTestText(cmd, result)
}

// testScenario runs one scenario and checks it against its golden file.
func testScenario(l LoadedScenario, goldenDir string, opts *TestOptions) ScenarioResult {
	report := runOne(l, scenario.WithLogger(opts.Logger()))
	result := ScenarioResult{Name: report.Name, Pass: report.Pass, Errors: report.Errors}
	if report.TraceHash == "" {
		// Load or execution failure; nothing to compare.
		return result
	}

	data, err := trace.Snapshot{Scenario: report.Name, Steps: report.Trace}.Canonical()
	if err != nil {
		result.Pass = false
		result.Errors = append(result.Errors, fmt.Sprintf("failed to render trace: %v", err))
		return result
	}

	goldenPath := goldenFilePath(goldenDir, report.Name)

	if opts.Update {
		if err := writeGoldenFile(goldenPath, data); err != nil {
			result.Pass = false
			result.Errors = append(result.Errors, fmt.Sprintf("failed to update golden file: %v", err))
			return result
		}
		result.Golden = goldenUpdated
		return result
	}

	want, err := os.ReadFile(goldenPath)
	if errors.Is(err, os.ErrNotExist) {
		// No golden file - use assertion-based validation only
		result.Golden = goldenMissing
		return result
	}
	if err != nil {
		result.Pass = false
		result.Errors = append(result.Errors, fmt.Sprintf("golden comparison failed: %v", err))
		return result
	}

	if !bytes.Equal(want, data) {
		result.Pass = false
		result.Errors = append(result.Errors, "trace does not match golden file (run with --update to regenerate)")
		return result
	}
	result.Golden = goldenMatch
	return result
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(goldenDir, name string) string {
	return filepath.Join(goldenDir, name+".golden")
}

// writeGoldenFile writes a canonical trace as a golden file.
func writeGoldenFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

func printScenarioResult(w io.Writer, r ScenarioResult) {
	if !r.Pass {
		fmt.Fprintf(w, "✗ %s\n", r.Name)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return
	}
	if r.Golden == goldenUpdated {
		fmt.Fprintf(w, "✓ %s (golden updated)\n", r.Name)
		return
	}
	fmt.Fprintf(w, "✓ %s\n", r.Name)
}

// outputTestText outputs the test summary as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
