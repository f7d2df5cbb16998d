package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dynarray/internal/testutil"
	"github.com/roach88/dynarray/internal/trace"
)

func TestRunMissingArgs(t *testing.T) {
	_, err := execute(t, NewRunCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestRunNonExistentPath(t *testing.T) {
	_, err := execute(t, NewRunCommand(&RootOptions{Format: "text"}), "/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunSingleScenario(t *testing.T) {
	path := filepath.Join(testutil.ScenarioDir, "doubling_growth.yaml")

	out, err := execute(t, NewRunCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ doubling_growth (10 steps, trace ")
	assert.Contains(t, out, "Run Summary: 1 passed, 0 failed, 1 total")
	assert.NotContains(t, out, "[2] append_move")
}

func TestRunWithTrace(t *testing.T) {
	path := filepath.Join(testutil.ScenarioDir, "doubling_growth.yaml")

	out, err := execute(t, NewRunCommand(&RootOptions{Format: "text"}), path, "--trace")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] init a init=\"empty\" -> ok size=0 cap=0 []")
	assert.Contains(t, out, "[2] append_move a value=1 -> ok size=1 cap=1 [1]")
	assert.Contains(t, out, "[10] append_move a value=9 -> ok size=9 cap=16 [1,2,3,4,5,6,7,8,9]")
}

func TestRunDirectoryJSON(t *testing.T) {
	out, err := execute(t, NewRunCommand(&RootOptions{Format: "json"}), testutil.ScenarioDir)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Scenarios []struct {
				Name      string `json:"name"`
				Pass      bool   `json:"pass"`
				TraceHash string `json:"trace_hash"`
			} `json:"scenarios"`
			Passed int `json:"passed"`
			Total  int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 9, resp.Data.Total)
	assert.Equal(t, 9, resp.Data.Passed)
	for _, s := range resp.Data.Scenarios {
		assert.True(t, s.Pass, s.Name)
		assert.Len(t, s.TraceHash, 64, s.Name)
	}
}

func TestRunFailingScenario(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteScenario(t, dir, "wrong_capacity", failingScenario)

	out, err := execute(t, NewRunCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_capacity")
	assert.Contains(t, out, "capacity")
}

func TestRunLoadErrorIsFailure(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteScenario(t, dir, "broken", "name: broken\nsteps: [{ op: nope }]\n")

	out, err := execute(t, NewRunCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, "load error")
}

func TestRunOne_HashMatchesResult(t *testing.T) {
	loaded, err := LoadScenarios([]string{filepath.Join(testutil.ScenarioDir, "list_append_remove.yaml")}, "")
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	report := runOne(loaded[0])
	require.True(t, report.Pass, report.Errors)
	assert.Equal(t, trace.MustTraceHash("list_append_remove", report.Trace), report.TraceHash)
	assert.Equal(t, 3, report.Final["a"].Size)
}

func TestFormatStep(t *testing.T) {
	st := trace.Step{
		Seq:       7,
		Op:        "at",
		Target:    "a",
		Args:      trace.Object{"index": trace.Int(3)},
		Outcome:   trace.OutcomeError,
		ErrorCode: "OUT_OF_RANGE",
		Size:      3,
		Capacity:  4,
		Elements:  trace.List{trace.Int(1), trace.Int(2), trace.Int(3)},
	}
	assert.Equal(t, "[7] at a index=3 -> error OUT_OF_RANGE size=3 cap=4 [1,2,3]", formatStep(st))

	st = trace.Step{Seq: 2, Op: "pop", Target: "s", Outcome: trace.OutcomeOK, Value: trace.String("x")}
	assert.Equal(t, `[2] pop s -> ok value="x" size=0 cap=0 []`, formatStep(st))
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortHash("0123456789abcdef"))
	assert.Equal(t, "abc", shortHash("abc"))
}
