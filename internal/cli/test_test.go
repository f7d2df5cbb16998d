package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dynarray/internal/testutil"
)

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), t.TempDir())
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTestCommandMatchesGoldenFiles(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}),
		testutil.ScenarioDir, "--golden", testutil.GoldenDir)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 9, resp.Data.Total)
	assert.Equal(t, 0, resp.Data.Failed)
	for _, s := range resp.Data.Scenarios {
		assert.Equal(t, goldenMatch, s.Golden, s.Name)
	}
}

func TestTestCommandFilter(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}),
		testutil.ScenarioDir, "--golden", testutil.GoldenDir, "--filter", "*_failure")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ append_failure")
	assert.Contains(t, out, "✓ construct_failure")
	assert.Contains(t, out, "✓ resize_failure")
	assert.NotContains(t, out, "doubling_growth")
	assert.Contains(t, out, "Test Summary: 3 passed, 0 failed, 3 total")
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), testutil.ScenarioDir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandUpdateThenMatch(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteScenario(t, dir, "tiny", passingScenario)

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ tiny (golden updated)")

	golden := filepath.Join(dir, "golden", "tiny.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario":"tiny"`)

	out, err = execute(t, NewTestCommand(&RootOptions{Format: "json"}), dir)
	require.NoError(t, err)

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, goldenMatch, resp.Data.Scenarios[0].Golden)
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteScenario(t, dir, "tiny", passingScenario)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "tiny.golden"), []byte(`{"scenario":"tiny","steps":[]}`), 0644))

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandWithoutGoldenUsesAssertions(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteScenario(t, dir, "tiny", passingScenario)
	testutil.WriteScenario(t, dir, "wrong_capacity", failingScenario)

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeScenarioFailed, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	for _, s := range resp.Data.Scenarios {
		if s.Pass {
			assert.Equal(t, goldenMissing, s.Golden)
		}
	}
}

func TestTestHelpText(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "golden")
	assert.Contains(t, out, "--update")
	assert.Contains(t, out, "--filter")
	assert.Contains(t, out, "scenarios-dir")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteScenario(t, dir, "b", passingScenario)
	testutil.WriteScenario(t, dir, "a", passingScenario)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	files, err := FindScenarioFiles([]string{dir}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml")}, files)

	files, err = FindScenarioFiles([]string{dir}, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.yaml")}, files)
}

func TestLoadScenarios_ReportsFileErrors(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteScenario(t, dir, "good", passingScenario)
	testutil.WriteScenario(t, dir, "zbad", "name: [unterminated\n")

	loaded, err := LoadScenarios([]string{dir}, "")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.NoError(t, loaded[0].Err)
	assert.Equal(t, "tiny", loaded[0].Name())
	assert.Error(t, loaded[1].Err)
	assert.Equal(t, "zbad", loaded[1].Name())

	byName := indexByName(loaded)
	assert.Len(t, byName, 1)
	assert.Contains(t, byName, "tiny")
}
