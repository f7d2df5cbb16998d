package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dynarray/internal/scenario"
	"github.com/roach88/dynarray/internal/testutil"
)

func TestValidateCommandMissingArgs(t *testing.T) {
	_, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
}

func TestValidateCommandCorpus(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), testutil.ScenarioDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All scenarios valid (9 file(s))")
}

func TestValidateCommandCorpusJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), testutil.ScenarioDir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Len(t, resp.Data.Files, 9)
}

func TestValidateCommandEmptyDir(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestValidateCommandNonExistent(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/dir")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestValidateCommandReportsErrors(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteScenario(t, dir, "good", passingScenario)
	testutil.WriteScenario(t, dir, "ghost", `
name: ghost
description: "Targets an undeclared array"
steps: [{ op: clear, target: ghost }]
`)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "ghost.yaml")
	assert.Contains(t, out, scenario.ErrCodeReference+": steps[0].target")
	assert.NotContains(t, out, "good.yaml")
}

func TestValidateCommandReportsErrorsJSON(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteScenario(t, dir, "bad", `
name: bad
description: "Unknown op"
steps: [{ op: insert, target: a }]
`)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Data.Files, 1)
	assert.False(t, resp.Data.Valid)
	require.NotEmpty(t, resp.Data.Files[0].Errors)
	assert.Equal(t, scenario.ErrCodeSchema, resp.Data.Files[0].Errors[0].Code)
}
