package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "dynarray", cmd.Use)
	assert.Contains(t, cmd.Long, "deterministic")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"run", "test", "validate", "growth", "record", "replay", "trace", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestDatabaseFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"record", "replay", "trace"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err)

			dbFlag := subCmd.Flags().Lookup("db")
			require.NotNil(t, dbFlag)
			assert.Equal(t, "", dbFlag.DefValue)
		})
	}
}

func TestGrowthCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	growthCmd, _, err := cmd.Find([]string{"growth"})
	require.NoError(t, err)

	nFlag := growthCmd.Flags().Lookup("n")
	require.NotNil(t, nFlag)
	assert.Equal(t, "100", nFlag.DefValue)
	assert.NotNil(t, growthCmd.Flags().Lookup("reserve"))
	assert.NotNil(t, growthCmd.Flags().Lookup("shrink"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, NewRootCommand(), "version", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, NewRootCommand(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dynarray 0.1.0")
	assert.Contains(t, out, "record format 1")
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := execute(t, NewRootCommand(), "version", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   VersionInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "0.1.0", resp.Data.Version)
	assert.Equal(t, "1", resp.Data.RecordVersion)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dynarray.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestConfigFile_SetsFormat(t *testing.T) {
	path := writeConfig(t, "format: json\n")

	out, err := execute(t, NewRootCommand(), "version", "--config", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestConfigFile_FlagWins(t *testing.T) {
	path := writeConfig(t, "format: json\n")

	out, err := execute(t, NewRootCommand(), "version", "--config", path, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "dynarray 0.1.0")
}

func TestConfigFile_Missing(t *testing.T) {
	_, err := execute(t, NewRootCommand(), "version", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestConfigEnv_SetsFormat(t *testing.T) {
	t.Setenv("DYNARRAY_FORMAT", "json")

	out, err := execute(t, NewRootCommand(), "version")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestConfigFile_Database(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	path := writeConfig(t, "db: "+dbPath+"\n")

	_, err := execute(t, NewRootCommand(), "record", "--config", path, "../scenario/testdata/scenarios/doubling_growth.yaml")
	require.NoError(t, err)
	assert.FileExists(t, dbPath)
}

func TestResolveDatabase(t *testing.T) {
	opts := &RootOptions{Database: "from-config.db"}

	got, err := resolveDatabase("flag.db", opts)
	require.NoError(t, err)
	assert.Equal(t, "flag.db", got)

	got, err = resolveDatabase("", opts)
	require.NoError(t, err)
	assert.Equal(t, "from-config.db", got)

	_, err = resolveDatabase("", &RootOptions{})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestNewLogger_Levels(t *testing.T) {
	quiet := newLogger(&bytes.Buffer{}, false)
	assert.False(t, quiet.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, quiet.Enabled(t.Context(), slog.LevelWarn))

	verbose := newLogger(&bytes.Buffer{}, true)
	assert.True(t, verbose.Enabled(t.Context(), slog.LevelDebug))
}

func TestLogger_DefaultDiscards(t *testing.T) {
	opts := &RootOptions{}
	require.NotNil(t, opts.Logger())
	assert.False(t, opts.Logger().Enabled(t.Context(), slog.LevelDebug))
}
