package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/dynarray/internal/scenario"
)

// LoadedScenario is one scenario file and the result of loading it.
// Exactly one of Scenario and Err is set.
type LoadedScenario struct {
	Path     string
	Scenario *scenario.Scenario
	Err      error
}

// Name returns the scenario name, or the file's base name when the file
// could not be loaded.
func (l LoadedScenario) Name() string {
	if l.Scenario != nil {
		return l.Scenario.Name
	}
	base := filepath.Base(l.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadError represents an error that prevents scenarios from being found.
// Errors in individual files are reported through LoadedScenario.Err.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No scenario files found
	ErrCodeLoadFailed  = "E004" // Scenario load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeStore       = "E006" // Run log error
	ErrCodeInvalidArgs = "E007" // Invalid argument

	ErrCodeScenarioFailed = "E101" // Scenario expectations or assertions failed
	ErrCodeValidation     = "E102" // Scenario files failed validation
	ErrCodeDeterminism    = "E103" // Replay produced a different trace
)

// FindScenarioFiles resolves paths to scenario files. A path may name a
// file or a directory, which is searched recursively for *.yaml and *.yml
// files. When filter is non-empty, only files whose base name (without
// extension) matches the glob are kept.
//
// Returns a *LoadError if a path does not exist or cannot be scanned.
func FindScenarioFiles(paths []string, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidArgs, Message: fmt.Sprintf("invalid filter pattern: %v", err)}
		}
	}

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err)}
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := scenario.Discover(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		files = append(files, found...)
	}

	if filter == "" {
		return files, nil
	}
	var kept []string
	for _, f := range files {
		base := filepath.Base(f)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if ok, _ := filepath.Match(filter, name); ok {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// LoadScenarios finds scenario files like FindScenarioFiles and loads each
// one. A file that fails to load is returned with Err set.
func LoadScenarios(paths []string, filter string) ([]LoadedScenario, error) {
	files, err := FindScenarioFiles(paths, filter)
	if err != nil {
		return nil, err
	}

	loaded := make([]LoadedScenario, 0, len(files))
	for _, f := range files {
		s, err := scenario.LoadScenario(f)
		loaded = append(loaded, LoadedScenario{Path: f, Scenario: s, Err: err})
	}
	return loaded, nil
}

// indexByName maps scenario names to their loaded scenarios. Files that
// failed to load are skipped.
func indexByName(loaded []LoadedScenario) map[string]*scenario.Scenario {
	byName := make(map[string]*scenario.Scenario, len(loaded))
	for _, l := range loaded {
		if l.Scenario != nil {
			byName[l.Scenario.Name] = l.Scenario
		}
	}
	return byName
}

// loadErrorExit converts a LoadScenarios error into an exit error, writing
// it through the formatter first.
func loadErrorExit(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, "failed to load scenarios", err)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "failed to load scenarios", err)
}
