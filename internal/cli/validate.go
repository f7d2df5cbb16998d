package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dynarray/internal/scenario"
)

// FileValidation holds the validation result of one scenario file.
type FileValidation struct {
	File   string                     `json:"file"`
	Valid  bool                       `json:"valid"`
	Errors []scenario.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files against the scenario schema and check that every
step names a known op, carries the fields that op needs and refers to
declared arrays. Nothing is executed.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	files, err := FindScenarioFiles(paths, "")
	if err != nil {
		return loadErrorExit(formatter, err)
	}
	if len(files) == 0 {
		return outputValidateError(formatter, ErrCodeNoFiles, fmt.Sprintf("no scenario files found in %v", paths), nil)
	}

	formatter.VerboseLog("Found %d scenario file(s)", len(files))

	result := ValidationResult{
		Valid: true,
		Files: make([]FileValidation, 0, len(files)),
	}
	for _, f := range files {
		errs := scenario.ValidateFile(f)
		result.Files = append(result.Files, FileValidation{
			File:   f,
			Valid:  len(errs) == 0,
			Errors: errs,
		})
		if len(errs) > 0 {
			result.Valid = false
		}
	}

	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationErrors(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ All scenarios valid (%d file(s))\n", len(result.Files))
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs per-file validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	count := 0
	for _, f := range result.Files {
		count += len(f.Errors)
	}

	if formatter.Format == "json" {
		return formatter.Report(result,
			failureIf(true, ErrCodeValidation, "validation failed with %d error(s)", count))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, f := range result.Files {
		if f.Valid {
			continue
		}
		fmt.Fprintln(formatter.Writer, f.File)
		for _, err := range f.Errors {
			if err.Line > 0 {
				fmt.Fprintf(formatter.Writer, "  line %d\n", err.Line)
			}
			fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
		}
		fmt.Fprintln(formatter.Writer)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", count))
}
