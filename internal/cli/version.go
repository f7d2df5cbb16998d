package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dynarray/internal/trace"
)

// VersionInfo is the version command's JSON payload.
type VersionInfo struct {
	Version       string `json:"version"`
	RecordVersion string `json:"record_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dynarray version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(VersionInfo{
					Version:       trace.Version,
					RecordVersion: trace.RecordVersion,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dynarray %s (record format %s)\n", trace.Version, trace.RecordVersion)
			return nil
		},
	}
}
