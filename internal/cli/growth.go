package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dynarray/internal/dynarray"
)

// GrowthOptions holds flags for the growth command.
type GrowthOptions struct {
	*RootOptions
	N       int
	Reserve int
	Shrink  bool
}

// GrowthEvent records a capacity change during the appends.
type GrowthEvent struct {
	Size     int `json:"size"`     // size after the append that grew the buffer
	Capacity int `json:"capacity"` // new capacity
	Moves    int `json:"moves"`    // cumulative element relocations
}

// GrowthReport summarises a growth run.
type GrowthReport struct {
	Appends       int            `json:"appends"`
	Reserved      int            `json:"reserved"`
	Events        []GrowthEvent  `json:"events"`
	FinalSize     int            `json:"final_size"`
	FinalCapacity int            `json:"final_capacity"`
	Stats         dynarray.Stats `json:"stats"`
	MovesPerAdd   float64        `json:"moves_per_append"`
}

// NewGrowthCommand creates the growth command.
func NewGrowthCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GrowthOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "growth",
		Short: "Show how capacity grows under repeated appends",
		Long: `Append n integers to an empty array and print every capacity change.

Capacity doubles whenever an append finds the buffer full, so n appends
cause about log2(n) reallocations and fewer than 2n element moves.

Examples:
  dynarray growth -n 1000
  dynarray growth -n 100 --reserve 64
  dynarray growth -n 100 --shrink --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrowth(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.N, "n", "n", 100, "number of appends")
	cmd.Flags().IntVar(&opts.Reserve, "reserve", 0, "capacity to reserve before appending")
	cmd.Flags().BoolVar(&opts.Shrink, "shrink", false, "shrink to fit after appending")

	return cmd
}

func runGrowth(opts *GrowthOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	if opts.N < 0 || opts.Reserve < 0 {
		_ = formatter.Error(ErrCodeInvalidArgs, "-n and --reserve must not be negative", nil)
		return NewExitError(ExitCommandError, "-n and --reserve must not be negative")
	}

	report := measureGrowth(opts.N, opts.Reserve, opts.Shrink)
	opts.Logger().Debug("growth measured",
		"appends", report.Appends,
		"reallocations", report.Stats.Reallocations,
		"moves", report.Stats.Moves,
	)

	if opts.Format == "json" {
		return formatter.Success(report)
	}

	w := cmd.OutOrStdout()
	if report.Reserved > 0 {
		fmt.Fprintf(w, "reserved %d\n", report.Reserved)
	}
	fmt.Fprintf(w, "%8s %10s %8s\n", "size", "capacity", "moves")
	for _, e := range report.Events {
		fmt.Fprintf(w, "%8d %10d %8d\n", e.Size, e.Capacity, e.Moves)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "appends: %d, final size %d, capacity %d\n", report.Appends, report.FinalSize, report.FinalCapacity)
	fmt.Fprintf(w, "allocations %d, reallocations %d, releases %d, moves %d (%.2f per append)\n",
		report.Stats.Allocations, report.Stats.Reallocations, report.Stats.Releases,
		report.Stats.Moves, report.MovesPerAdd)
	return nil
}

// measureGrowth appends 0..n-1 to a fresh array and records each capacity
// change.
func measureGrowth(n, reserve int, shrink bool) GrowthReport {
	a := dynarray.New[int64]()
	if reserve > 0 {
		a.Reserve(reserve)
	}

	report := GrowthReport{
		Appends:  n,
		Reserved: reserve,
		Events:   []GrowthEvent{},
	}
	for i := 0; i < n; i++ {
		before := a.Capacity()
		a.AppendMove(int64(i))
		if a.Capacity() != before {
			report.Events = append(report.Events, GrowthEvent{
				Size:     a.Size(),
				Capacity: a.Capacity(),
				Moves:    a.Stats().Moves,
			})
		}
	}
	if shrink {
		a.ShrinkToFit()
	}

	report.FinalSize = a.Size()
	report.FinalCapacity = a.Capacity()
	report.Stats = a.Stats()
	if n > 0 {
		report.MovesPerAdd = float64(report.Stats.Moves) / float64(n)
	}
	return report
}
