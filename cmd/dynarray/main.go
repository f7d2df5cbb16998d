// Command dynarray runs dynamic array scenarios, records their traces and
// replays them.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/dynarray/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
