package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// passingScenario is a minimal scenario whose expectations hold.
const passingScenario = `
name: tiny
description: "Append twice"
arrays:
  - { name: a, init: empty }
steps:
  - { op: append, target: a, value: 1, expect: { size: 1, capacity: 1 } }
  - { op: append, target: a, value: 2, expect: { size: 2, capacity: 2 } }
`

// failingScenario expects a capacity the doubling policy never produces.
const failingScenario = `
name: wrong_capacity
description: "Expects capacity 3 after three appends"
arrays:
  - { name: a, init: empty }
steps:
  - { op: append, target: a, value: 1 }
  - { op: append, target: a, value: 2 }
  - { op: append, target: a, value: 3, expect: { capacity: 3 } }
`
