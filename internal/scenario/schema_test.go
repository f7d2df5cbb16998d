package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSchema_Valid(t *testing.T) {
	errs := CheckSchema([]byte(`
name: ok
description: "valid"
arrays: [{ name: a, init: sized, size: 2 }]
steps: [{ op: resize, target: a, n: 4, expect: { size: 4 } }]
assertions: [{ type: final_capacity, target: a, equals: 4 }]
`))
	assert.Empty(t, errs)
}

func TestCheckSchema_Violations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown op", `
name: x
description: d
steps: [{ op: insert, target: a }]
`},
		{"negative n", `
name: x
description: d
steps: [{ op: reserve, target: a, n: -1 }]
`},
		{"n above bound", `
name: x
description: d
steps: [{ op: reserve, target: a, n: 4611686018427387904 }]
`},
		{"size above bound", `
name: x
description: d
arrays: [{ name: a, init: sized, size: 16777217 }]
steps: [{ op: clear, target: a }]
`},
		{"unknown field", `
name: x
description: d
steps: [{ op: clear, target: a, colour: red }]
`},
		{"empty steps", `
name: x
description: d
steps: []
`},
		{"float value", `
name: x
description: d
steps: [{ op: append, target: a, value: 1.5 }]
`},
		{"bad init kind", `
name: x
description: d
arrays: [{ name: a, init: magic }]
steps: [{ op: clear, target: a }]
`},
		{"missing description", `
name: x
steps: [{ op: clear, target: a }]
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := CheckSchema([]byte(tt.doc))
			require.NotEmpty(t, errs)
			assert.Equal(t, ErrCodeSchema, errs[0].Code)
		})
	}
}

func TestCheckSchema_MalformedYAML(t *testing.T) {
	errs := CheckSchema([]byte("name: [unclosed"))
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeParse, errs[0].Code)

	errs = CheckSchema([]byte(""))
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeParse, errs[0].Code)
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "steps[0].op", fieldPath([]string{"#Scenario", "steps", "0", "op"}))
	assert.Equal(t, "name", fieldPath([]string{"name"}))
	assert.Equal(t, "scenario", fieldPath(nil))
}

func TestValidateFile_Testdata(t *testing.T) {
	files, err := Discover("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			assert.Empty(t, ValidateFile(f))
		})
	}
}

func TestValidateFile_SemanticErrorAfterSchema(t *testing.T) {
	path := writeScenario(t, `
name: x
description: d
steps: [{ op: clear, target: ghost }]
`)

	errs := ValidateFile(path)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeReference, errs[0].Code)
	assert.Equal(t, "steps[0].target", errs[0].Field)
}

func TestValidateFile_Missing(t *testing.T) {
	errs := ValidateFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeRead, errs[0].Code)
}
