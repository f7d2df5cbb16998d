package scenario

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// schema holds the compiled #Scenario definition. A cue.Context is not safe
// for concurrent use, so every use goes through schemaMu.
var (
	schemaOnce sync.Once
	schemaMu   sync.Mutex
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error
)

func loadSchema() error {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#Scenario"))
		if err := schemaDef.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Scenario: %w", err)
		}
	})
	return schemaErr
}

// CheckSchema unifies a YAML document with the scenario schema and returns
// every violation. It does not decode into a Scenario.
func CheckSchema(data []byte) []ValidationError {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []ValidationError{{Field: "yaml", Message: err.Error(), Code: ErrCodeParse}}
	}
	if doc == nil {
		return []ValidationError{{Field: "yaml", Message: "document is empty", Code: ErrCodeParse}}
	}

	if err := loadSchema(); err != nil {
		return []ValidationError{{Field: "schema", Message: err.Error(), Code: ErrCodeSchema}}
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	v := schemaCtx.Encode(doc)
	if err := v.Err(); err != nil {
		return []ValidationError{{Field: "yaml", Message: err.Error(), Code: ErrCodeParse}}
	}
	err := schemaDef.Unify(v).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		errs = append(errs, ValidationError{
			Field:   fieldPath(e.Path()),
			Message: fmt.Sprintf(format, args...),
			Code:    ErrCodeSchema,
		})
	}
	return errs
}

// fieldPath renders a CUE path such as ["steps", "0", "op"] as steps[0].op.
func fieldPath(path []string) string {
	var b strings.Builder
	for _, p := range path {
		if strings.HasPrefix(p, "#") {
			continue
		}
		if p != "" && strings.Trim(p, "0123456789") == "" {
			fmt.Fprintf(&b, "[%s]", p)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	if b.Len() == 0 {
		return "scenario"
	}
	return b.String()
}

// ValidateFile checks a scenario file in three passes: schema, strict
// decoding, then semantic validation. Returns all errors found in the first
// pass that reports any.
func ValidateFile(path string) []ValidationError {
	data, err := os.ReadFile(path)
	if err != nil {
		return []ValidationError{{Field: "file", Message: err.Error(), Code: ErrCodeRead}}
	}

	if errs := CheckSchema(data); len(errs) > 0 {
		return errs
	}

	s, err := decodeStrict(data)
	if err != nil {
		return []ValidationError{{Field: "yaml", Message: err.Error(), Code: ErrCodeParse}}
	}
	return Validate(s)
}
