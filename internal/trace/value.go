package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the JSON shapes a record may hold.
// Only String, Int, Bool, List and Object implement it.
type Value interface {
	traceValue()
}

// String is a string value.
type String string

// Int is an integer value. Records never carry floats.
type Int int64

// Bool is a boolean value.
type Bool bool

// List is an ordered sequence of values.
type List []Value

// Object maps keys to values. Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (String) traceValue() {}
func (Int) traceValue()    {}
func (Bool) traceValue()   {}
func (List) traceValue()   {}
func (Object) traceValue() {}

// SortedKeys returns the keys in RFC 8785 order: by UTF-16 code units, which
// differs from Go's byte-wise string order for characters above U+FFFF.
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// FromAny converts an element or argument into a Value.
// Supported: string, int, int64, bool, []int64, []string, Value.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case bool:
		return Bool(val), nil
	case []int64:
		out := make(List, len(val))
		for i, x := range val {
			out[i] = Int(x)
		}
		return out, nil
	case []string:
		out := make(List, len(val))
		for i, x := range val {
			out[i] = String(x)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("null is not a valid record value")
	case float32, float64:
		return nil, fmt.Errorf("floats are not valid record values: %v", val)
	default:
		return nil, fmt.Errorf("unsupported record value type %T", v)
	}
}

// ListOf converts a slice of elements into a List.
func ListOf[E int64 | string](elems []E) List {
	out := make(List, len(elems))
	for i, e := range elems {
		switch x := any(e).(type) {
		case int64:
			out[i] = Int(x)
		case string:
			out[i] = String(x)
		}
	}
	return out
}

// DecodeValue parses JSON into a Value. Numbers must be integers and null is
// rejected, mirroring what MarshalCanonical accepts.
func DecodeValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return fromJSON(raw)
}

func fromJSON(raw any) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return nil, fmt.Errorf("null is not a valid record value")
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number %s is not an integer", val)
		}
		return Int(n), nil
	case []any:
		out := make(List, len(val))
		for i, elem := range val {
			v, err := fromJSON(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		out := make(Object, len(val))
		for k, elem := range val {
			v, err := fromJSON(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported JSON type %T", raw)
	}
}
