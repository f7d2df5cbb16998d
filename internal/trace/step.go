package trace

import (
	"encoding/json"
	"fmt"
)

// Outcome classifies how a step ended.
type Outcome string

const (
	// OutcomeOK means the operation completed.
	OutcomeOK Outcome = "ok"

	// OutcomeError means the operation returned an error.
	OutcomeError Outcome = "error"

	// OutcomeEmpty means a removal was asked of an empty array and did nothing.
	OutcomeEmpty Outcome = "empty"
)

// Step is the observation recorded after one scripted operation.
type Step struct {
	Seq    int64  `json:"seq"`
	Op     string `json:"op"`
	Target string `json:"target"`

	// Args holds the operation's inputs (n, index, value, from, with).
	Args Object `json:"args,omitempty"`

	Outcome   Outcome `json:"outcome"`
	ErrorCode string  `json:"error_code,omitempty"`

	// Value is what a read returned: the element for at/front/back/pop,
	// the ordering (-1, 0, 1) for compare. Nil when nothing was returned.
	Value Value `json:"value,omitempty"`

	Size     int  `json:"size"`
	Capacity int  `json:"capacity"`
	Elements List `json:"elements"`
}

// Object returns the step as a canonical record. Empty optional fields are
// omitted so that records never contain null.
func (s Step) Object() Object {
	obj := Object{
		"seq":      Int(s.Seq),
		"op":       String(s.Op),
		"target":   String(s.Target),
		"outcome":  String(s.Outcome),
		"size":     Int(s.Size),
		"capacity": Int(s.Capacity),
		"elements": s.elements(),
	}
	if len(s.Args) > 0 {
		obj["args"] = s.Args
	}
	if s.ErrorCode != "" {
		obj["error_code"] = String(s.ErrorCode)
	}
	if s.Value != nil {
		obj["value"] = s.Value
	}
	return obj
}

func (s Step) elements() List {
	if s.Elements == nil {
		return List{}
	}
	return s.Elements
}

// stepRecord is the decoding shape of a canonical step.
type stepRecord struct {
	Seq       int64           `json:"seq"`
	Op        string          `json:"op"`
	Target    string          `json:"target"`
	Args      json.RawMessage `json:"args"`
	Outcome   Outcome         `json:"outcome"`
	ErrorCode string          `json:"error_code"`
	Value     json.RawMessage `json:"value"`
	Size      int             `json:"size"`
	Capacity  int             `json:"capacity"`
	Elements  json.RawMessage `json:"elements"`
}

// ParseStep decodes a record produced by MarshalCanonical(step).
func ParseStep(data []byte) (Step, error) {
	var rec stepRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Step{}, fmt.Errorf("parse step: %w", err)
	}
	s := Step{
		Seq:       rec.Seq,
		Op:        rec.Op,
		Target:    rec.Target,
		Outcome:   rec.Outcome,
		ErrorCode: rec.ErrorCode,
		Size:      rec.Size,
		Capacity:  rec.Capacity,
		Elements:  List{},
	}
	if len(rec.Args) > 0 {
		v, err := DecodeValue(rec.Args)
		if err != nil {
			return Step{}, fmt.Errorf("parse step %d args: %w", rec.Seq, err)
		}
		obj, ok := v.(Object)
		if !ok {
			return Step{}, fmt.Errorf("parse step %d: args must be an object", rec.Seq)
		}
		s.Args = obj
	}
	if len(rec.Value) > 0 {
		v, err := DecodeValue(rec.Value)
		if err != nil {
			return Step{}, fmt.Errorf("parse step %d value: %w", rec.Seq, err)
		}
		s.Value = v
	}
	if len(rec.Elements) > 0 {
		v, err := DecodeValue(rec.Elements)
		if err != nil {
			return Step{}, fmt.Errorf("parse step %d elements: %w", rec.Seq, err)
		}
		list, ok := v.(List)
		if !ok {
			return Step{}, fmt.Errorf("parse step %d: elements must be a list", rec.Seq)
		}
		s.Elements = list
	}
	return s, nil
}

// Snapshot is a complete run: the scenario it came from, its run ID and
// every step in sequence order.
type Snapshot struct {
	Scenario string `json:"scenario"`
	RunID    string `json:"run_id"`
	Steps    []Step `json:"steps"`
}

// Canonical renders the snapshot for golden comparison. The run ID is left
// out so that two runs of the same scenario render identically.
func (s Snapshot) Canonical() ([]byte, error) {
	return MarshalCanonical(traceObject(s.Scenario, s.Steps))
}

func traceObject(scenario string, steps []Step) Object {
	list := make(List, len(steps))
	for i, st := range steps {
		list[i] = st.Object()
	}
	return Object{
		"scenario": String(scenario),
		"steps":    list,
	}
}
