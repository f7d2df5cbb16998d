package scenario

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"

	"github.com/roach88/dynarray/internal/dynarray"
	"github.com/roach88/dynarray/internal/trace"
)

// element is the set of element types a scenario can script.
type element interface {
	int64 | string
}

// Option configures a scenario run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
	clock  *trace.Clock
}

// WithLogger routes per-step debug logs to logger. Runs are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) { c.logger = logger }
}

// WithClock numbers steps from clock instead of a fresh clock starting at 1.
func WithClock(clock *trace.Clock) Option {
	return func(c *runConfig) { c.clock = clock }
}

// Run executes a scenario and returns the result.
//
// Each run builds its arrays from scratch and numbers steps with a logical
// clock, so the same scenario always produces the same trace.
//
// Execution flow:
//  1. Build the declared arrays, recording an init step for each
//  2. Apply the steps, recording each and checking its expect clause
//  3. Capture the final state of every array
//  4. Evaluate assertions
//
// Expectation and assertion failures are reported in Result.Errors. The
// returned error is reserved for scenarios that cannot be executed, such as
// a value of the wrong element type.
func Run(s *Scenario, opts ...Option) (*Result, error) {
	cfg := &runConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.clock == nil {
		cfg.clock = trace.NewClock()
	}

	switch s.Element {
	case "", ElementInt:
		return execute(s, cfg, parseInt)
	case ElementString:
		return execute(s, cfg, parseString)
	default:
		return nil, fmt.Errorf("unknown element type %q", s.Element)
	}
}

func parseInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > 1<<63-1 {
			return 0, fmt.Errorf("integer %d overflows int64", n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected an integer element, got %T", v)
	}
}

func parseString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected a string element, got %T", v)
	}
	return s, nil
}

// runner executes one scenario against arrays of T.
type runner[T element] struct {
	arrays map[string]*dynarray.Array[T]
	faults map[string]*faultInjector
	broken map[string]bool // declared arrays whose construction failed unexpectedly
	clock  *trace.Clock
	logger *slog.Logger
	result *Result
	parse  func(any) (T, error)
}

func execute[T element](s *Scenario, cfg *runConfig, parse func(any) (T, error)) (*Result, error) {
	r := &runner[T]{
		arrays: make(map[string]*dynarray.Array[T]),
		faults: make(map[string]*faultInjector),
		broken: make(map[string]bool),
		clock:  cfg.clock,
		logger: cfg.logger,
		result: NewResult(),
		parse:  parse,
	}

	for i, spec := range s.Arrays {
		if err := r.build(spec); err != nil {
			return nil, fmt.Errorf("arrays[%d] %q: %w", i, spec.Name, err)
		}
	}

	for i, st := range s.Steps {
		if name, ok := r.dependsOnBroken(st); ok {
			r.result.AddError(fmt.Sprintf("steps[%d] %s %s: skipped, array %q was never constructed", i, st.Op, st.Target, name))
			if st.Op == OpClone {
				r.broken[st.Target] = true
			}
			continue
		}
		if err := r.apply(i, st); err != nil {
			return nil, fmt.Errorf("steps[%d] %s %s: %w", i, st.Op, st.Target, err)
		}
	}

	r.captureFinal()

	for _, msg := range EvaluateAssertions(r.result, s.Assertions) {
		r.result.AddError(msg)
	}

	r.logger.Info("scenario finished",
		"scenario", s.Name,
		"steps", len(r.result.Trace),
		"pass", r.result.Pass,
	)
	return r.result, nil
}

// build constructs one declared array and records an init step.
func (r *runner[T]) build(spec ArraySpec) error {
	inj := newFaultInjector(spec.Faults)
	opts := options[T](inj)
	args := trace.Object{"init": trace.String(spec.Init)}

	var (
		a   *dynarray.Array[T]
		err error
	)
	switch spec.Init {
	case InitEmpty:
		a = dynarray.New(opts...)
	case InitSized:
		args["n"] = trace.Int(spec.Size)
		a, err = dynarray.NewSized(spec.Size, opts...)
	case InitFilled:
		v, perr := r.parse(spec.Value)
		if perr != nil {
			return fmt.Errorf("value: %w", perr)
		}
		args["n"] = trace.Int(spec.Size)
		args["value"] = valueOf(v)
		a, err = dynarray.NewFilled(spec.Size, v, opts...)
	case InitList:
		vals, perr := r.parseAll(spec.Values)
		if perr != nil {
			return fmt.Errorf("values: %w", perr)
		}
		args["values"] = trace.ListOf(vals)
		a, err = dynarray.FromList(vals, opts...)
	default:
		return fmt.Errorf("unknown init kind %q", spec.Init)
	}

	if err == nil && spec.Reserve > 0 {
		args["reserve"] = trace.Int(spec.Reserve)
		a.Reserve(spec.Reserve)
	}

	rec := trace.Step{Op: OpInit, Target: spec.Name, Args: args, Outcome: trace.OutcomeOK}
	setError(&rec, err)
	r.record(&rec, a)

	switch {
	case err != nil && spec.ExpectError == "":
		r.result.AddError(fmt.Sprintf("arrays %q: unexpected error: %v", spec.Name, err))
	case err != nil && string(dynarray.CodeOf(err)) != spec.ExpectError:
		r.result.AddError(fmt.Sprintf("arrays %q: expected error %s, got %s", spec.Name, spec.ExpectError, dynarray.CodeOf(err)))
	case err == nil && spec.ExpectError != "":
		r.result.AddError(fmt.Sprintf("arrays %q: expected error %s, construction succeeded", spec.Name, spec.ExpectError))
	}

	switch {
	case err == nil && spec.ExpectError == "":
		r.arrays[spec.Name] = a
		r.faults[spec.Name] = inj
	case spec.ExpectError == "":
		r.broken[spec.Name] = true
	}
	return nil
}

// dependsOnBroken reports the first array named by st that was never
// constructed.
func (r *runner[T]) dependsOnBroken(st Step) (string, bool) {
	for _, name := range []string{st.Target, st.From, st.With} {
		if name != "" && r.broken[name] {
			return name, true
		}
	}
	return "", false
}

// apply executes one step, records it and checks its expectations.
func (r *runner[T]) apply(i int, st Step) error {
	rec := trace.Step{Op: st.Op, Target: st.Target, Args: trace.Object{}, Outcome: trace.OutcomeOK}

	var a *dynarray.Array[T]
	if st.Op != OpClone {
		var err error
		if a, err = r.lookup(st.Target); err != nil {
			return err
		}
	}

	var opErr error
	switch st.Op {
	case OpAppend, OpAppendMove:
		v, err := r.value(st, &rec)
		if err != nil {
			return err
		}
		if st.Op == OpAppend {
			opErr = a.Append(v)
		} else {
			a.AppendMove(v)
		}

	case OpRemoveLast:
		if !a.RemoveLast() {
			rec.Outcome = trace.OutcomeEmpty
		}

	case OpPop:
		if v, ok := a.Pop(); ok {
			rec.Value = valueOf(v)
		} else {
			rec.Outcome = trace.OutcomeEmpty
		}

	case OpReserve:
		n, err := r.count(st, &rec)
		if err != nil {
			return err
		}
		a.Reserve(n)

	case OpResize:
		n, err := r.count(st, &rec)
		if err != nil {
			return err
		}
		opErr = a.Resize(n)

	case OpResizeFill:
		n, err := r.count(st, &rec)
		if err != nil {
			return err
		}
		v, err := r.value(st, &rec)
		if err != nil {
			return err
		}
		opErr = a.ResizeWith(n, v)

	case OpShrinkToFit:
		a.ShrinkToFit()

	case OpClear:
		a.Clear()

	case OpRelease:
		a.Release()

	case OpAt:
		idx, err := r.index(st, &rec)
		if err != nil {
			return err
		}
		var v T
		if v, opErr = a.At(idx); opErr == nil {
			rec.Value = valueOf(v)
		}

	case OpSet:
		idx, err := r.index(st, &rec)
		if err != nil {
			return err
		}
		v, err := r.value(st, &rec)
		if err != nil {
			return err
		}
		opErr = a.Set(idx, v)

	case OpFront, OpBack:
		switch {
		case a.Empty():
			rec.Outcome = trace.OutcomeEmpty
		case st.Op == OpFront:
			rec.Value = valueOf(a.Front())
		default:
			rec.Value = valueOf(a.Back())
		}

	case OpCopy:
		src, err := r.other(st.From, "from", &rec)
		if err != nil {
			return err
		}
		opErr = a.CopyFrom(src)

	case OpClone:
		src, err := r.other(st.From, "from", &rec)
		if err != nil {
			return err
		}
		c, cerr := src.Clone()
		if cerr != nil {
			opErr = cerr
			if _, exists := r.arrays[st.Target]; !exists {
				r.broken[st.Target] = true
			}
		} else {
			delete(r.broken, st.Target)
			r.arrays[st.Target] = c
			r.faults[st.Target] = r.faults[st.From]
			a = c
		}

	case OpMove:
		src, err := r.other(st.From, "from", &rec)
		if err != nil {
			return err
		}
		a.MoveFrom(src)

	case OpSwap:
		other, err := r.other(st.With, "with", &rec)
		if err != nil {
			return err
		}
		a.Swap(other)

	case OpCompare:
		other, err := r.other(st.With, "with", &rec)
		if err != nil {
			return err
		}
		rec.Value = trace.Int(dynarray.Compare(a, other))

	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}

	if len(rec.Args) == 0 {
		rec.Args = nil
	}
	setError(&rec, opErr)
	r.record(&rec, a)

	for _, msg := range checkExpect(i, st, rec) {
		r.result.AddError(msg)
	}
	return nil
}

// record stamps rec with the next seq and the observable state of a (which
// may be nil when construction failed) and appends it to the trace.
func (r *runner[T]) record(rec *trace.Step, a *dynarray.Array[T]) {
	rec.Seq = r.clock.Next()
	rec.Elements = trace.List{}
	if a != nil {
		rec.Size = a.Size()
		rec.Capacity = a.Capacity()
		rec.Elements = trace.ListOf(a.Data())
	}
	r.result.AddStep(*rec)

	r.logger.Debug("step recorded",
		"seq", rec.Seq,
		"op", rec.Op,
		"target", rec.Target,
		"outcome", rec.Outcome,
		"size", rec.Size,
		"capacity", rec.Capacity,
	)
}

func (r *runner[T]) captureFinal() {
	names := make([]string, 0, len(r.arrays))
	for name := range r.arrays {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a := r.arrays[name]
		r.result.Final[name] = ArrayState{
			Size:     a.Size(),
			Capacity: a.Capacity(),
			Elements: trace.ListOf(a.Data()),
			Stats:    a.Stats(),
		}
	}
}

func (r *runner[T]) lookup(name string) (*dynarray.Array[T], error) {
	a, ok := r.arrays[name]
	if !ok {
		return nil, fmt.Errorf("unknown array %q", name)
	}
	return a, nil
}

func (r *runner[T]) other(name, arg string, rec *trace.Step) (*dynarray.Array[T], error) {
	if name == "" {
		return nil, fmt.Errorf("%s is required", arg)
	}
	rec.Args[arg] = trace.String(name)
	return r.lookup(name)
}

func (r *runner[T]) value(st Step, rec *trace.Step) (T, error) {
	if st.Value == nil {
		var zero T
		return zero, fmt.Errorf("value is required")
	}
	v, err := r.parse(st.Value)
	if err != nil {
		return v, fmt.Errorf("value: %w", err)
	}
	rec.Args["value"] = valueOf(v)
	return v, nil
}

func (r *runner[T]) count(st Step, rec *trace.Step) (int, error) {
	if st.N == nil {
		return 0, fmt.Errorf("n is required")
	}
	if *st.N < 0 {
		return 0, fmt.Errorf("n must be non-negative, got %d", *st.N)
	}
	rec.Args["n"] = trace.Int(*st.N)
	return *st.N, nil
}

func (r *runner[T]) index(st Step, rec *trace.Step) (int, error) {
	if st.Index == nil {
		return 0, fmt.Errorf("index is required")
	}
	rec.Args["index"] = trace.Int(*st.Index)
	return *st.Index, nil
}

func (r *runner[T]) parseAll(values []any) ([]T, error) {
	out := make([]T, len(values))
	for i, v := range values {
		x, err := r.parse(v)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = x
	}
	return out, nil
}

func valueOf[T element](v T) trace.Value {
	switch x := any(v).(type) {
	case int64:
		return trace.Int(x)
	case string:
		return trace.String(x)
	}
	panic(fmt.Sprintf("unsupported element type %T", v))
}

func setError(rec *trace.Step, err error) {
	if err == nil {
		return
	}
	rec.Outcome = trace.OutcomeError
	rec.ErrorCode = string(dynarray.CodeOf(err))
}

// checkExpect compares a recorded step with the step's expect clause.
func checkExpect(i int, st Step, rec trace.Step) []string {
	e := st.Expect
	if e == nil {
		return nil
	}
	var msgs []string
	fail := func(what string, want, got any) {
		msgs = append(msgs, fmt.Sprintf("steps[%d] %s %s: expected %s %v, got %v", i, st.Op, st.Target, what, want, got))
	}

	switch {
	case e.Error != "" && rec.ErrorCode != e.Error:
		fail("error", e.Error, orNone(rec.ErrorCode))
	case e.Error == "" && rec.Outcome == trace.OutcomeError && e.Outcome != string(trace.OutcomeError):
		msgs = append(msgs, fmt.Sprintf("steps[%d] %s %s: unexpected error %s", i, st.Op, st.Target, rec.ErrorCode))
	}
	if e.Outcome != "" && string(rec.Outcome) != e.Outcome {
		fail("outcome", e.Outcome, rec.Outcome)
	}
	if e.Value != nil {
		want, err := trace.FromAny(e.Value)
		if err != nil || !reflect.DeepEqual(want, rec.Value) {
			fail("value", e.Value, rec.Value)
		}
	}
	if e.Size != nil && *e.Size != rec.Size {
		fail("size", *e.Size, rec.Size)
	}
	if e.Capacity != nil && *e.Capacity != rec.Capacity {
		fail("capacity", *e.Capacity, rec.Capacity)
	}
	if e.Elements != nil {
		want, err := listOf(e.Elements)
		if err != nil || !reflect.DeepEqual(want, rec.Elements) {
			fail("elements", e.Elements, rec.Elements)
		}
	}
	return msgs
}

func orNone(code string) string {
	if code == "" {
		return "none"
	}
	return code
}

// listOf converts YAML-decoded values into a trace.List.
func listOf(values []any) (trace.List, error) {
	out := make(trace.List, len(values))
	for i, v := range values {
		tv, err := trace.FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = tv
	}
	return out, nil
}
