package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/dynarray/internal/trace"
)

func TestReadRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-1", "append_three", 7)
	run.Element = "string"
	run.Pass = false
	if _, err := s.WriteRun(ctx, run, createTestSteps(7, 3)); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	got, err := s.ReadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}

	if got.Scenario != "append_three" || got.Element != "string" {
		t.Errorf("got scenario=%q element=%q", got.Scenario, got.Element)
	}
	if got.Pass {
		t.Error("pass = true, want false")
	}
	if got.Seq != 7 {
		t.Errorf("seq = %d, want 7", got.Seq)
	}
	if got.TraceHash == "" {
		t.Error("trace hash was not filled")
	}
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("ReadRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestReadSteps_PreservesTrace(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	steps := createTestSteps(0, 4)
	steps = append(steps, trace.Step{
		Seq:      6,
		Op:       "pop",
		Target:   "a",
		Outcome:  trace.OutcomeOK,
		Value:    trace.Int(3),
		Size:     3,
		Capacity: 4,
		Elements: trace.List{trace.Int(0), trace.Int(1), trace.Int(2)},
	})
	if _, err := s.WriteRun(ctx, createTestRun("run-1", "s", 0), steps); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	got, err := s.ReadSteps(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadSteps() failed: %v", err)
	}
	if len(got) != len(steps) {
		t.Fatalf("steps = %d, want %d", len(got), len(steps))
	}

	for i := range steps {
		want := trace.MustTraceHash("s", steps[i:i+1])
		if h := trace.MustTraceHash("s", got[i:i+1]); h != want {
			t.Errorf("step %d does not round-trip", i)
		}
	}
	if got[5].Value != trace.Int(3) {
		t.Errorf("pop value = %v, want 3", got[5].Value)
	}
}

func TestReadSteps_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.WriteRun(ctx, createTestRun("run-1", "s", 100), createTestSteps(100, 5)); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	got, err := s.ReadSteps(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadSteps() failed: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Seq <= got[i-1].Seq {
			t.Errorf("seq %d after %d", got[i].Seq, got[i-1].Seq)
		}
	}
	if got[0].Seq != 101 {
		t.Errorf("first seq = %d, want 101", got[0].Seq)
	}
}

func TestReadSteps_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ReadSteps(context.Background(), "missing")
	if err != nil {
		t.Fatalf("ReadSteps() failed: %v", err)
	}
	if got == nil {
		t.Error("ReadSteps() = nil, want empty slice")
	}
}

func TestListRuns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	writes := []Run{
		createTestRun("b-2", "beta", 0),
		createTestRun("a-1", "alpha", 10),
		createTestRun("b-1", "beta", 20),
	}
	for _, r := range writes {
		if _, err := s.WriteRun(ctx, r, createTestSteps(r.Seq, 1)); err != nil {
			t.Fatalf("WriteRun(%s) failed: %v", r.ID, err)
		}
	}

	all, err := s.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	var ids []string
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	want := []string{"a-1", "b-1", "b-2"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids = %v, want %v", ids, want)
			break
		}
	}

	beta, err := s.ListRuns(ctx, "beta")
	if err != nil {
		t.Fatalf("ListRuns(beta) failed: %v", err)
	}
	if len(beta) != 2 {
		t.Errorf("beta runs = %d, want 2", len(beta))
	}

	none, err := s.ListRuns(ctx, "gamma")
	if err != nil {
		t.Fatalf("ListRuns(gamma) failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("ListRuns(gamma) = %v, want empty slice", none)
	}
}

func TestOpCounts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.WriteRun(ctx, createTestRun("run-1", "s", 0), createTestSteps(0, 3)); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	counts, err := s.OpCounts(ctx, "run-1")
	if err != nil {
		t.Fatalf("OpCounts() failed: %v", err)
	}
	if counts["init"] != 1 || counts["append"] != 3 {
		t.Errorf("counts = %v, want init=1 append=3", counts)
	}
}
