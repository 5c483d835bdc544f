package tally

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"fairdice/internal/core"
)

func newTestTally(t *testing.T) (*Tally, *core.FakeClock) {
	t.Helper()
	alphabet, err := core.Dice(6)
	if err != nil {
		t.Fatalf("Dice(6): %v", err)
	}
	clock := core.NewFakeClock(time.Date(2025, 10, 7, 0, 0, 0, 0, time.UTC))
	tl, err := New(alphabet, clock)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tl, clock
}

func TestNew_NilAlphabet(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, core.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}

func TestObserve_CountsMatchTotal(t *testing.T) {
	tl, _ := newTestTally(t)

	// Random sequence from the alphabet: the invariant must hold after
	// every prefix, checked at the end over the whole history.
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		face := core.Face(rng.Intn(6) + 1)
		if err := tl.Observe(face); err != nil {
			t.Fatalf("Observe(%d): %v", face, err)
		}
	}

	var sum int64
	for _, c := range tl.Counts() {
		sum += c
	}
	if sum != tl.Total() {
		t.Errorf("sum(counts) = %d, total = %d", sum, tl.Total())
	}
	if tl.Total() != 5000 {
		t.Errorf("total = %d, want 5000", tl.Total())
	}
}

func TestObserve_UnknownOutcome(t *testing.T) {
	tl, _ := newTestTally(t)

	if err := tl.Observe(3); err != nil {
		t.Fatalf("Observe(3): %v", err)
	}

	err := tl.Observe(7)
	if !errors.Is(err, core.ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}

	// The rejected outcome must not corrupt the running counts.
	if tl.Total() != 1 {
		t.Errorf("total = %d after rejected outcome, want 1", tl.Total())
	}
	counts := tl.Counts()
	if counts[2] != 1 {
		t.Errorf("counts[2] = %d, want 1", counts[2])
	}
}

func TestProportions_SumToOne(t *testing.T) {
	tl, _ := newTestTally(t)
	for _, f := range []core.Face{1, 1, 2, 3, 4, 5, 6, 6, 6} {
		if err := tl.Observe(f); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}

	var sum float64
	for _, p := range tl.Proportions() {
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("proportions sum to %v, want 1.0 within 1e-9", sum)
	}
}

func TestProportions_ZeroTotalSentinel(t *testing.T) {
	tl, _ := newTestTally(t)
	for i, p := range tl.Proportions() {
		if p != 0.0 {
			t.Errorf("props[%d] = %v, want 0.0 before any observation", i, p)
		}
	}
}

func TestProportions_Idempotent(t *testing.T) {
	tl, _ := newTestTally(t)
	for _, f := range []core.Face{2, 4, 4, 6} {
		if err := tl.Observe(f); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}

	first := tl.Proportions()
	second := tl.Proportions()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("props[%d] changed between calls: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestSnapshot_Idempotent(t *testing.T) {
	tl, _ := newTestTally(t)
	for _, f := range []core.Face{1, 2, 3} {
		if err := tl.Observe(f); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}

	first := tl.Snapshot()
	second := tl.Snapshot()

	if first.N != second.N {
		t.Errorf("n changed between snapshots: %d vs %d", first.N, second.N)
	}
	for i := range first.Counts {
		if first.Counts[i] != second.Counts[i] {
			t.Errorf("c%d changed between snapshots: %d vs %d", i+1, first.Counts[i], second.Counts[i])
		}
		if first.Props[i] != second.Props[i] {
			t.Errorf("p%d changed between snapshots: %v vs %v", i+1, first.Props[i], second.Props[i])
		}
	}
}

func TestSnapshot_DoesNotReset(t *testing.T) {
	tl, _ := newTestTally(t)
	for _, f := range []core.Face{1, 2, 3, 4} {
		if err := tl.Observe(f); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}

	rec := tl.Snapshot()
	if rec.N != 4 {
		t.Errorf("snapshot n = %d, want 4", rec.N)
	}
	if tl.Total() != 4 {
		t.Errorf("total = %d after snapshot, want 4 (snapshot must not reset)", tl.Total())
	}

	if err := tl.Observe(5); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if tl.Total() != 5 {
		t.Errorf("total = %d, want 5", tl.Total())
	}
}

func TestShouldSnapshot_EveryN(t *testing.T) {
	tl, _ := newTestTally(t)
	policy := Policy{EveryN: 3}

	if tl.ShouldSnapshot(policy) {
		t.Error("should not snapshot before any outcome")
	}

	for i := 0; i < 3; i++ {
		if err := tl.Observe(1); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}
	if !tl.ShouldSnapshot(policy) {
		t.Error("expected snapshot after 3 outcomes")
	}

	// The decision is pure: asking again does not consume anything.
	if !tl.ShouldSnapshot(policy) {
		t.Error("ShouldSnapshot must not mutate state")
	}

	tl.Snapshot()
	if tl.ShouldSnapshot(policy) {
		t.Error("should not snapshot right after snapshotting")
	}

	for i := 0; i < 2; i++ {
		if err := tl.Observe(2); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}
	if tl.ShouldSnapshot(policy) {
		t.Error("should not snapshot after only 2 new outcomes")
	}
	if err := tl.Observe(2); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if !tl.ShouldSnapshot(policy) {
		t.Error("expected snapshot after 3 new outcomes")
	}
}

func TestShouldSnapshot_Interval(t *testing.T) {
	tl, clock := newTestTally(t)
	policy := Policy{Every: 10 * time.Second}

	if tl.ShouldSnapshot(policy) {
		t.Error("should not snapshot before interval elapsed")
	}

	clock.Advance(9 * time.Second)
	if tl.ShouldSnapshot(policy) {
		t.Error("should not snapshot at 9s")
	}

	clock.Advance(time.Second)
	if !tl.ShouldSnapshot(policy) {
		t.Error("expected snapshot at 10s")
	}

	tl.Snapshot()
	if tl.ShouldSnapshot(policy) {
		t.Error("interval restarts after a snapshot")
	}
}

func TestShouldSnapshot_EitherOption(t *testing.T) {
	tl, clock := newTestTally(t)
	policy := Policy{EveryN: 100, Every: 5 * time.Second}

	if err := tl.Observe(1); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	clock.Advance(5 * time.Second)

	if !tl.ShouldSnapshot(policy) {
		t.Error("interval fired, snapshot expected even though EveryN has not")
	}
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"every_n only", Policy{EveryN: 50}, false},
		{"interval only", Policy{Every: time.Second}, false},
		{"both", Policy{EveryN: 50, Every: time.Second}, false},
		{"neither", Policy{}, true},
		{"negative every_n", Policy{EveryN: -1}, true},
		{"negative interval", Policy{Every: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr && !errors.Is(err, core.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
