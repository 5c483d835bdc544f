// Package tally maintains the running aggregate over a stream of
// categorical outcomes.
package tally

import (
	"fmt"
	"sync"
	"time"

	"fairdice/internal/core"
	"fairdice/internal/snapshot"
	"fairdice/internal/stats"
)

// Tally is a pure accumulator of outcomes: it never removes or
// down-weights observations (no decay, no windowing), so proportions
// converge over the entire history of a run. It is reset only by
// restarting the hosting process.
//
// The aggregate is owned by the consuming loop; the mutex exists so a
// live view can take a consistent copy while ingestion is running.
type Tally struct {
	alphabet *core.Alphabet
	clock    core.Clock

	mu     sync.Mutex
	total  int64
	counts []int64

	lastSnapN  int64
	lastSnapAt time.Time
}

// New creates an empty tally over the given alphabet.
func New(alphabet *core.Alphabet, clock core.Clock) (*Tally, error) {
	if alphabet == nil || alphabet.Size() == 0 {
		return nil, fmt.Errorf("%w: tally requires a non-empty alphabet", core.ErrConfig)
	}
	if clock == nil {
		clock = core.RealClock{}
	}
	return &Tally{
		alphabet:   alphabet,
		clock:      clock,
		counts:     make([]int64, alphabet.Size()),
		lastSnapAt: clock.Now(),
	}, nil
}

// Alphabet returns the configured alphabet.
func (t *Tally) Alphabet() *core.Alphabet {
	return t.alphabet
}

// Observe ingests one outcome. An outcome outside the alphabet returns
// ErrUnknownOutcome and leaves the aggregate untouched.
func (t *Tally) Observe(f core.Face) error {
	i, ok := t.alphabet.Index(f)
	if !ok {
		return fmt.Errorf("%w: face %d", core.ErrUnknownOutcome, f)
	}
	t.mu.Lock()
	t.counts[i]++
	t.total++
	t.mu.Unlock()
	return nil
}

// Total returns the number of outcomes observed so far.
func (t *Tally) Total() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Counts returns a copy of the per-face counts in alphabet order.
func (t *Tally) Counts() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]int64, len(t.counts))
	copy(out, t.counts)
	return out
}

// Proportions returns the current proportion per face. All zeros when
// nothing has been observed yet.
func (t *Tally) Proportions() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return stats.Proportions(t.counts, t.total)
}

// State returns a consistent copy of total, counts and proportions,
// taken under one lock acquisition. This is what a live view should
// read on each redraw tick: never a partially updated aggregate.
func (t *Tally) State() (total int64, counts []int64, props []float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	counts = make([]int64, len(t.counts))
	copy(counts, t.counts)
	return t.total, counts, stats.Proportions(counts, t.total)
}

// ShouldSnapshot reports whether the cadence policy asks for a new
// snapshot. Pure decision; no state is mutated.
func (t *Tally) ShouldSnapshot(p Policy) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p.EveryN > 0 && t.total-t.lastSnapN >= p.EveryN {
		return true
	}
	if p.Every > 0 && t.clock.Since(t.lastSnapAt) >= p.Every {
		return true
	}
	return false
}

// Snapshot produces a record of the current state with a fresh
// timestamp. The aggregate is not reset; only the cadence bookmarks
// advance. Calling Snapshot repeatedly without intervening Observe
// calls yields records with identical counts.
func (t *Tally) Snapshot() snapshot.Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	counts := make([]int64, len(t.counts))
	copy(counts, t.counts)

	t.lastSnapN = t.total
	t.lastSnapAt = t.clock.Now()

	return snapshot.Record{
		Timestamp: t.lastSnapAt,
		N:         t.total,
		Counts:    counts,
		Props:     stats.Proportions(counts, t.total),
	}
}
