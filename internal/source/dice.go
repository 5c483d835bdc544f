// Package source produces outcome events for the live pipeline.
package source

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"fairdice/internal/core"
)

// Dice emits uniformly distributed outcomes from a fixed alphabet,
// optionally paced to a target events-per-second rate. It is intended
// for a single consuming goroutine.
type Dice struct {
	alphabet *core.Alphabet
	faces    []core.Face
	rng      *rand.Rand
	limiter  *rate.Limiter
	clock    core.Clock
	trialID  int64
}

// NewDice creates a dice source. A zero seed derives one from the
// current time; eventsPerSec <= 0 disables pacing.
func NewDice(alphabet *core.Alphabet, seed int64, eventsPerSec float64, clock core.Clock) *Dice {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if clock == nil {
		clock = core.RealClock{}
	}
	d := &Dice{
		alphabet: alphabet,
		faces:    alphabet.Faces(),
		rng:      rand.New(rand.NewSource(seed)),
		clock:    clock,
	}
	if eventsPerSec > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(eventsPerSec), 1)
	}
	return d
}

// Next produces one event, blocking on the pacing limiter when one is
// configured.
func (d *Dice) Next(ctx context.Context) (core.Event, error) {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return core.Event{}, err
		}
	} else if err := ctx.Err(); err != nil {
		return core.Event{}, err
	}

	d.trialID++
	return core.Event{
		TrialID:   d.trialID,
		Type:      core.EventTypeDice,
		Outcome:   d.faces[d.rng.Intn(len(d.faces))],
		Timestamp: d.clock.Now(),
	}, nil
}
