// Package stream runs the live pipeline: source outcomes into the
// tally, snapshots on cadence, with pause/stop control.
package stream

import (
	"context"
	"sync"
)

// State is the lifecycle state of the live stream.
type State int

const (
	Running State = iota
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Controller is the external switch for the stream loop: Running,
// Paused or Stopped, driven by whatever the host wires up (signals,
// keyboard, tests). The aggregator itself knows nothing about it; the
// loop consults the controller between outcomes.
//
// Stop is terminal. Pausing suspends consumption without discarding
// any state. Safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	state   State
	changed chan struct{}
}

// NewController returns a controller in the Running state.
func NewController() *Controller {
	return &Controller{changed: make(chan struct{})}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pause suspends the stream. No-op when already paused or stopped.
func (c *Controller) Pause() { c.transition(Paused) }

// Resume continues a paused stream. No-op when stopped.
func (c *Controller) Resume() { c.transition(Running) }

// Stop halts the stream permanently.
func (c *Controller) Stop() { c.transition(Stopped) }

// Toggle flips between Running and Paused. No-op when stopped.
func (c *Controller) Toggle() {
	c.mu.Lock()
	cur := c.state
	c.mu.Unlock()
	switch cur {
	case Running:
		c.Pause()
	case Paused:
		c.Resume()
	}
}

func (c *Controller) transition(next State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Stopped || c.state == next {
		return
	}
	c.state = next
	close(c.changed)
	c.changed = make(chan struct{})
}

// Wait blocks while the controller is Paused and returns the state
// once it is Running or Stopped, or the context error on cancellation.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	for {
		c.mu.Lock()
		state, changed := c.state, c.changed
		c.mu.Unlock()

		if state != Paused {
			return state, nil
		}
		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-changed:
		}
	}
}
