package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fairdice/internal/core"
	"fairdice/internal/snapshot"
	"fairdice/internal/tally"
)

// Sink is the durable append target for snapshot records. Append is
// at-least-once: the loop tolerates duplicate rows, the segmenter
// treats equal consecutive n as one run.
type Sink interface {
	Append(snapshot.Record) error
}

// ViewFunc receives a consistent copy of the aggregate after each
// ingested outcome. This is the hook a live renderer draws from.
type ViewFunc func(total int64, counts []int64, props []float64)

// Result reports what a finished loop did.
type Result struct {
	Events         int64
	Dropped        int64
	Snapshots      int64
	AppendFailures int64
}

// Loop wires a source into the tally and appends snapshots on cadence.
type Loop struct {
	Source     core.Source
	Tally      *tally.Tally
	Policy     tally.Policy
	Sink       Sink
	Controller *Controller

	// View, when set, is invoked after every ingested outcome.
	View ViewFunc

	// MaxEvents stops the loop after that many ingested outcomes;
	// 0 means run until stopped.
	MaxEvents int64

	// Logf receives non-fatal ingestion and append errors. Defaults to
	// discarding them.
	Logf func(format string, args ...any)
}

// Run consumes the source until the controller stops, the context is
// cancelled, the source is exhausted or MaxEvents is reached. A bad
// outcome is logged and dropped; an exhausted append retry budget is
// logged and counted, never fatal. In-memory state survives both.
// On a clean exit any outcomes not yet covered by a snapshot are
// flushed with a final append.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	if err := l.Policy.Validate(); err != nil {
		return Result{}, err
	}
	logf := l.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	var res Result
	for {
		state, err := l.Controller.Wait(ctx)
		if err != nil {
			// Cancellation is the cooperative stop signal.
			l.flush(&res, logf)
			return res, nil
		}
		if state == Stopped {
			l.flush(&res, logf)
			return res, nil
		}
		if l.MaxEvents > 0 && res.Events >= l.MaxEvents {
			l.flush(&res, logf)
			return res, nil
		}

		evt, err := l.Source.Next(ctx)
		if errors.Is(err, io.EOF) {
			l.flush(&res, logf)
			return res, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			l.flush(&res, logf)
			return res, nil
		}
		if err != nil {
			l.flush(&res, logf)
			return res, fmt.Errorf("event source: %w", err)
		}

		if evt.Type != core.EventTypeDice {
			res.Dropped++
			logf("dropping event %d: unexpected type %q", evt.TrialID, evt.Type)
			continue
		}
		if err := l.Tally.Observe(evt.Outcome); err != nil {
			res.Dropped++
			logf("dropping event %d: %v", evt.TrialID, err)
			continue
		}
		res.Events++

		if l.View != nil {
			l.View(l.Tally.State())
		}

		if l.Tally.ShouldSnapshot(l.Policy) {
			l.append(&res, logf)
		}
	}
}

func (l *Loop) append(res *Result, logf func(string, ...any)) {
	rec := l.Tally.Snapshot()
	if err := l.Sink.Append(rec); err != nil {
		res.AppendFailures++
		logf("snapshot append failed (state preserved): %v", err)
		return
	}
	res.Snapshots++
}

// flush appends a final snapshot covering outcomes observed since the
// last one, so a clean stop loses no observed data.
func (l *Loop) flush(res *Result, logf func(string, ...any)) {
	if l.Tally.ShouldSnapshot(tally.Policy{EveryN: 1}) {
		l.append(res, logf)
	}
}
