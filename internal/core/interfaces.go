package core

import "context"

// Source produces one outcome event per call, in arrival order.
// Next blocks until an event is available, the source is exhausted
// (io.EOF) or the context is cancelled.
type Source interface {
	Next(ctx context.Context) (Event, error)
}
