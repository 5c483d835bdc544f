package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"fairdice/internal/core"
)

// Replay reads newline-delimited JSON event envelopes, as written by a
// captured producer stream, and serves them one at a time. Next
// returns io.EOF when the stream is exhausted.
type Replay struct {
	scanner *bufio.Scanner
	line    int
}

// NewReplay wraps r as an event source.
func NewReplay(r io.Reader) *Replay {
	return &Replay{scanner: bufio.NewScanner(r)}
}

// Next returns the next event from the stream. Blank lines are
// skipped; a malformed line is an error naming its line number.
func (rp *Replay) Next(ctx context.Context) (core.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return core.Event{}, err
		}
		if !rp.scanner.Scan() {
			if err := rp.scanner.Err(); err != nil {
				return core.Event{}, fmt.Errorf("reading event stream: %w", err)
			}
			return core.Event{}, io.EOF
		}
		rp.line++

		text := strings.TrimSpace(rp.scanner.Text())
		if text == "" {
			continue
		}

		evt, err := core.ParseEvent([]byte(text))
		if err != nil {
			return core.Event{}, fmt.Errorf("event stream line %d: %w", rp.line, err)
		}
		return evt, nil
	}
}
