package stream

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"fairdice/internal/core"
	"fairdice/internal/tally"
)

func newProgressTally(t *testing.T) *tally.Tally {
	t.Helper()
	alphabet, err := core.Dice(6)
	if err != nil {
		t.Fatalf("Dice(6): %v", err)
	}
	tl, err := tally.New(alphabet, nil)
	if err != nil {
		t.Fatalf("tally.New: %v", err)
	}
	return tl
}

func TestProgress_PrintShowsAggregate(t *testing.T) {
	tl := newProgressTally(t)
	for _, f := range []core.Face{1, 2, 3} {
		if err := tl.Observe(f); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}

	p := NewProgress(tl, false)
	var buf bytes.Buffer
	p.SetOutput(&buf)
	p.startTime = time.Now()

	p.print()

	if !strings.Contains(buf.String(), "n=3") {
		t.Errorf("progress line missing total: %q", buf.String())
	}
}

func TestProgress_QuietSuppressesOutput(t *testing.T) {
	p := NewProgress(newProgressTally(t), true)
	var buf bytes.Buffer
	p.SetOutput(&buf)

	p.Start()
	p.Printf("should not appear")
	p.Stop()

	if buf.Len() != 0 {
		t.Errorf("quiet progress wrote output: %q", buf.String())
	}
}

func TestProgress_StartStop(t *testing.T) {
	p := NewProgress(newProgressTally(t), false)
	var buf bytes.Buffer
	p.SetOutput(&buf)

	p.Start()
	p.Stop() // must not hang or panic
}
