package stream

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"fairdice/internal/stats"
	"fairdice/internal/tally"
)

// Progress periodically prints the live aggregate to stderr. It reads
// the tally through State(), so it always sees a consistent copy and
// never blocks ingestion for longer than one lock acquisition.
type Progress struct {
	tally     *tally.Tally
	quiet     bool
	output    io.Writer
	startTime time.Time
	ticker    *time.Ticker
	stopCh    chan struct{}
	doneCh    chan struct{}
	mu        sync.Mutex
}

func NewProgress(t *tally.Tally, quiet bool) *Progress {
	return &Progress{
		tally:  t,
		quiet:  quiet,
		output: os.Stderr,
	}
}

func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = w
}

func (p *Progress) Start() {
	if p.quiet {
		return
	}
	p.startTime = time.Now()
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.ticker = time.NewTicker(1 * time.Second)
	go p.run()
}

func (p *Progress) run() {
	defer close(p.doneCh)
	for {
		select {
		case <-p.stopCh:
			return
		case <-p.ticker.C:
			p.print()
		}
	}
}

func (p *Progress) print() {
	total, _, props := p.tally.State()
	elapsed := time.Since(p.startTime).Round(time.Second)
	rate := 0.0
	if secs := time.Since(p.startTime).Seconds(); secs > 0 {
		rate = float64(total) / secs
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.output, "[%v] n=%d  %.1f events/s  max dev=%.4f\n",
		elapsed, total, rate, stats.MaxAbsDeviation(props))
}

// Printf writes a message through the progress writer unless quiet.
func (p *Progress) Printf(format string, args ...any) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.output, format+"\n", args...)
}

func (p *Progress) Stop() {
	if p.quiet || p.ticker == nil {
		return
	}
	p.ticker.Stop()
	close(p.stopCh)
	<-p.doneCh
}
