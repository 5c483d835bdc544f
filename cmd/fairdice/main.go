package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fairdice/internal/config"
	"fairdice/internal/core"
	"fairdice/internal/snapshot"
	"fairdice/internal/source"
	"fairdice/internal/stream"
	"fairdice/internal/tally"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	snapshotPath := flag.String("snapshot", "", "snapshot log path (overrides config)")
	everyN := flag.Int64("every", 0, "snapshot every N outcomes (overrides config)")
	seed := flag.Int64("seed", 0, "RNG seed, 0 = time-based (overrides config)")
	rate := flag.Float64("rate", 0, "events per second, 0 = unpaced (overrides config)")
	maxEvents := flag.Int64("max", 0, "stop after this many outcomes (0 = run until interrupted)")
	eventsPath := flag.String("events", "", "replay NDJSON event stream from file instead of rolling ('-' for stdin)")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	// CLI flags override config file values
	if *snapshotPath != "" {
		cfg.Snapshot.Path = *snapshotPath
	}
	if *everyN > 0 {
		cfg.Snapshot.EveryN = *everyN
	}
	if *seed != 0 {
		cfg.Source.Seed = *seed
	}
	if *rate > 0 {
		cfg.Source.EventsPerSec = *rate
	}

	alphabet, err := cfg.Alphabet()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	clock := core.RealClock{}
	tl, err := tally.New(alphabet, clock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	writer, err := snapshot.NewWriter(cfg.Snapshot.Path, alphabet.Size())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	src, cleanup, err := buildSource(cfg, alphabet, clock, *eventsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := stream.NewController()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		if !*quiet {
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		}
		ctrl.Stop()
		cancel()
	}()

	prog := stream.NewProgress(tl, *quiet)
	prog.Printf("Fairdice starting: %d faces, snapshot every %d outcomes to %s",
		alphabet.Size(), cfg.Snapshot.EveryN, cfg.Snapshot.Path)
	prog.Start()

	loop := &stream.Loop{
		Source:     src,
		Tally:      tl,
		Policy:     cfg.Policy(),
		Sink:       writer,
		Controller: ctrl,
		MaxEvents:  *maxEvents,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}

	res, err := loop.Run(ctx)
	prog.Stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	fmt.Fprintf(os.Stderr, "Done: %d outcomes, %d snapshots, %d dropped, %d append failures\n",
		res.Events, res.Snapshots, res.Dropped, res.AppendFailures)
	os.Exit(ExitSuccess)
}

// buildSource picks the dice roller or an NDJSON replay stream.
func buildSource(cfg config.Config, alphabet *core.Alphabet, clock core.Clock, eventsPath string) (core.Source, func(), error) {
	if eventsPath == "" {
		return source.NewDice(alphabet, cfg.Source.Seed, cfg.Source.EventsPerSec, clock), func() {}, nil
	}

	var r io.Reader
	cleanup := func() {}
	if eventsPath == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(eventsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening event stream: %w", err)
		}
		r = f
		cleanup = func() { f.Close() }
	}
	return source.NewReplay(r), cleanup, nil
}
