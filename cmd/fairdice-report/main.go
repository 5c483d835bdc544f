package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"fairdice/internal/analyze"
	"fairdice/internal/config"
	"fairdice/internal/snapshot"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	logPath := flag.String("log", "", "snapshot log path (overrides config)")
	outDir := flag.String("out", "", "report output directory (overrides config)")
	skip := flag.Bool("skip-malformed", false, "continue past malformed snapshot records instead of aborting")
	output := flag.String("output", "text", "output format: text, csv")
	flag.Parse()

	if *output != "text" && *output != "csv" {
		fmt.Fprintf(os.Stderr, "error: --output must be 'text' or 'csv', got %q\n", *output)
		os.Exit(ExitError)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	if *logPath != "" {
		cfg.Snapshot.Path = *logPath
	}
	if *outDir != "" {
		cfg.Report.Dir = *outDir
	}
	if *skip {
		cfg.Analysis.OnFormatError = "skip"
	}

	reader := snapshot.NewReader(cfg.Faces)
	reader.SkipMalformed = cfg.SkipMalformed()

	records, err := reader.ReadFile(cfg.Snapshot.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	for _, ferr := range reader.Skipped {
		fmt.Fprintf(os.Stderr, "warning: skipped %v\n", ferr)
	}

	summaries := analyze.SummarizeAll(analyze.SegmentRuns(records))

	if err := os.MkdirAll(cfg.Report.Dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	summaryPath := filepath.Join(cfg.Report.Dir, "summary.csv")
	f, err := os.Create(summaryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	if err := analyze.WriteCSV(f, summaries, cfg.Faces); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	if *output == "csv" {
		if err := analyze.WriteCSV(os.Stdout, summaries, cfg.Faces); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
	} else {
		analyze.FormatText(os.Stdout, summaries, cfg.Faces)
	}

	fmt.Fprintf(os.Stderr, "Read %d snapshot rows, wrote %s\n", len(records), summaryPath)
	os.Exit(ExitSuccess)
}
