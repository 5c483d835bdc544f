// Package config handles YAML configuration parsing with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"fairdice/internal/core"
	"fairdice/internal/tally"
)

// Config is the root configuration structure. Precedence, lowest to
// highest: built-in defaults, YAML file, environment variables.
type Config struct {
	// Faces is the alphabet size K; outcomes are 1..K.
	Faces int `yaml:"faces" env:"FAIRDICE_FACES"`

	Snapshot SnapshotConfig `yaml:"snapshot"`
	Source   SourceConfig   `yaml:"source"`
	Report   ReportConfig   `yaml:"report"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// SnapshotConfig controls cadence and placement of the snapshot log.
type SnapshotConfig struct {
	// EveryN emits a snapshot after that many new outcomes since the
	// last one.
	EveryN int64 `yaml:"every_n" env:"SNAPSHOT_EVERY"`
	// EverySeconds emits a snapshot after that many seconds since the
	// last one. Both options may be set; whichever fires first wins.
	EverySeconds float64 `yaml:"every_seconds" env:"SNAPSHOT_EVERY_SECONDS"`
	Path         string  `yaml:"path" env:"SNAPSHOT_PATH"`
}

// SourceConfig controls the synthetic dice producer.
type SourceConfig struct {
	// Seed for the RNG; 0 derives one from the current time.
	Seed int64 `yaml:"seed" env:"FAIRDICE_SEED"`
	// EventsPerSec paces emission; 0 runs unpaced.
	EventsPerSec float64 `yaml:"events_per_sec" env:"FAIRDICE_RATE"`
}

// ReportConfig controls the offline analysis output.
type ReportConfig struct {
	Dir string `yaml:"dir" env:"REPORT_DIR"`
}

// AnalysisConfig controls offline load behavior.
type AnalysisConfig struct {
	// OnFormatError is "abort" (default) or "skip". Abort is the safe
	// choice: silently dropped snapshots can misclassify run
	// boundaries.
	OnFormatError string `yaml:"on_format_error" env:"FAIRDICE_ON_FORMAT_ERROR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Faces: 6,
		Snapshot: SnapshotConfig{
			EveryN: 50,
			Path:   "data/snapshots.csv",
		},
		Report: ReportConfig{
			Dir: "reports",
		},
		Analysis: AnalysisConfig{
			OnFormatError: "abort",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML
// file at path (skipped when path is empty), then environment
// variables, then validation.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration, wrapping core.ErrConfig so the
// caller can treat configuration failures as fatal.
func (c Config) Validate() error {
	if c.Faces < 1 {
		return fmt.Errorf("%w: faces must be >= 1, got %d", core.ErrConfig, c.Faces)
	}
	if c.Snapshot.Path == "" {
		return fmt.Errorf("%w: snapshot path must not be empty", core.ErrConfig)
	}
	if c.Snapshot.EverySeconds < 0 {
		return fmt.Errorf("%w: snapshot every_seconds must be >= 0, got %v", core.ErrConfig, c.Snapshot.EverySeconds)
	}
	if err := c.Policy().Validate(); err != nil {
		return err
	}
	if c.Source.EventsPerSec < 0 {
		return fmt.Errorf("%w: source events_per_sec must be >= 0, got %v", core.ErrConfig, c.Source.EventsPerSec)
	}
	switch c.Analysis.OnFormatError {
	case "abort", "skip":
	default:
		return fmt.Errorf("%w: on_format_error must be \"abort\" or \"skip\", got %q", core.ErrConfig, c.Analysis.OnFormatError)
	}
	return nil
}

// Policy returns the snapshot cadence policy.
func (c Config) Policy() tally.Policy {
	return tally.Policy{
		EveryN: c.Snapshot.EveryN,
		Every:  time.Duration(c.Snapshot.EverySeconds * float64(time.Second)),
	}
}

// Alphabet builds the configured outcome alphabet.
func (c Config) Alphabet() (*core.Alphabet, error) {
	return core.Dice(c.Faces)
}

// SkipMalformed reports whether the analyzer should continue past
// malformed snapshot records.
func (c Config) SkipMalformed() bool {
	return c.Analysis.OnFormatError == "skip"
}
