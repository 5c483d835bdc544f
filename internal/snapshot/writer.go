package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultAttempts  = 3
	defaultRetryWait = 100 * time.Millisecond
)

// Writer appends snapshot records to a CSV log file. The log is opened
// per append so a crash between snapshots never holds the file; the
// header is written once when the file is first created.
//
// Append failures are transient by assumption and retried a bounded
// number of times. An exhausted retry budget is surfaced to the caller;
// the caller's in-memory state is untouched, only the durability point
// is delayed.
type Writer struct {
	path string
	k    int

	// Attempts and RetryWait control the append retry policy.
	Attempts  int
	RetryWait time.Duration
}

// NewWriter prepares the log at path for an alphabet of size k,
// creating parent directories and the header row if needed.
func NewWriter(path string, k int) (*Writer, error) {
	if k < 1 {
		return nil, fmt.Errorf("snapshot writer: alphabet size must be >= 1, got %d", k)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("snapshot writer: %w", err)
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeHeader(path, k); err != nil {
			return nil, fmt.Errorf("snapshot writer: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("snapshot writer: %w", err)
	}

	return &Writer{
		path:      path,
		k:         k,
		Attempts:  defaultAttempts,
		RetryWait: defaultRetryWait,
	}, nil
}

// Path returns the log file path.
func (w *Writer) Path() string {
	return w.path
}

// Append writes one record to the log, retrying transient failures.
func (w *Writer) Append(rec Record) error {
	if rec.K() != w.k || len(rec.Props) != w.k {
		return fmt.Errorf("snapshot append: record has %d categories, log expects %d", rec.K(), w.k)
	}

	var lastErr error
	for attempt := 0; attempt < w.Attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(w.RetryWait)
		}
		if err := w.appendOnce(rec); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("snapshot append: %d attempts failed: %w", w.Attempts, lastErr)
}

func (w *Writer) appendOnce(rec Record) error {
	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(rec.row()); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Sync()
}

func writeHeader(path string, k int) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(Header(k)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
