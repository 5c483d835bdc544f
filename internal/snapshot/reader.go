package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"
)

// propTolerance is the absolute tolerance when checking that a stored
// proportion matches count/n.
const propTolerance = 1e-6

// FormatError reports a malformed snapshot record. Record is the
// 1-based index of the data row (the header row does not count).
type FormatError struct {
	Record int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("snapshot record %d: %v", e.Record, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Reader parses a full snapshot log.
//
// By default a malformed record aborts the whole load: silently
// dropping snapshots could misclassify run boundaries downstream.
// With SkipMalformed set the reader continues past bad records and
// collects them in Skipped.
type Reader struct {
	K             int
	SkipMalformed bool

	// Skipped holds the records passed over during the last Read when
	// SkipMalformed is set.
	Skipped []*FormatError
}

// NewReader returns a Reader for an alphabet of size k.
func NewReader(k int) *Reader {
	return &Reader{K: k}
}

// ReadFile loads the snapshot log at path.
func (rd *Reader) ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot log: %w", err)
	}
	defer f.Close()
	return rd.Read(f)
}

// Read parses the full ordered sequence of records from r. The first
// row is the header and is validated for width only; names are not
// interpreted, the column order is the contract.
func (rd *Reader) Read(r io.Reader) ([]Record, error) {
	rd.Skipped = nil

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // width is checked per record for a precise error

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading snapshot log: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	want := 2 + 2*rd.K
	if len(rows[0]) != want {
		return nil, fmt.Errorf("snapshot header has %d columns, want %d", len(rows[0]), want)
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := rd.parseRecord(row)
		if err != nil {
			ferr := &FormatError{Record: i + 1, Err: err}
			if rd.SkipMalformed {
				rd.Skipped = append(rd.Skipped, ferr)
				continue
			}
			return nil, ferr
		}
		records = append(records, rec)
	}
	return records, nil
}

func (rd *Reader) parseRecord(row []string) (Record, error) {
	want := 2 + 2*rd.K
	if len(row) != want {
		return Record{}, fmt.Errorf("has %d fields, want %d", len(row), want)
	}

	ts, err := parseTimestamp(row[0])
	if err != nil {
		return Record{}, fmt.Errorf("timestamp %q: %w", row[0], err)
	}

	n, err := strconv.ParseInt(row[1], 10, 64)
	if err != nil || n < 0 {
		return Record{}, fmt.Errorf("n %q is not a non-negative integer", row[1])
	}

	rec := Record{
		Timestamp: ts,
		N:         n,
		Counts:    make([]int64, rd.K),
		Props:     make([]float64, rd.K),
	}

	for i := 0; i < rd.K; i++ {
		c, err := strconv.ParseInt(row[2+i], 10, 64)
		if err != nil || c < 0 {
			return Record{}, fmt.Errorf("c%d %q is not a non-negative integer", i+1, row[2+i])
		}
		rec.Counts[i] = c
	}

	for i := 0; i < rd.K; i++ {
		p, err := strconv.ParseFloat(row[2+rd.K+i], 64)
		if err != nil {
			return Record{}, fmt.Errorf("p%d %q is not numeric", i+1, row[2+rd.K+i])
		}
		rec.Props[i] = p

		expected := 0.0
		if n > 0 {
			expected = float64(rec.Counts[i]) / float64(n)
		}
		if math.Abs(p-expected) > propTolerance {
			return Record{}, fmt.Errorf("p%d %v inconsistent with c%d/n = %v", i+1, p, i+1, expected)
		}
	}

	return rec, nil
}

// parseTimestamp accepts RFC3339 and the zone-less form the original
// snapshot tooling wrote.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
