// Package snapshot persists point-in-time aggregator state to an
// append-only CSV log and reads it back for offline analysis.
//
// The log format is load-bearing: one header row, then one row per
// snapshot with columns
//
//	timestamp, n, c1..cK, p1..pK
//
// in exactly that order. The analyzer depends on column order and
// presence; reordering columns is a breaking change.
package snapshot

import (
	"fmt"
	"strconv"
	"time"
)

// Record is one immutable snapshot of cumulative aggregator state.
// Counts and Props are in alphabet order; sum(Counts) == N and
// Props[i] == Counts[i]/N (0.0 when N is zero).
type Record struct {
	Timestamp time.Time
	N         int64
	Counts    []int64
	Props     []float64
}

// K returns the number of categories the record covers.
func (r Record) K() int {
	return len(r.Counts)
}

// Header returns the CSV header row for an alphabet of size k.
func Header(k int) []string {
	cols := make([]string, 0, 2+2*k)
	cols = append(cols, "timestamp", "n")
	for i := 1; i <= k; i++ {
		cols = append(cols, fmt.Sprintf("c%d", i))
	}
	for i := 1; i <= k; i++ {
		cols = append(cols, fmt.Sprintf("p%d", i))
	}
	return cols
}

// row renders the record as a CSV row matching Header.
func (r Record) row() []string {
	fields := make([]string, 0, 2+2*r.K())
	fields = append(fields, r.Timestamp.Format(time.RFC3339), strconv.FormatInt(r.N, 10))
	for _, c := range r.Counts {
		fields = append(fields, strconv.FormatInt(c, 10))
	}
	for _, p := range r.Props {
		fields = append(fields, strconv.FormatFloat(p, 'g', -1, 64))
	}
	return fields
}
