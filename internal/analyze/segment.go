// Package analyze segments a flat snapshot log into logical runs and
// derives per-run goodness-of-fit summaries.
package analyze

import "fairdice/internal/snapshot"

// Run is one maximal contiguous segment of the snapshot log in which n
// never decreases: one continuous aggregation session. Runs carry no
// identifier in the log; Index is positional, in file order.
type Run struct {
	Index   int
	Records []snapshot.Record
}

// SegmentRuns partitions records into runs. A new run starts at the
// first record whose n is strictly less than the previous record's n,
// the signature of an aggregator restart. Equal consecutive n values
// stay in the same run: a plateau snapshot or duplicate append is not
// a restart. The first record always opens run 0, whatever its n.
//
// Pure function of its input; calling it again on the same slice
// yields the same partition.
func SegmentRuns(records []snapshot.Record) []Run {
	if len(records) == 0 {
		return nil
	}

	runs := []Run{{Index: 0}}
	prev := records[0].N
	for _, rec := range records {
		if rec.N < prev {
			runs = append(runs, Run{Index: len(runs)})
		}
		cur := &runs[len(runs)-1]
		cur.Records = append(cur.Records, rec)
		prev = rec.N
	}
	return runs
}
