package analyze_test

import (
	"fmt"

	"fairdice/internal/analyze"
	"fairdice/internal/snapshot"
)

func ExampleSegmentRuns() {
	// n drops from 15 to 3: the aggregator restarted between those
	// snapshots, so the log holds two runs.
	records := []snapshot.Record{
		{N: 5, Counts: []int64{3, 2}, Props: []float64{0.6, 0.4}},
		{N: 10, Counts: []int64{5, 5}, Props: []float64{0.5, 0.5}},
		{N: 15, Counts: []int64{8, 7}, Props: []float64{8.0 / 15, 7.0 / 15}},
		{N: 3, Counts: []int64{2, 1}, Props: []float64{2.0 / 3, 1.0 / 3}},
		{N: 8, Counts: []int64{4, 4}, Props: []float64{0.5, 0.5}},
		{N: 20, Counts: []int64{10, 10}, Props: []float64{0.5, 0.5}},
	}

	for _, run := range analyze.SegmentRuns(records) {
		fmt.Printf("run %d: %d snapshots, final n=%d\n",
			run.Index, len(run.Records), run.Records[len(run.Records)-1].N)
	}
	// Output:
	// run 0: 3 snapshots, final n=15
	// run 1: 3 snapshots, final n=20
}
