package analyze

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"fairdice/internal/snapshot"
)

func TestWriteCSV(t *testing.T) {
	summaries := SummarizeAll(SegmentRuns([]snapshot.Record{
		rec(60, []int64{10, 10, 10, 10, 10, 10}),
		rec(6, []int64{1, 1, 1, 1, 1, 1}),
	}))

	var buf bytes.Buffer
	if err := WriteCSV(&buf, summaries, 6); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing report: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	wantHeader := []string{"run_index", "final_n", "chi2", "max_abs_dev", "p1", "p2", "p3", "p4", "p5", "p6", "n_at_first_pass"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	if rows[1][0] != "0" || rows[1][1] != "60" || rows[1][2] != "0" {
		t.Errorf("unexpected first run row: %v", rows[1])
	}
	if rows[2][0] != "1" || rows[2][1] != "6" {
		t.Errorf("unexpected second run row: %v", rows[2])
	}
}

func TestWriteCSV_UndefinedChi2IsEmpty(t *testing.T) {
	summaries := []Summary{Summarize(Run{Index: 0, Records: []snapshot.Record{
		rec(0, []int64{0, 0, 0, 0, 0, 0}),
	}})}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, summaries, 6); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing report: %v", err)
	}
	if rows[1][2] != "" {
		t.Errorf("chi2 field = %q, want empty for undefined statistic", rows[1][2])
	}
	if rows[1][len(rows[1])-1] != "" {
		t.Errorf("n_at_first_pass = %q, want empty when never passed", rows[1][len(rows[1])-1])
	}
}

func TestFormatText(t *testing.T) {
	summaries := SummarizeAll(SegmentRuns([]snapshot.Record{
		rec(60, []int64{10, 10, 10, 10, 10, 10}),
	}))

	var buf bytes.Buffer
	FormatText(&buf, summaries, 6)

	out := buf.String()
	if !strings.Contains(out, "Runs discovered: 1") {
		t.Errorf("missing run count in output:\n%s", out)
	}
	if !strings.Contains(out, "consistent with a fair die") {
		t.Errorf("missing fairness verdict in output:\n%s", out)
	}
}

func TestFormatText_Empty(t *testing.T) {
	var buf bytes.Buffer
	FormatText(&buf, nil, 6)

	if !strings.Contains(buf.String(), "No runs found") {
		t.Errorf("unexpected output for empty summaries: %q", buf.String())
	}
}
