package analyze

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"fairdice/internal/stats"
)

// WriteCSV writes the per-run summary table: one row per run with
// columns run_index, final_n, chi2, max_abs_dev, p1..pK and a trailing
// n_at_first_pass column. An undefined chi-squared and a never-reached
// first pass render as empty fields.
func WriteCSV(w io.Writer, summaries []Summary, k int) error {
	cw := csv.NewWriter(w)

	header := []string{"run_index", "final_n", "chi2", "max_abs_dev"}
	for i := 1; i <= k; i++ {
		header = append(header, fmt.Sprintf("p%d", i))
	}
	header = append(header, "n_at_first_pass")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	for _, s := range summaries {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(s.RunIndex), strconv.FormatInt(s.FinalN, 10))
		if s.ChiSquaredValid {
			row = append(row, strconv.FormatFloat(s.ChiSquared, 'g', -1, 64))
		} else {
			row = append(row, "")
		}
		row = append(row, strconv.FormatFloat(s.MaxAbsDev, 'g', -1, 64))
		for i := 0; i < k; i++ {
			p := 0.0
			if i < len(s.Props) {
				p = s.Props[i]
			}
			row = append(row, strconv.FormatFloat(p, 'g', -1, 64))
		}
		if s.FirstPass {
			row = append(row, strconv.FormatInt(s.FirstPassN, 10))
		} else {
			row = append(row, "")
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// FormatText writes the summaries in human-readable form.
func FormatText(w io.Writer, summaries []Summary, k int) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No runs found in snapshot log")
		return
	}

	crit, hasCrit := stats.CriticalValue5(k - 1)

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Fairdice - Snapshot Analysis")
	fmt.Fprintln(w, "============================")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Runs discovered: %d\n", len(summaries))
	fmt.Fprintln(w, "")

	for _, s := range summaries {
		fmt.Fprintf(w, "Run %d:\n", s.RunIndex)
		fmt.Fprintf(w, "  Final n:       %d\n", s.FinalN)
		if s.ChiSquaredValid {
			fmt.Fprintf(w, "  Chi-squared:   %.4f\n", s.ChiSquared)
		} else {
			fmt.Fprintf(w, "  Chi-squared:   undefined (no observations)\n")
		}
		fmt.Fprintf(w, "  Max abs dev:   %.6f\n", s.MaxAbsDev)
		if hasCrit && s.ChiSquaredValid {
			verdict := "consistent with a fair die at 5%"
			if s.ChiSquared >= crit {
				verdict = fmt.Sprintf("rejects fairness at 5%% (critical value %.3f)", crit)
			}
			fmt.Fprintf(w, "  Verdict:       %s\n", verdict)
		}
		if s.FirstPass {
			fmt.Fprintf(w, "  First pass:    n=%d\n", s.FirstPassN)
		}
		fmt.Fprintln(w, "")
	}
}
