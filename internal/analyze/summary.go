package analyze

import (
	"fairdice/internal/stats"
)

// Summary is the finalized view of one run, computed from its last
// record. ChiSquared is undefined (ChiSquaredValid false) for a run
// that never observed an outcome; FirstPassN is the smallest n at
// which the run's chi-squared dropped below the 5% critical value,
// with FirstPass false when that never happened.
type Summary struct {
	RunIndex        int
	FinalN          int64
	Counts          []int64
	Props           []float64
	ChiSquared      float64
	ChiSquaredValid bool
	MaxAbsDev       float64

	FirstPassN int64
	FirstPass  bool
}

// Summarize computes the summary of one run. Pure and deterministic;
// a zero-observation run yields an undefined chi-squared, not an error.
func Summarize(run Run) Summary {
	s := Summary{RunIndex: run.Index}
	if len(run.Records) == 0 {
		return s
	}

	last := run.Records[len(run.Records)-1]
	s.FinalN = last.N
	s.Counts = append([]int64(nil), last.Counts...)
	// Proportions are rebuilt from counts so the summary is robust even
	// if the stored p columns carry rounding from the writer.
	s.Props = stats.Proportions(last.Counts, last.N)
	s.MaxAbsDev = stats.MaxAbsDeviation(s.Props)

	if chi2, err := stats.ChiSquared(last.Counts, last.N); err == nil {
		s.ChiSquared = chi2
		s.ChiSquaredValid = true
	}

	crit, ok := stats.CriticalValue5(last.K() - 1)
	if !ok {
		return s
	}
	for _, rec := range run.Records {
		chi2, err := stats.ChiSquared(rec.Counts, rec.N)
		if err != nil {
			continue
		}
		if chi2 < crit {
			s.FirstPassN = rec.N
			s.FirstPass = true
			break
		}
	}
	return s
}

// SummarizeAll summarizes every run in order.
func SummarizeAll(runs []Run) []Summary {
	out := make([]Summary, 0, len(runs))
	for _, run := range runs {
		out = append(out, Summarize(run))
	}
	return out
}
