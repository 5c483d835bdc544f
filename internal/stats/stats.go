// Package stats provides goodness-of-fit helpers for categorical counts.
package stats

import (
	"fmt"
	"math"

	"fairdice/internal/core"
)

// Proportions converts cumulative counts into proportions c_i/n.
// When n is zero every proportion is 0.0 (the pipeline-wide sentinel
// for "no observations yet").
func Proportions(counts []int64, n int64) []float64 {
	props := make([]float64, len(counts))
	if n <= 0 {
		return props
	}
	for i, c := range counts {
		props[i] = float64(c) / float64(n)
	}
	return props
}

// ChiSquared computes the Pearson chi-squared statistic of the observed
// counts against the uniform expectation n/K. Returns ErrNoObservations
// when n is zero: the statistic is undefined, not 0.
func ChiSquared(counts []int64, n int64) (float64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("chi-squared: %w", core.ErrNoObservations)
	}
	expected := float64(n) / float64(len(counts))
	var chi2 float64
	for _, c := range counts {
		diff := float64(c) - expected
		chi2 += diff * diff / expected
	}
	return chi2, nil
}

// MaxAbsDeviation returns the largest |p_i - 1/K| across categories.
func MaxAbsDeviation(props []float64) float64 {
	if len(props) == 0 {
		return 0
	}
	expected := 1.0 / float64(len(props))
	var max float64
	for _, p := range props {
		if d := math.Abs(p - expected); d > max {
			max = d
		}
	}
	return max
}

// chi2Crit5 maps degrees of freedom to the 5% chi-squared critical value.
var chi2Crit5 = map[int]float64{
	1:  3.841,
	2:  5.991,
	3:  7.815,
	4:  9.488,
	5:  11.070,
	6:  12.592,
	7:  14.067,
	8:  15.507,
	9:  16.919,
	10: 18.307,
	11: 19.675,
	12: 21.026,
}

// CriticalValue5 returns the 5% critical value for the given degrees of
// freedom. For a K-face die the degrees of freedom are K-1.
func CriticalValue5(df int) (float64, bool) {
	v, ok := chi2Crit5[df]
	return v, ok
}
