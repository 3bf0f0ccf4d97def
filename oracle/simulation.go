package oracle

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// SavingsReport summarizes how much cheaper an alternative plane set is than a
// base plane set over a sample of workloads. Savings are base cost minus
// alternative cost, so positive values favour the alternative.
type SavingsReport struct {
	Samples    int
	Confidence float64 // central mass covered by [Lower, Upper]
	Mean       float64
	Median     float64
	Lower      float64
	Upper      float64
	Improved   int // points where the alternative is strictly cheaper
}

// Simulate evaluates both plane sets at every row of points and reports the
// median savings with an empirical central interval of the given confidence
// (e.g. 0.95 → 2.5th to 97.5th percentile).
func Simulate(ctx context.Context, base, alternative *PlaneSet, points mat.Matrix, confidence float64) (*SavingsReport, error) {
	if !(confidence > 0 && confidence < 1) {
		return nil, fmt.Errorf("%w: confidence must be in (0, 1), got %v", ErrInvalidConfig, confidence)
	}
	if base.Dim() != alternative.Dim() {
		return nil, &DimensionMismatchError{Operand: "alternative plane set", Index: -1, Expected: base.Dim(), Got: alternative.Dim()}
	}

	baseRes, err := base.Minimize(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("minimizing base planes: %w", err)
	}
	altRes, err := alternative.Minimize(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("minimizing alternative planes: %w", err)
	}

	savings := make([]float64, len(baseRes.Costs))
	report := &SavingsReport{Samples: len(savings), Confidence: confidence}
	for i := range savings {
		savings[i] = baseRes.Costs[i] - altRes.Costs[i]
		if savings[i] > 0 {
			report.Improved++
		}
	}
	sort.Float64s(savings)

	tail := (1 - confidence) / 2
	report.Mean = stat.Mean(savings, nil)
	report.Median = stat.Quantile(0.5, stat.Empirical, savings, nil)
	report.Lower = stat.Quantile(tail, stat.Empirical, savings, nil)
	report.Upper = stat.Quantile(1-tail, stat.Empirical, savings, nil)
	return report, nil
}
