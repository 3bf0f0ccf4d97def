package synth

import (
	"fmt"
	"math/rand"
)

// Combinations returns n choose k, the number of k-replica placements over n
// regions. Returns 0 when k > n.
func Combinations(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	acc := 1
	for v := 1; v <= k; v++ {
		acc = acc * (n - v + 1) / v
	}
	return acc
}

// PlacementShape returns the catalogue shape (number of planes, workload
// dimension) for two-replica placements over regions serving clientRegions.
func PlacementShape(regions, clientRegions int) (numPlanes, dim int) {
	return Combinations(regions, 2), 2 * clientRegions
}

// EqualPlanes returns n planes of the given width whose coefficients all equal
// 1/width. Every plane ties everywhere, which exercises tie-breaking.
func EqualPlanes(n, width int) [][]float64 {
	planes := make([][]float64, n)
	for i := range planes {
		planes[i] = make([]float64, width)
		for j := range planes[i] {
			planes[i][j] = 1 / float64(width)
		}
	}
	return planes
}

// UniformPlanes returns n planes with coefficients drawn uniformly from [lo, hi).
func UniformPlanes(rng *rand.Rand, n, width int, lo, hi float64) ([][]float64, error) {
	if !(hi > lo) {
		return nil, fmt.Errorf("coefficient range [%v, %v) is empty", lo, hi)
	}
	planes := make([][]float64, n)
	for i := range planes {
		planes[i] = make([]float64, width)
		for j := range planes[i] {
			planes[i][j] = lo + rng.Float64()*(hi-lo)
		}
	}
	return planes, nil
}

// PriceChange scales two leading coefficient ranges of a catalogue, modelling a
// price change in two groups of regions (e.g. group A gets dearer, group B cheaper).
type PriceChange struct {
	FractionA float64 // share of coefficients in group A, starting at column 0
	FractionB float64 // share in group B, directly after A
	ChangeA   float64 // multiplier applied to group A
	ChangeB   float64 // multiplier applied to group B
}

// Validate checks that both groups fit inside the coefficient vector.
func (s PriceChange) Validate() error {
	if s.FractionA < 0 || s.FractionB < 0 || s.FractionA+s.FractionB > 1 {
		return fmt.Errorf("savings fractions must be non-negative and sum to at most 1, got %v + %v", s.FractionA, s.FractionB)
	}
	if s.ChangeA < 0 || s.ChangeB < 0 {
		return fmt.Errorf("savings multipliers must be non-negative, got %v and %v", s.ChangeA, s.ChangeB)
	}
	return nil
}

// PlanesWithSavings returns a scaled copy of base according to change.
// Columns [0, endA) are multiplied by ChangeA and [endA, endB) by ChangeB, with
// endA = floor(width*FractionA) and endB = floor(endA + width*FractionB).
func PlanesWithSavings(base [][]float64, change PriceChange) ([][]float64, error) {
	if err := change.Validate(); err != nil {
		return nil, err
	}
	out := make([][]float64, len(base))
	for i, p := range base {
		width := len(p)
		endA := int(float64(width) * change.FractionA)
		endB := int(float64(endA) + float64(width)*change.FractionB)
		out[i] = make([]float64, width)
		for j, c := range p {
			switch {
			case j < endA:
				c *= change.ChangeA
			case j < endB:
				c *= change.ChangeB
			}
			out[i][j] = c
		}
	}
	return out, nil
}
