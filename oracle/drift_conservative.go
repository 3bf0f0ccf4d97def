package oracle

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// StepConservative returns a direction-agnostic safety radius for the plane that
// is optimal at point: for any workload drift of unit Euclidean length, that plane
// stays optimal for every travel distance below Distance.
//
// The radius is the distance from x to the nearest switching hyperplane
// {y : (c_i - c*)·y + (c0_i - c0*) = 0}, i.e. min over i of gap_i / |c_i - c*|.
// By Cauchy-Schwarz it never exceeds the StepDirected distance for a unit drift
// from the same point. Planes parallel to the optimal one never switch and are
// skipped. Next is the plane whose switching hyperplane is closest.
//
// point is augmented exactly as for StepDirected and its last coordinate is
// overwritten with the current minimal cost.
func (ps *PlaneSet) StepConservative(point []float64) (DriftResult, error) {
	d := ps.Dim()
	if len(point) != d+1 {
		return DriftResult{}, &DimensionMismatchError{Operand: "drift point", Index: -1, Expected: d + 1, Got: len(point)}
	}
	point[d] = 0
	hom, err := ps.homogeneous("drift point", -1, point[:d])
	if err != nil {
		return DriftResult{}, err
	}
	costs := make([]float64, ps.Len())
	ps.evaluate(costs, hom)
	current := floats.MinIdx(costs)
	point[d] = costs[current]

	res := noBreakpoint(current, costs[current])
	cur := ps.slopes(current)
	diff := make([]float64, d)
	best := math.Inf(1)
	for i := range costs {
		if i == current {
			continue
		}
		floats.SubTo(diff, ps.slopes(i), cur)
		norm := floats.Norm(diff, 2)
		if norm == 0 {
			continue
		}
		r := ps.cfg.Precision.Round(math.Max(costs[i]-costs[current], 0) / norm)
		if r < best {
			best = r
			res.Next = i
		}
	}
	if res.Next >= 0 {
		res.Distance = best
	}
	return res, nil
}
