package oracle

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DriftResult is the answer of a drift query.
//
// When no plane ever overtakes the current one, Distance is +Inf and Next is -1;
// check HasBreakpoint before using Next.
type DriftResult struct {
	Current     int       // plane optimal at the query point
	CurrentCost float64   // its cost, also written into the point's last coordinate
	Distance    float64   // drift units (directed) or Euclidean radius (conservative)
	Next        int       // plane reached at Distance
	Direction   []float64 // workload part of the tangent drift (directed only)
}

// HasBreakpoint reports whether a finite breakpoint was found.
func (r DriftResult) HasBreakpoint() bool {
	return r.Next >= 0 && !math.IsInf(r.Distance, 1)
}

func noBreakpoint(current int, cost float64) DriftResult {
	return DriftResult{Current: current, CurrentCost: cost, Distance: math.Inf(1), Next: -1}
}

// StepDirected shoots a ray from point along drift, constrained to the surface of
// the currently optimal plane, and returns the distance to the first breakpoint of
// the lower envelope and the plane that takes over there.
//
// point is augmented: (x1, ..., xd, z). The last coordinate is ignored on input
// and overwritten with the current minimal cost, pinning the point onto the
// optimal plane. The optimal plane is always re-derived from x.
//
// drift is either a workload direction of length d or an augmented direction of
// length d+1, which is projected orthogonally onto the tangent space of the
// optimal plane's graph.
func (ps *PlaneSet) StepDirected(point, drift []float64) (DriftResult, error) {
	costs, err := ps.pinPoint(point, drift)
	if err != nil {
		return DriftResult{}, err
	}
	current := floats.MinIdx(costs)
	point[ps.Dim()] = costs[current]
	return ps.shootRay(current, costs, ps.tangentDrift(current, drift)), nil
}

// stepFrom is StepDirected with the current plane fixed by the caller. A
// DriftSession uses it after crossing a breakpoint, where the old and new
// planes tie and re-deriving would pick the lower index.
func (ps *PlaneSet) stepFrom(point, drift []float64, current int) (DriftResult, error) {
	costs, err := ps.pinPoint(point, drift)
	if err != nil {
		return DriftResult{}, err
	}
	point[ps.Dim()] = costs[current]
	return ps.shootRay(current, costs, ps.tangentDrift(current, drift)), nil
}

// pinPoint validates a drift query and evaluates every plane at the point's
// workload coordinates.
func (ps *PlaneSet) pinPoint(point, drift []float64) ([]float64, error) {
	d := ps.Dim()
	if len(point) != d+1 {
		return nil, &DimensionMismatchError{Operand: "drift point", Index: -1, Expected: d + 1, Got: len(point)}
	}
	if len(drift) != d && len(drift) != d+1 {
		return nil, &DimensionMismatchError{Operand: "drift vector", Index: -1, Expected: d + 1, Got: len(drift)}
	}
	for k, v := range drift {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nonFinite("drift vector", -1, k, v)
		}
	}
	point[d] = 0
	hom, err := ps.homogeneous("drift point", -1, point[:d])
	if err != nil {
		return nil, err
	}
	costs := make([]float64, ps.Len())
	ps.evaluate(costs, hom)
	return costs, nil
}

// tangentDrift returns the workload part of drift projected onto the tangent
// space of plane current's graph {(x, c0 + c·x)}.
//
// For an augmented drift (u, w) the graph normal is n = (c, -1) and
// proj = (u, w) - k·n with k = (c·u - w) / (|c|² + 1). A drift of length d is
// already tangent once its cost component is derived, so u is returned as is.
func (ps *PlaneSet) tangentDrift(current int, drift []float64) []float64 {
	d := ps.Dim()
	u := make([]float64, d)
	for k := range u {
		u[k] = ps.cfg.Precision.Round(drift[k])
	}
	if len(drift) == d {
		return u
	}
	c := ps.slopes(current)
	w := ps.cfg.Precision.Round(drift[d])
	k := (floats.Dot(c, u) - w) / (floats.Dot(c, c) + 1)
	floats.AddScaled(u, -k, c)
	for i := range u {
		u[i] = ps.cfg.Precision.Round(u[i])
	}
	return u
}

// shootRay finds the smallest t >= 0 at which some plane i != current satisfies
// cost_i(x + t·u) = cost_current(x + t·u).
//
// The current plane is excluded explicitly rather than masked in storage. With
// gap_i = cost_i(x) - cost_current(x) and rate_i = (c_current - c_i)·u the
// crossing is at t_i = gap_i / rate_i; planes with rate_i <= 0 never catch up.
// Equal t_i resolve to the larger rate (the plane optimal just past the
// breakpoint), then to the lower index.
func (ps *PlaneSet) shootRay(current int, costs, u []float64) DriftResult {
	prec := ps.cfg.Precision
	res := noBreakpoint(current, costs[current])
	res.Direction = u

	along := make([]float64, len(costs))
	for i := range along {
		along[i] = floats.Dot(ps.slopes(i), u)
	}

	best, bestRate := math.Inf(1), 0.0
	for i := range costs {
		if i == current {
			continue
		}
		rate := along[current] - along[i]
		if !(rate > 0) {
			continue
		}
		gap := math.Max(costs[i]-costs[current], 0)
		t := prec.Round(gap / rate)
		if math.IsInf(t, 1) {
			continue
		}
		if t < best || (t == best && rate > bestRate) {
			best, bestRate = t, rate
			res.Next = i
		}
	}
	if res.Next >= 0 {
		res.Distance = best
	}
	return res
}
