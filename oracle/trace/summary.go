package trace

import "math"

// TraceSummary aggregates statistics from a DriftTrace.
type TraceSummary struct {
	Switches       int
	DistinctPlanes int
	MeanDwell      float64     // mean distance between consecutive breakpoints
	MinDwell       float64     // shortest such distance (0 at degenerate vertices)
	PlaneVisits    map[int]int // plane index → number of times it became optimal
	Travelled      float64
	Stopped        Termination
}

// Summarize computes aggregate statistics from a DriftTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(dt *DriftTrace) *TraceSummary {
	summary := &TraceSummary{
		PlaneVisits: make(map[int]int),
	}
	if dt == nil {
		return summary
	}

	summary.Switches = dt.Switches
	summary.Travelled = dt.Travelled
	summary.Stopped = dt.Stopped
	summary.PlaneVisits[dt.Initial]++

	if len(dt.Breakpoints) > 0 {
		total := 0.0
		summary.MinDwell = math.Inf(1)
		for _, b := range dt.Breakpoints {
			summary.PlaneVisits[b.To]++
			total += b.Distance
			summary.MinDwell = math.Min(summary.MinDwell, b.Distance)
		}
		summary.MeanDwell = total / float64(len(dt.Breakpoints))
	}

	summary.DistinctPlanes = len(summary.PlaneVisits)

	return summary
}
