package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.Switches != 0 || summary.DistinctPlanes != 0 {
		t.Error("expected zero counts for nil trace")
	}
	if summary.PlaneVisits == nil {
		t.Error("expected non-nil visit map")
	}
}

func TestSummarize_EmptyTrace_CountsInitialPlane(t *testing.T) {
	// GIVEN a trace with no breakpoints
	dt := NewDriftTrace(TraceLevelBreakpoints, []float64{0}, 4)
	dt.Stop(TerminationNoBreakpoint, 0)

	// WHEN summarized
	summary := Summarize(dt)

	// THEN only the initial plane is visited
	if summary.DistinctPlanes != 1 || summary.PlaneVisits[4] != 1 {
		t.Errorf("expected plane 4 visited once, got %v", summary.PlaneVisits)
	}
	if summary.MeanDwell != 0 || summary.MinDwell != 0 {
		t.Error("expected zero dwell statistics")
	}
	if summary.Stopped != TerminationNoBreakpoint {
		t.Errorf("Stopped = %q", summary.Stopped)
	}
}

func TestSummarize_DwellStatistics(t *testing.T) {
	// GIVEN breakpoints with known dwell distances, revisiting plane 0
	dt := NewDriftTrace(TraceLevelBreakpoints, nil, 0)
	dt.Record(Breakpoint{Offset: 1, Distance: 1, From: 0, To: 1})
	dt.Record(Breakpoint{Offset: 4, Distance: 3, From: 1, To: 2})
	dt.Record(Breakpoint{Offset: 6, Distance: 2, From: 2, To: 0})

	// WHEN summarized
	summary := Summarize(dt)

	// THEN mean and min dwell match and plane 0 is counted twice
	if summary.MeanDwell != 2 {
		t.Errorf("MeanDwell = %v, want 2", summary.MeanDwell)
	}
	if summary.MinDwell != 1 {
		t.Errorf("MinDwell = %v, want 1", summary.MinDwell)
	}
	if summary.PlaneVisits[0] != 2 {
		t.Errorf("plane 0 visits = %d, want 2", summary.PlaneVisits[0])
	}
	if summary.DistinctPlanes != 3 {
		t.Errorf("DistinctPlanes = %d, want 3", summary.DistinctPlanes)
	}
	if summary.Switches != 3 || summary.Travelled != 6 {
		t.Errorf("Switches = %d, Travelled = %v", summary.Switches, summary.Travelled)
	}
}
