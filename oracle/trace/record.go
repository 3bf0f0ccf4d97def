// Package trace provides breakpoint recording for drift sessions.
// This package has no dependencies on oracle/; it stores pure data types.
package trace

// Breakpoint captures one change of the optimal plane along a drift path.
type Breakpoint struct {
	Step     int       // 0-based position in the session
	Offset   float64   // cumulative drift distance at the breakpoint
	Distance float64   // drift distance since the previous breakpoint (the dwell of From)
	From     int       // plane optimal before the breakpoint
	To       int       // plane optimal after the breakpoint
	Cost     float64   // envelope cost at the breakpoint (both planes agree)
	Point    []float64 // workload coordinates of the breakpoint
}

// Termination tells why a drift session stopped.
type Termination string

const (
	// TerminationNone means the session has not stopped yet.
	TerminationNone Termination = ""
	// TerminationHorizon means the cumulative distance reached the horizon.
	TerminationHorizon Termination = "horizon"
	// TerminationMaxSteps means the breakpoint budget ran out.
	TerminationMaxSteps Termination = "max-steps"
	// TerminationNoBreakpoint means no plane ever overtakes the final one.
	TerminationNoBreakpoint Termination = "no-breakpoint"
)
