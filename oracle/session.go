package oracle

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/cloud-oracle/cloud-oracle/oracle/trace"
)

// DriftSession walks a workload point along a drift direction across successive
// breakpoints of the lower envelope, recording every change of optimal plane.
//
// The session owns a copy of the starting point; the PlaneSet is only read.
// Not safe for concurrent use.
type DriftSession struct {
	planes    *PlaneSet
	point     []float64 // augmented (x, cost)
	drift     []float64
	horizon   float64
	maxSteps  int
	current   int
	started   bool
	travelled float64
	trace     *trace.DriftTrace
}

// NewDriftSession prepares a walk from start (length d, or d+1 with an ignored
// cost coordinate) along drift (length d or d+1, see StepDirected). The walk
// ends once the cumulative distance reaches horizon (+Inf for unbounded), after
// Config.MaxSteps breakpoints, or when no breakpoint remains.
func NewDriftSession(planes *PlaneSet, start, drift []float64, horizon float64, level trace.TraceLevel) (*DriftSession, error) {
	d := planes.Dim()
	if len(start) != d && len(start) != d+1 {
		return nil, &DimensionMismatchError{Operand: "session start", Index: -1, Expected: d, Got: len(start)}
	}
	if math.IsNaN(horizon) || horizon < 0 {
		return nil, fmt.Errorf("%w: horizon must be non-negative, got %v", ErrInvalidConfig, horizon)
	}
	if !trace.IsValidTraceLevel(string(level)) {
		return nil, fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfig, level)
	}
	point := make([]float64, d+1)
	copy(point, start[:d])
	dr := make([]float64, len(drift))
	copy(dr, drift)

	cost, current, err := planes.MinimizePoint(point[:d])
	if err != nil {
		return nil, err
	}
	point[d] = cost
	return &DriftSession{
		planes:   planes,
		point:    point,
		drift:    dr,
		horizon:  horizon,
		maxSteps: planes.cfg.MaxSteps,
		current:  current,
		trace:    trace.NewDriftTrace(level, point[:d], current),
	}, nil
}

// Current is the plane optimal at the session's present position.
func (s *DriftSession) Current() int {
	return s.current
}

// Point returns a copy of the present augmented position.
func (s *DriftSession) Point() []float64 {
	out := make([]float64, len(s.point))
	copy(out, s.point)
	return out
}

// Travelled is the cumulative drift distance walked so far.
func (s *DriftSession) Travelled() float64 {
	return s.travelled
}

// Trace returns the trace recorded so far.
func (s *DriftSession) Trace() *trace.DriftTrace {
	return s.trace
}

// Done reports whether the session has stopped.
func (s *DriftSession) Done() bool {
	return s.trace.Stopped != trace.TerminationNone
}

// Advance moves to the next breakpoint. It returns ok=false once the session
// has stopped; Trace().Stopped tells why.
func (s *DriftSession) Advance() (bp trace.Breakpoint, ok bool, err error) {
	if s.Done() {
		return trace.Breakpoint{}, false, nil
	}
	if s.trace.Switches >= s.maxSteps {
		s.trace.Stop(trace.TerminationMaxSteps, s.travelled)
		return trace.Breakpoint{}, false, nil
	}

	var res DriftResult
	if !s.started {
		// The first step re-derives the optimal plane like any caller would.
		res, err = s.planes.StepDirected(s.point, s.drift)
		s.started = true
	} else {
		res, err = s.planes.stepFrom(s.point, s.drift, s.current)
	}
	if err != nil {
		return trace.Breakpoint{}, false, err
	}
	s.current = res.Current

	remaining := s.horizon - s.travelled
	if !res.HasBreakpoint() || res.Distance > remaining {
		reason := trace.TerminationHorizon
		if !res.HasBreakpoint() {
			reason = trace.TerminationNoBreakpoint
		}
		// Walk to the horizon on the current plane when it is finite.
		if !math.IsInf(remaining, 1) {
			if err := s.moveOn(s.current, res.Direction, remaining); err != nil {
				return trace.Breakpoint{}, false, err
			}
		}
		s.trace.Stop(reason, s.travelled)
		logrus.Debugf("drift session stopped (%s) on plane %d after %v", reason, s.current, s.travelled)
		return trace.Breakpoint{}, false, nil
	}

	if err := s.moveOn(res.Next, res.Direction, res.Distance); err != nil {
		return trace.Breakpoint{}, false, err
	}
	d := s.planes.Dim()
	cost := s.point[d]
	bp = trace.Breakpoint{
		Step:     s.trace.Switches,
		Offset:   s.travelled,
		Distance: res.Distance,
		From:     res.Current,
		To:       res.Next,
		Cost:     cost,
		Point:    append([]float64(nil), s.point[:d]...),
	}
	s.trace.Record(bp)
	s.current = res.Next
	logrus.Debugf("breakpoint %d at offset %v: plane %d -> %d (cost %v)", bp.Step, bp.Offset, bp.From, bp.To, bp.Cost)
	return bp, true, nil
}

// Run advances until the session stops and returns the trace.
func (s *DriftSession) Run() (*trace.DriftTrace, error) {
	for {
		_, ok, err := s.Advance()
		if err != nil {
			return s.trace, err
		}
		if !ok {
			return s.trace, nil
		}
	}
}

// moveOn advances the point by distance along direction and pins its cost
// coordinate onto plane.
func (s *DriftSession) moveOn(plane int, direction []float64, distance float64) error {
	d := s.planes.Dim()
	if distance > 0 {
		floats.AddScaled(s.point[:d], distance, direction)
	}
	s.travelled += distance
	cost, err := s.planes.Cost(plane, s.point[:d])
	if err != nil {
		return err
	}
	s.point[d] = cost
	return nil
}
