package oracle

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-oracle/cloud-oracle/oracle/internal/testutil"
	"github.com/cloud-oracle/cloud-oracle/oracle/trace"
)

// interceptPlanes: plane 1 is optimal near the origin, then plane 0, then the flat plane 2.
var interceptPlanes = [][]float64{{1, 0.5, 0.5}, {0, 1, 1}, {3, 0, 0}}

func TestDriftSession_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	for _, tc := range dataset.Tests {
		if tc.Session == nil {
			continue
		}
		t.Run(tc.Name, func(t *testing.T) {
			ps := mustPlaneSet(t, tc.Planes)
			s, err := NewDriftSession(ps, tc.Session.Start, tc.Session.Drift, math.Inf(1), trace.TraceLevelBreakpoints)
			require.NoError(t, err)

			dt, err := s.Run()
			require.NoError(t, err)

			require.Len(t, dt.Breakpoints, len(tc.Session.Switches))
			for i, bp := range dt.Breakpoints {
				assert.Equal(t, i, bp.Step)
				assert.Equal(t, tc.Session.Switches[i][0], bp.From)
				assert.Equal(t, tc.Session.Switches[i][1], bp.To)
				testutil.AssertFloat64Equal(t, "offset", tc.Session.Offsets[i], bp.Offset, 1e-12)
			}
			assert.Equal(t, trace.Termination(tc.Session.Stopped), dt.Stopped)
		})
	}
}

func TestDriftSession_BreakpointRecords(t *testing.T) {
	ps := mustPlaneSet(t, interceptPlanes)
	s, err := NewDriftSession(ps, []float64{0, 0}, []float64{1, 1}, math.Inf(1), "")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Current())

	// WHEN advancing one breakpoint at a time
	bp, ok, err := s.Advance()
	require.NoError(t, err)
	require.True(t, ok)

	// THEN the first switch happens at (1, 1) where planes 0 and 1 both cost 2
	assert.Equal(t, trace.Breakpoint{Step: 0, Offset: 1, Distance: 1, From: 1, To: 0, Cost: 2, Point: []float64{1, 1}}, bp)
	assert.Equal(t, 0, s.Current())
	assert.Equal(t, []float64{1, 1, 2}, s.Point())

	bp, ok, err = s.Advance()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, trace.Breakpoint{Step: 1, Offset: 2, Distance: 1, From: 0, To: 2, Cost: 3, Point: []float64{2, 2}}, bp)

	_, ok, err = s.Advance()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, s.Done())
	assert.Equal(t, 2.0, s.Travelled())
	assert.Equal(t, 2, s.Trace().Final)

	// Advancing a stopped session is a no-op.
	_, ok, err = s.Advance()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, s.Trace().Switches)
}

func TestDriftSession_StopsAtHorizon(t *testing.T) {
	// GIVEN a horizon between the first and second breakpoint
	ps := mustPlaneSet(t, interceptPlanes)
	s, err := NewDriftSession(ps, []float64{0, 0, 99}, []float64{1, 1}, 1.5, trace.TraceLevelBreakpoints)
	require.NoError(t, err)

	dt, err := s.Run()
	require.NoError(t, err)

	// THEN only the first breakpoint is crossed and the point rests at the horizon
	assert.Equal(t, trace.TerminationHorizon, dt.Stopped)
	assert.Equal(t, 1, dt.Switches)
	assert.Equal(t, 1.5, dt.Travelled)
	assert.Equal(t, []float64{1.5, 1.5, 2.5}, s.Point())
	assert.Equal(t, 0, s.Current())
}

func TestDriftSession_StopsAtMaxSteps(t *testing.T) {
	ps, err := NewPlaneSet(interceptPlanes, Config{MaxSteps: 1})
	require.NoError(t, err)
	s, err := NewDriftSession(ps, []float64{0, 0}, []float64{1, 1}, math.Inf(1), trace.TraceLevelBreakpoints)
	require.NoError(t, err)

	dt, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, trace.TerminationMaxSteps, dt.Stopped)
	assert.Equal(t, 1, dt.Switches)
	assert.Equal(t, 1.0, dt.Travelled)
}

func TestDriftSession_NoBreakpointFromStart(t *testing.T) {
	ps := mustPlaneSet(t, [][]float64{{1, 2, 3}})
	s, err := NewDriftSession(ps, []float64{1, 1}, []float64{1, 0}, math.Inf(1), trace.TraceLevelBreakpoints)
	require.NoError(t, err)

	dt, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, trace.TerminationNoBreakpoint, dt.Stopped)
	assert.Zero(t, dt.Switches)
	assert.Zero(t, dt.Travelled)
	assert.Empty(t, dt.Breakpoints)
	assert.Equal(t, 0, dt.Initial)
	assert.Equal(t, 0, dt.Final)
}

func TestDriftSession_TraceLevelNoneKeepsCounters(t *testing.T) {
	ps := mustPlaneSet(t, interceptPlanes)
	s, err := NewDriftSession(ps, []float64{0, 0}, []float64{1, 1}, math.Inf(1), trace.TraceLevelNone)
	require.NoError(t, err)

	dt, err := s.Run()
	require.NoError(t, err)

	assert.Empty(t, dt.Breakpoints)
	assert.Equal(t, 2, dt.Switches)
	assert.Equal(t, 2, dt.Final)
}

func TestDriftSession_DoesNotAliasInputs(t *testing.T) {
	ps := mustPlaneSet(t, interceptPlanes)
	start := []float64{0, 0}
	drift := []float64{1, 1}
	s, err := NewDriftSession(ps, start, drift, math.Inf(1), "")
	require.NoError(t, err)

	_, err = s.Run()
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0}, start)
	assert.Equal(t, []float64{1, 1}, drift)
	assert.Equal(t, []float64{0, 0}, s.Trace().Start)
}

func TestNewDriftSession_InvalidArguments(t *testing.T) {
	ps := mustPlaneSet(t, interceptPlanes)

	tests := []struct {
		name    string
		start   []float64
		horizon float64
		level   trace.TraceLevel
		target  error
	}{
		{name: "start too short", start: []float64{0}, horizon: 1, target: ErrDimensionMismatch},
		{name: "negative horizon", start: []float64{0, 0}, horizon: -1, target: ErrInvalidConfig},
		{name: "NaN horizon", start: []float64{0, 0}, horizon: math.NaN(), target: ErrInvalidConfig},
		{name: "unknown trace level", start: []float64{0, 0}, horizon: 1, level: "verbose", target: ErrInvalidConfig},
		{name: "non-finite start", start: []float64{math.Inf(-1), 0}, horizon: 1, target: ErrNonFinite},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDriftSession(ps, tc.start, []float64{1, 1}, tc.horizon, tc.level)
			assert.True(t, errors.Is(err, tc.target), "got %v", err)
		})
	}
}
