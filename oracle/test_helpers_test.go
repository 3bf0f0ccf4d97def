package oracle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/cloud-oracle/cloud-oracle/oracle/synth"
)

// mustPlaneSet builds a float64 PlaneSet or fails the test.
func mustPlaneSet(t *testing.T, planes [][]float64) *PlaneSet {
	t.Helper()
	ps, err := NewPlaneSet(planes, Config{Precision: Float64})
	require.NoError(t, err)
	return ps
}

// randomPlaneSet returns n uniform random planes over a d-dimensional workload.
func randomPlaneSet(t *testing.T, seed int64, n, d int) *PlaneSet {
	t.Helper()
	return randomPlaneSetIn(t, Float64, seed, n, d)
}

// randomPlaneSetIn is randomPlaneSet in the given working precision.
func randomPlaneSetIn(t *testing.T, prec Precision, seed int64, n, d int) *PlaneSet {
	t.Helper()
	rng := synth.NewPartitionedRNG(seed).ForSubsystem(synth.SubsystemPlanes)
	planes, err := synth.UniformPlanes(rng, n, d+1, 0, 1)
	require.NoError(t, err)
	ps, err := NewPlaneSet(planes, Config{Precision: prec})
	require.NoError(t, err)
	return ps
}

// augment returns x with a trailing zero cost coordinate.
func augment(x []float64) []float64 {
	return append(append([]float64(nil), x...), 0)
}

func batchOf(points ...[]float64) *mat.Dense {
	m := mat.NewDense(len(points), len(points[0]), nil)
	for i, p := range points {
		m.SetRow(i, p)
	}
	return m
}

// approxLE reports a <= b up to a relative tolerance.
func approxLE(a, b float64) bool {
	return a <= b+1e-9*math.Max(1, math.Abs(b))
}
