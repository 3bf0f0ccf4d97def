package synth

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PointDistribution names a workload sampling scheme.
type PointDistribution string

const (
	PointsZero        PointDistribution = "zero"
	PointsUniform     PointDistribution = "uniform"
	PointsExponential PointDistribution = "exponential"
)

var validPointDistributions = map[PointDistribution]bool{
	PointsZero: true, PointsUniform: true, PointsExponential: true,
}

// IsValidPointDistribution reports whether name is a known distribution.
func IsValidPointDistribution(name string) bool {
	return validPointDistributions[PointDistribution(name)]
}

// Points samples a batch × dim workload matrix. Uniform draws rates from
// [0, 1); exponential draws from Exp(1); zero returns the all-zero batch.
func Points(rng *rand.Rand, dist PointDistribution, batch, dim int) *mat.Dense {
	m := mat.NewDense(batch, dim, nil)
	if dist == PointsZero {
		return m
	}
	for b := 0; b < batch; b++ {
		row := m.RawRowView(b)
		for k := range row {
			if dist == PointsExponential {
				row[k] = rng.ExpFloat64()
			} else {
				row[k] = rng.Float64()
			}
		}
	}
	return m
}

// OnesDrift returns a drift vector of the given width filled with ones.
func OnesDrift(width int) []float64 {
	v := make([]float64, width)
	for i := range v {
		v[i] = 1
	}
	return v
}

// UnitDrift returns a uniformly random direction of unit Euclidean length in R^dim.
func UnitDrift(rng *rand.Rand, dim int) []float64 {
	v := make([]float64, dim)
	if dim == 0 {
		return v
	}
	for {
		for i := range v {
			v[i] = rng.NormFloat64()
		}
		if n := floats.Norm(v, 2); n > 0 && !math.IsInf(n, 0) {
			floats.Scale(1/n, v)
			return v
		}
	}
}
