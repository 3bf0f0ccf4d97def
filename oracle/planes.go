package oracle

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PlaneSet is an immutable, ordered catalogue of affine cost functions.
// Row i holds [c0, c1, ..., cd] with cost_i(x) = c0 + c1*x1 + ... + cd*xd.
//
// Queries never write to the coefficient matrix, so a PlaneSet may be shared
// by any number of goroutines.
type PlaneSet struct {
	cfg    Config
	coeffs *mat.Dense // N × (d+1), already rounded into cfg.Precision
}

// NewPlaneSet validates and copies planes into a PlaneSet using cfg.
// Every row must have the same width (at least 1: the intercept). Coefficients
// are rounded into cfg.Precision and must stay strictly inside its finite range.
func NewPlaneSet(planes [][]float64, cfg Config) (*PlaneSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	if len(planes) == 0 || len(planes[0]) == 0 {
		return nil, ErrEmptyPlaneSet
	}
	width := len(planes[0])
	data := make([]float64, 0, len(planes)*width)
	limit := cfg.Precision.MaxValue()
	for i, p := range planes {
		if len(p) != width {
			return nil, &DimensionMismatchError{Operand: "plane", Index: i, Expected: width, Got: len(p)}
		}
		for j, c := range p {
			if math.IsNaN(c) {
				return nil, nonFinite("plane", i, j, c)
			}
			r := cfg.Precision.Round(c)
			if math.IsInf(r, 0) || math.Abs(r) >= limit {
				return nil, &NumericOverflowError{Plane: i, Coefficient: j, Value: c, Precision: cfg.Precision}
			}
			data = append(data, r)
		}
	}
	return &PlaneSet{cfg: cfg, coeffs: mat.NewDense(len(planes), width, data)}, nil
}

// Len is the number of planes N.
func (ps *PlaneSet) Len() int {
	r, _ := ps.coeffs.Dims()
	return r
}

// Width is the number of coefficients per plane (d+1).
func (ps *PlaneSet) Width() int {
	_, c := ps.coeffs.Dims()
	return c
}

// Dim is the workload dimension d.
func (ps *PlaneSet) Dim() int {
	return ps.Width() - 1
}

// Config returns the session configuration the set was built with.
func (ps *PlaneSet) Config() Config {
	return ps.cfg
}

// Precision returns the working representation of the set.
func (ps *PlaneSet) Precision() Precision {
	return ps.cfg.Precision
}

// Plane returns a copy of the (rounded) coefficients of plane i.
// Plane will panic if i is not in [0, Len()).
func (ps *PlaneSet) Plane(i int) []float64 {
	out := make([]float64, ps.Width())
	copy(out, ps.coeffs.RawRowView(i))
	return out
}

// Planes returns a copy of all coefficients, one row per plane.
func (ps *PlaneSet) Planes() [][]float64 {
	out := make([][]float64, ps.Len())
	for i := range out {
		out[i] = ps.Plane(i)
	}
	return out
}

// Cost evaluates plane i at workload point x (length d) using the same
// reduction as Minimize.
func (ps *PlaneSet) Cost(i int, x []float64) (float64, error) {
	if i < 0 || i >= ps.Len() {
		return 0, outOfRange(i, ps.Len())
	}
	hom, err := ps.homogeneous("workload point", -1, x)
	if err != nil {
		return 0, err
	}
	return ps.cfg.Precision.Round(floats.Dot(ps.coeffs.RawRowView(i), hom)), nil
}

// Subset returns a new PlaneSet holding the given planes in the given order.
func (ps *PlaneSet) Subset(indices []int) (*PlaneSet, error) {
	rows := make([][]float64, len(indices))
	for k, i := range indices {
		if i < 0 || i >= ps.Len() {
			return nil, outOfRange(i, ps.Len())
		}
		rows[k] = ps.Plane(i)
	}
	return NewPlaneSet(rows, ps.cfg)
}

// Append returns a new PlaneSet with extra planes added after the existing ones.
// Existing indices are preserved.
func (ps *PlaneSet) Append(planes [][]float64) (*PlaneSet, error) {
	return NewPlaneSet(append(ps.Planes(), planes...), ps.cfg)
}

// homogeneous lifts x into (1, x1, ..., xd) rounded into the session precision.
func (ps *PlaneSet) homogeneous(operand string, row int, x []float64) ([]float64, error) {
	d := ps.Dim()
	if len(x) != d {
		return nil, &DimensionMismatchError{Operand: operand, Index: row, Expected: d, Got: len(x)}
	}
	hom := make([]float64, d+1)
	if err := ps.fillHomogeneous(hom, operand, row, x); err != nil {
		return nil, err
	}
	return hom, nil
}

func (ps *PlaneSet) fillHomogeneous(hom []float64, operand string, row int, x []float64) error {
	hom[0] = 1
	for k, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nonFinite(operand, row, k, v)
		}
		hom[k+1] = ps.cfg.Precision.Round(v)
	}
	return nil
}

// evaluate writes cost_i(hom) for every plane into dst (len N).
// Each cost is one sequential dot product rounded into the session precision;
// the order of accumulation never depends on batch size or chunking.
func (ps *PlaneSet) evaluate(dst, hom []float64) {
	for i := range dst {
		dst[i] = ps.cfg.Precision.Round(floats.Dot(ps.coeffs.RawRowView(i), hom))
	}
}

// slopes returns the workload-space gradient (c1, ..., cd) of plane i as a view.
func (ps *PlaneSet) slopes(i int) []float64 {
	return ps.coeffs.RawRowView(i)[1:]
}
