package oracle

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MinimizeResult holds, per workload point, the lower-envelope cost and the
// index of the plane attaining it.
type MinimizeResult struct {
	Costs   []float64
	Indices []int
}

// rowViewer is satisfied by *mat.Dense and lets Minimize read rows without copying.
type rowViewer interface {
	RawRowView(i int) []float64
}

// Minimize evaluates the lower envelope of the plane set at every row of points
// (shape B × d). Exact ties resolve to the lowest plane index, identically for
// every batch size, chunk size and thread count.
//
// The batch is split into chunks of Config.ChunkSize rows that run concurrently,
// at most Config.Threads at a time. Cancelling ctx stops scheduling new chunks.
func (ps *PlaneSet) Minimize(ctx context.Context, points mat.Matrix) (*MinimizeResult, error) {
	rows, cols := points.Dims()
	if rows == 0 {
		return nil, ErrEmptyBatch
	}
	if cols != ps.Dim() {
		return nil, &DimensionMismatchError{Operand: "workload batch", Index: -1, Expected: ps.Dim(), Got: cols}
	}

	res := &MinimizeResult{
		Costs:   make([]float64, rows),
		Indices: make([]int, rows),
	}

	chunk := ps.cfg.ChunkSize
	if rows <= chunk || ps.cfg.Threads == 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := ps.minimizeRange(points, 0, rows, res); err != nil {
			return nil, err
		}
		return res, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ps.cfg.Threads)
	for start := 0; start < rows; start += chunk {
		if gctx.Err() != nil {
			break
		}
		start := start // per-iteration copy (pre-Go 1.22 loop semantics)
		end := min(start+chunk, rows)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return ps.minimizeRange(points, start, end, res)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// MinimizePoint is Minimize for a single workload point.
func (ps *PlaneSet) MinimizePoint(x []float64) (cost float64, index int, err error) {
	hom, err := ps.homogeneous("workload point", -1, x)
	if err != nil {
		return 0, 0, err
	}
	costs := make([]float64, ps.Len())
	ps.evaluate(costs, hom)
	index = floats.MinIdx(costs)
	return costs[index], index, nil
}

// minimizeRange fills res for rows [start, end). Each call owns its scratch
// buffers and writes a disjoint slice of res.
func (ps *PlaneSet) minimizeRange(points mat.Matrix, start, end int, res *MinimizeResult) error {
	d := ps.Dim()
	hom := make([]float64, d+1)
	costs := make([]float64, ps.Len())
	viewer, raw := points.(rowViewer)
	var row []float64
	if !raw {
		row = make([]float64, d)
	}
	for b := start; b < end; b++ {
		if raw {
			row = viewer.RawRowView(b)
		} else {
			mat.Row(row, b, points)
		}
		if err := ps.fillHomogeneous(hom, "workload point", b, row); err != nil {
			return err
		}
		ps.evaluate(costs, hom)
		idx := floats.MinIdx(costs)
		res.Costs[b] = costs[idx]
		res.Indices[b] = idx
	}
	return nil
}
