package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/cloud-oracle/cloud-oracle/internal/metrics"
	"github.com/cloud-oracle/cloud-oracle/oracle"
	"github.com/cloud-oracle/cloud-oracle/oracle/synth"
)

// Workload runs one iteration of a query and returns its headline value:
// the first point's minimal cost (minimization), the drift distance (drift)
// or the median savings (simulation).
type Workload func(ctx context.Context) (float64, error)

// loadFunc prepares the inputs of one combination outside the timed region.
type loadFunc func(c Combination, m *metrics.QueryMetrics) (Workload, error)

var loaders = map[UseCase]loadFunc{
	UseCaseMinimization: loadMinimization,
	UseCaseDrift:        loadDrift,
	UseCaseSimulation:   loadSimulation,
}

// catalogue builds the plane set for a combination. Equal planes tie
// everywhere, which is the worst case for the reduction; random planes draw
// coefficients from [0, 1).
func catalogue(c Combination, regions int, rng *synth.PartitionedRNG) (*oracle.PlaneSet, error) {
	numPlanes, dim := synth.PlacementShape(regions, c.ClientRegions)
	planes := synth.EqualPlanes(numPlanes, dim+1)
	if c.RandomPlanes {
		var err error
		planes, err = synth.UniformPlanes(rng.ForSubsystem(synth.SubsystemPlanes), numPlanes, dim+1, 0, 1)
		if err != nil {
			return nil, err
		}
	}
	return oracle.NewPlaneSet(planes, planeConfig(c))
}

func planeConfig(c Combination) oracle.Config {
	prec, _ := oracle.ParsePrecision(c.Precision) // validated with the experiment
	return oracle.Config{Precision: prec, Threads: c.Threads}
}

func loadMinimization(c Combination, m *metrics.QueryMetrics) (Workload, error) {
	rng := synth.NewPartitionedRNG(c.Seed)
	ps, err := catalogue(c, c.Regions, rng)
	if err != nil {
		return nil, err
	}
	points := synth.Points(rng.ForSubsystem(synth.SubsystemPoints), synth.PointDistribution(c.Distribution), c.BatchSize, ps.Dim())
	precision := ps.Precision().String()

	return func(ctx context.Context) (float64, error) {
		start := time.Now()
		res, err := ps.Minimize(ctx, points)
		if err != nil {
			return 0, err
		}
		if m != nil {
			m.ObserveQuery(metrics.QueryMinimize, precision, time.Since(start), c.BatchSize)
		}
		return res.Costs[0], nil
	}, nil
}

// loadDrift queries from the origin with an all-ones augmented drift, one
// point per iteration.
func loadDrift(c Combination, m *metrics.QueryMetrics) (Workload, error) {
	ps, err := catalogue(c, c.Regions, synth.NewPartitionedRNG(c.Seed))
	if err != nil {
		return nil, err
	}
	point := make([]float64, ps.Width())
	drift := synth.OnesDrift(ps.Width())
	precision := ps.Precision().String()

	query, step := metrics.QueryDirected, func() (oracle.DriftResult, error) { return ps.StepDirected(point, drift) }
	if c.DriftType == DriftConservative {
		query, step = metrics.QueryConservative, func() (oracle.DriftResult, error) { return ps.StepConservative(point) }
	}

	return func(ctx context.Context) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		start := time.Now()
		res, err := step()
		if err != nil {
			return 0, err
		}
		if m != nil {
			m.ObserveQuery(query, precision, time.Since(start), 1)
			m.ObserveDrift(c.DriftType, res.HasBreakpoint())
		}
		return res.Distance, nil
	}, nil
}

// loadSimulation compares a base catalogue over Regions against an
// alternative over RegionsOther whose leading coefficient groups are rescaled.
func loadSimulation(c Combination, m *metrics.QueryMetrics) (Workload, error) {
	rng := synth.NewPartitionedRNG(c.Seed)
	base, err := catalogue(c, c.Regions, rng)
	if err != nil {
		return nil, err
	}
	otherPlanes, _ := synth.PlacementShape(c.RegionsOther, c.ClientRegions)
	altPlanes, err := synth.PlanesWithSavings(synth.EqualPlanes(otherPlanes, base.Width()), synth.PriceChange{
		FractionA: c.FractionA, FractionB: c.FractionB, ChangeA: c.ChangeA, ChangeB: c.ChangeB,
	})
	if err != nil {
		return nil, err
	}
	alt, err := oracle.NewPlaneSet(altPlanes, planeConfig(c))
	if err != nil {
		return nil, err
	}
	points := synth.Points(rng.ForSubsystem(synth.SubsystemPoints), synth.PointDistribution(c.Distribution), c.BatchSize, base.Dim())
	precision := base.Precision().String()

	return func(ctx context.Context) (float64, error) {
		start := time.Now()
		report, err := oracle.Simulate(ctx, base, alt, points, c.Confidence)
		if err != nil {
			return 0, fmt.Errorf("simulating savings: %w", err)
		}
		if m != nil {
			m.ObserveQuery(metrics.QuerySimulate, precision, time.Since(start), c.BatchSize)
		}
		return report.Median, nil
	}, nil
}
