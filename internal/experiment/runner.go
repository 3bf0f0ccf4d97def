package experiment

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cloud-oracle/cloud-oracle/internal/metrics"
)

// Runner executes experiments. Metrics may be nil.
type Runner struct {
	Metrics *metrics.QueryMetrics
	// DryRun logs the combinations of each experiment without loading or timing them.
	DryRun bool
}

// RunFile runs every experiment in order and stops at the first failure.
func (r *Runner) RunFile(ctx context.Context, f *File) error {
	for i := range f.Experiments {
		if _, err := r.Run(ctx, &f.Experiments[i]); err != nil {
			return fmt.Errorf("experiment %s: %w", f.Experiments[i].Name, err)
		}
	}
	return nil
}

// Run times every combination of e. After each combination the full result
// set so far is rewritten to e.Output, so an interrupted sweep keeps its
// completed rows.
func (r *Runner) Run(ctx context.Context, e *Experiment) ([]Measurement, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("experiment %q: %w", e.Name, err)
	}
	combos := e.Expand()
	if r.DryRun {
		logrus.Infof("[dry-run] %s (%s): %d combinations -> %s", e.Name, e.UseCase, len(combos), e.Output)
		for i, c := range combos {
			numPlanes, dim := c.Shape()
			logrus.Infof("[dry-run]   #%d planes=%d dim=%d %+v", i, numPlanes, dim, c)
		}
		return nil, nil
	}

	if dir := filepath.Dir(e.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	load := loaders[e.UseCase]
	iterations := e.iterations()
	measurements := make([]Measurement, 0, len(combos))
	for i, c := range combos {
		logrus.Infof("%s [%d/%d]: %+v", e.Name, i+1, len(combos), c)

		workload, err := load(c, r.Metrics)
		if err != nil {
			return measurements, fmt.Errorf("loading combination %d: %w", i, err)
		}
		if _, _, err := runIterations(ctx, workload, e.Warmups); err != nil {
			return measurements, fmt.Errorf("warmup of combination %d: %w", i, err)
		}
		elapsed, result, err := runIterations(ctx, workload, iterations)
		if err != nil {
			return measurements, fmt.Errorf("combination %d: %w", i, err)
		}
		if r.Metrics != nil {
			for n := 0; n < iterations; n++ {
				r.Metrics.ObserveIteration(e.Name, string(e.UseCase))
			}
		}

		seconds := elapsed.Seconds()
		measurements = append(measurements, Measurement{
			Experiment:       e.Name,
			UseCase:          e.UseCase,
			Combination:      c,
			Iterations:       iterations,
			Elapsed:          seconds,
			TimePerIteration: seconds / float64(iterations),
			Result:           result,
		})
		logrus.Debugf("%s [%d/%d]: %.6fs per iteration", e.Name, i+1, len(combos), seconds/float64(iterations))

		if err := writeCSV(e.Output, measurements); err != nil {
			return measurements, err
		}
	}
	logrus.Infof("%s: wrote %d rows to %s", e.Name, len(measurements), e.Output)
	return measurements, nil
}

// runIterations calls workload n times and returns the total wall time and
// the last iteration's value.
func runIterations(ctx context.Context, workload Workload, n int) (time.Duration, float64, error) {
	var result float64
	start := time.Now()
	for i := 0; i < n; i++ {
		v, err := workload(ctx)
		if err != nil {
			return 0, 0, err
		}
		result = v
	}
	return time.Since(start), result, nil
}

// writeCSV always overwrites path with a header and one row per measurement.
func writeCSV(path string, measurements []Measurement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing results header: %w", err)
	}
	for _, m := range measurements {
		if err := w.Write(m.record()); err != nil {
			_ = f.Close()
			return fmt.Errorf("writing results row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flushing results: %w", err)
	}
	return f.Close()
}
