package experiment

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-oracle/cloud-oracle/internal/metrics"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func column(t *testing.T, rows [][]string, name string) []string {
	t.Helper()
	for i, h := range rows[0] {
		if h == name {
			out := make([]string, 0, len(rows)-1)
			for _, r := range rows[1:] {
				out = append(out, r[i])
			}
			return out
		}
	}
	t.Fatalf("no column %q", name)
	return nil
}

func TestRunner_Minimization_OneRowPerCombination(t *testing.T) {
	// GIVEN a 2 × 2 sweep
	out := filepath.Join(t.TempDir(), "nested", "minimization.csv")
	e := &Experiment{
		Name: "min", UseCase: UseCaseMinimization, Output: out, Iterations: 2, Warmups: 1,
		Args: Args{Regions: []int{4, 5}, ClientRegions: []int{2}, BatchSize: []int{1, 8}, Threads: []int{2}},
	}
	m, err := metrics.NewQueryMetrics()
	require.NoError(t, err)

	// WHEN run
	r := &Runner{Metrics: m}
	ms, err := r.Run(context.Background(), e)
	require.NoError(t, err)

	// THEN the CSV holds a header and one row per combination
	require.Len(t, ms, 4)
	rows := readCSV(t, out)
	require.Len(t, rows, 5)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"6", "6", "10", "10"}, column(t, rows, "num_planes"))
	assert.Equal(t, []string{"1", "8", "1", "8"}, column(t, rows, "batch_size"))

	// Zero workloads cost the intercept 1/(dim+1) of the equal catalogue.
	assert.InDelta(t, 0.2, ms[0].Result, 1e-12)
	for _, meas := range ms {
		assert.Equal(t, 2, meas.Iterations)
		assert.GreaterOrEqual(t, meas.Elapsed, 0.0)
	}

	// Warmups are not counted as iterations.
	expected := `
# HELP cloud_oracle_experiment_iterations_total Timed experiment iterations completed.
# TYPE cloud_oracle_experiment_iterations_total counter
cloud_oracle_experiment_iterations_total{experiment="min",use_case="minimization"} 8
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "cloud_oracle_experiment_iterations_total"))
}

func TestRunner_Drift(t *testing.T) {
	out := filepath.Join(t.TempDir(), "drift.csv")
	e := &Experiment{
		Name: "drift", UseCase: UseCaseDrift, Output: out, Iterations: 3,
		Args: Args{
			Regions: []int{4}, ClientRegions: []int{2},
			DriftType:    []string{DriftDirected, DriftConservative},
			RandomPlanes: []bool{false, true},
		},
	}

	ms, err := (&Runner{}).Run(context.Background(), e)
	require.NoError(t, err)
	require.Len(t, ms, 4)

	// Equal planes never separate, so no breakpoint exists.
	assert.True(t, math.IsInf(ms[0].Result, 1), "directed, equal planes")
	assert.True(t, math.IsInf(ms[2].Result, 1), "conservative, equal planes")
	// Random planes are generically distinct, so the radius is finite.
	assert.False(t, math.IsInf(ms[3].Result, 1), "conservative, random planes")
	assert.GreaterOrEqual(t, ms[3].Result, 0.0)

	rows := readCSV(t, out)
	assert.Equal(t, []string{"directed", "directed", "conservative", "conservative"}, column(t, rows, "drift_type"))
}

func TestRunner_Simulation(t *testing.T) {
	// GIVEN an alternative whose first half of coefficients is half price
	out := filepath.Join(t.TempDir(), "simulation.csv")
	e := &Experiment{
		Name: "sim", UseCase: UseCaseSimulation, Output: out, Iterations: 1,
		Args: Args{
			Regions: []int{5}, ClientRegions: []int{3}, BatchSize: []int{200},
			Distribution: []string{"uniform"},
			FractionA:    []float64{0.5}, ChangeA: []float64{0.5, 1},
		},
	}
	m, err := metrics.NewQueryMetrics()
	require.NoError(t, err)

	ms, err := (&Runner{Metrics: m}).Run(context.Background(), e)
	require.NoError(t, err)
	require.Len(t, ms, 2)

	// THEN halving prices saves money and an unchanged catalogue saves nothing
	assert.Greater(t, ms[0].Result, 0.0)
	assert.Equal(t, 0.0, ms[1].Result)

	rows := readCSV(t, out)
	results := column(t, rows, "result")
	v, err := strconv.ParseFloat(results[0], 64)
	require.NoError(t, err)
	assert.Equal(t, ms[0].Result, v)
}

func TestRunner_DryRunWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dry.csv")
	e := &Experiment{Name: "dry", UseCase: UseCaseMinimization, Output: out, Args: Args{Regions: []int{4, 6}}}

	ms, err := (&Runner{DryRun: true}).Run(context.Background(), e)
	require.NoError(t, err)
	assert.Nil(t, ms)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunner_RejectsInvalidExperiment(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		exp     Experiment
		dryRun  bool
		wantErr string
	}{
		{
			name:    "unknown use case",
			exp:     Experiment{Name: "typo", UseCase: "minimisation", Output: filepath.Join(dir, "typo.csv"), Args: Args{Regions: []int{4}}},
			wantErr: "unknown use_case",
		},
		{
			name:    "unknown use case in dry run",
			exp:     Experiment{Name: "typo", UseCase: "minimisation", Output: filepath.Join(dir, "dry.csv")},
			dryRun:  true,
			wantErr: "unknown use_case",
		},
		{
			name:    "region count below two",
			exp:     Experiment{Name: "small", UseCase: UseCaseDrift, Output: filepath.Join(dir, "small.csv"), Args: Args{Regions: []int{1}}},
			wantErr: "regions must be at least 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				ms  []Measurement
				err error
			)
			// WHEN an experiment that was never validated is run
			require.NotPanics(t, func() {
				ms, err = (&Runner{DryRun: tt.dryRun}).Run(context.Background(), &tt.exp)
			})

			// THEN it is rejected before any work or output
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, ms)
			_, statErr := os.Stat(tt.exp.Output)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cancelled.csv")
	e := &Experiment{Name: "c", UseCase: UseCaseDrift, Output: out, Iterations: 1}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Runner{}).Run(ctx, e)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_RunFile(t *testing.T) {
	dir := t.TempDir()
	f := &File{Experiments: []Experiment{
		{Name: "a", UseCase: UseCaseMinimization, Output: filepath.Join(dir, "a.csv"), Iterations: 1, Args: Args{Regions: []int{3}}},
		{Name: "b", UseCase: UseCaseDrift, Output: filepath.Join(dir, "b.csv"), Iterations: 1, Args: Args{Regions: []int{3}}},
	}}
	require.NoError(t, f.Validate())

	require.NoError(t, (&Runner{}).RunFile(context.Background(), f))

	assert.Len(t, readCSV(t, filepath.Join(dir, "a.csv")), 2)
	assert.Len(t, readCSV(t, filepath.Join(dir, "b.csv")), 2)
}
