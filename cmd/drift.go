package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloud-oracle/cloud-oracle/oracle"
	"github.com/cloud-oracle/cloud-oracle/oracle/trace"
)

var (
	driftPoint    []float64 // Workload point (d) or augmented point (d+1)
	driftVector   []float64 // Drift direction (d or d+1)
	driftMode     string    // directed or conservative
	driftHorizon  float64   // Walk distance bound; walking starts when set
	driftMaxSteps int       // Breakpoint budget of a walk
	driftTrace    string    // Trace level of a walk
)

// driftCmd answers how far a workload can drift before the optimal policy changes
var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Distance to the next change of optimal policy along (or around) a workload drift",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, ps, err := loadPlaneSet(planesPath)
		if err != nil {
			return err
		}
		d := ps.Dim()
		if len(driftPoint) != d && len(driftPoint) != d+1 {
			return fmt.Errorf("--point needs %d coordinates, got %d", d, len(driftPoint))
		}
		point := make([]float64, d+1)
		copy(point, driftPoint[:d])
		out := cmd.OutOrStdout()

		switch driftMode {
		case "conservative":
			res, err := ps.StepConservative(point)
			if err != nil {
				return err
			}
			printDriftResult(out, cat, res, "Safety radius")
			return nil
		case "directed":
		default:
			return fmt.Errorf("unknown --mode %q; valid: directed, conservative", driftMode)
		}
		if len(driftVector) == 0 {
			return fmt.Errorf("--drift is required in directed mode")
		}

		walk := cmd.Flags().Changed("horizon") || cmd.Flags().Changed("max-steps")
		if !walk {
			res, err := ps.StepDirected(point, driftVector)
			if err != nil {
				return err
			}
			printDriftResult(out, cat, res, "Drift distance")
			return nil
		}

		if driftMaxSteps > 0 {
			cfg := ps.Config()
			cfg.MaxSteps = driftMaxSteps
			if ps, err = oracle.NewPlaneSet(cat.Planes, cfg); err != nil {
				return err
			}
		}
		session, err := oracle.NewDriftSession(ps, driftPoint, driftVector, driftHorizon, trace.TraceLevel(driftTrace))
		if err != nil {
			return err
		}
		dt, err := session.Run()
		if err != nil {
			return err
		}
		printDriftTrace(out, cat, dt)
		return nil
	},
}

func printDriftResult(w io.Writer, cat *Catalogue, res oracle.DriftResult, label string) {
	fmt.Fprintln(w, "=== Drift Query ===")
	fmt.Fprintf(w, "Current policy       : %d (%s)\n", res.Current, cat.Name(res.Current))
	fmt.Fprintf(w, "Current cost         : %v\n", res.CurrentCost)
	if !res.HasBreakpoint() {
		fmt.Fprintf(w, "%-21s: %v\n", label, math.Inf(1))
		fmt.Fprintln(w, "Next policy          : none")
		return
	}
	fmt.Fprintf(w, "%-21s: %v\n", label, res.Distance)
	fmt.Fprintf(w, "Next policy          : %d (%s)\n", res.Next, cat.Name(res.Next))
	if res.Direction != nil {
		fmt.Fprintf(w, "Tangent drift        : %v\n", res.Direction)
	}
}

func printDriftTrace(w io.Writer, cat *Catalogue, dt *trace.DriftTrace) {
	summary := trace.Summarize(dt)
	fmt.Fprintln(w, "=== Drift Walk ===")
	fmt.Fprintf(w, "Initial policy       : %d (%s)\n", dt.Initial, cat.Name(dt.Initial))
	fmt.Fprintf(w, "Final policy         : %d (%s)\n", dt.Final, cat.Name(dt.Final))
	fmt.Fprintf(w, "Breakpoints          : %d\n", summary.Switches)
	fmt.Fprintf(w, "Distinct policies    : %d\n", summary.DistinctPlanes)
	fmt.Fprintf(w, "Travelled            : %v\n", summary.Travelled)
	fmt.Fprintf(w, "Stopped              : %s\n", summary.Stopped)
	if len(dt.Breakpoints) > 0 {
		fmt.Fprintf(w, "Mean dwell           : %v\n", summary.MeanDwell)
		fmt.Fprintf(w, "Min dwell            : %v\n", summary.MinDwell)
	}
	for _, b := range dt.Breakpoints {
		coords := make([]string, len(b.Point))
		for k, v := range b.Point {
			coords[k] = fmt.Sprint(v)
		}
		fmt.Fprintf(w, "  #%d offset=%v %s -> %s cost=%v at (%s)\n",
			b.Step, b.Offset, cat.Name(b.From), cat.Name(b.To), b.Cost, strings.Join(coords, ", "))
	}
}

func init() {
	driftCmd.Flags().StringVar(&planesPath, "planes", "", "Plane catalogue YAML")
	driftCmd.Flags().Float64SliceVar(&driftPoint, "point", nil, "Comma-separated workload point")
	driftCmd.Flags().Float64SliceVar(&driftVector, "drift", nil, "Comma-separated drift direction (d, or d+1 with a cost component)")
	driftCmd.Flags().StringVar(&driftMode, "mode", "directed", "Drift mode (directed, conservative)")
	driftCmd.Flags().Float64Var(&driftHorizon, "horizon", math.Inf(1), "Walk across breakpoints up to this drift distance")
	driftCmd.Flags().IntVar(&driftMaxSteps, "max-steps", 0, "Walk across at most this many breakpoints (0 = default budget)")
	driftCmd.Flags().StringVar(&driftTrace, "trace", string(trace.TraceLevelBreakpoints), "Walk trace level (none, breakpoints)")
	_ = driftCmd.MarkFlagRequired("planes")
	_ = driftCmd.MarkFlagRequired("point")
}
