package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloud-oracle/cloud-oracle/oracle/synth"
)

var (
	genOutput        string  // Output file; stdout when empty
	genSeed          int64   // Master seed
	genRegions       int     // Regions hosting replicas
	genClientRegions int     // Regions issuing reads and writes
	genRandom        bool    // Uniform random coefficients instead of equal ones
	genCoeffMin      float64 // Lower coefficient bound
	genCoeffMax      float64 // Upper coefficient bound
	genPrecision     string  // Precision recorded in the catalogue
	genBatch         int     // Number of points
	genDim           int     // Point dimension
	genDistribution  string  // Point distribution
)

// generateCmd writes synthetic catalogues and workloads
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic plane catalogues and workload files",
}

var generatePlanesCmd = &cobra.Command{
	Use:   "planes",
	Short: "Generate a catalogue of two-replica placement policies",
	RunE: func(cmd *cobra.Command, args []string) error {
		if genRegions < 2 || genClientRegions < 1 {
			return fmt.Errorf("need at least 2 regions and 1 client region, got %d and %d", genRegions, genClientRegions)
		}
		numPlanes, dim := synth.PlacementShape(genRegions, genClientRegions)
		planes := synth.EqualPlanes(numPlanes, dim+1)
		if genRandom {
			var err error
			rng := synth.NewPartitionedRNG(genSeed).ForSubsystem(synth.SubsystemPlanes)
			if planes, err = synth.UniformPlanes(rng, numPlanes, dim+1, genCoeffMin, genCoeffMax); err != nil {
				return err
			}
		}

		names := make([]string, 0, numPlanes)
		for a := 0; a < genRegions; a++ {
			for b := a + 1; b < genRegions; b++ {
				names = append(names, fmt.Sprintf("r%d+r%d", a, b))
			}
		}
		cat := &Catalogue{Version: "1", Precision: genPrecision, Names: names, Planes: planes}
		return withOutput(cmd, func(w io.Writer) error { return WriteCatalogue(w, cat) })
	},
}

var generatePointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Generate a workload CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !synth.IsValidPointDistribution(genDistribution) {
			return fmt.Errorf("unknown --distribution %q; valid: zero, uniform, exponential", genDistribution)
		}
		if genBatch < 1 || genDim < 0 {
			return fmt.Errorf("--batch must be positive and --dim non-negative, got %d and %d", genBatch, genDim)
		}
		rng := synth.NewPartitionedRNG(genSeed).ForSubsystem(synth.SubsystemPoints)
		points := synth.Points(rng, synth.PointDistribution(genDistribution), genBatch, genDim)
		return withOutput(cmd, func(w io.Writer) error { return WritePoints(w, points) })
	},
}

// withOutput runs write against --output, or the command's stdout when unset.
func withOutput(cmd *cobra.Command, write func(w io.Writer) error) error {
	if genOutput == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(genOutput)
	if err != nil {
		return fmt.Errorf("creating %s: %w", genOutput, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func init() {
	generateCmd.PersistentFlags().StringVarP(&genOutput, "output", "o", "", "Output file (default stdout)")
	generateCmd.PersistentFlags().Int64Var(&genSeed, "seed", 42, "Master seed")

	generatePlanesCmd.Flags().IntVar(&genRegions, "regions", 10, "Regions that can host a replica")
	generatePlanesCmd.Flags().IntVar(&genClientRegions, "client-regions", 5, "Regions issuing reads and writes")
	generatePlanesCmd.Flags().BoolVar(&genRandom, "random", false, "Draw coefficients uniformly instead of 1/width")
	generatePlanesCmd.Flags().Float64Var(&genCoeffMin, "coeff-min", 0, "Lower bound of random coefficients")
	generatePlanesCmd.Flags().Float64Var(&genCoeffMax, "coeff-max", 1, "Upper bound of random coefficients")
	generatePlanesCmd.Flags().StringVar(&genPrecision, "catalogue-precision", "float64", "Precision recorded in the catalogue")

	generatePointsCmd.Flags().IntVar(&genBatch, "batch", 100, "Number of workload points")
	generatePointsCmd.Flags().IntVar(&genDim, "dim", 10, "Workload dimension (2 × client regions)")
	generatePointsCmd.Flags().StringVar(&genDistribution, "distribution", string(synth.PointsUniform), "Point distribution (zero, uniform, exponential)")

	generateCmd.AddCommand(generatePlanesCmd)
	generateCmd.AddCommand(generatePointsCmd)
}
