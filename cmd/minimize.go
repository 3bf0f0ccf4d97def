package cmd

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloud-oracle/cloud-oracle/oracle"
)

var (
	planesPath string // Plane catalogue YAML
	pointsPath string // Workload points CSV
)

// loadPlaneSet reads a catalogue and builds its PlaneSet with the CLI config.
func loadPlaneSet(path string) (*Catalogue, *oracle.PlaneSet, error) {
	cat, err := LoadCatalogue(path)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := planeConfig(cat.Precision)
	if err != nil {
		return nil, nil, err
	}
	ps, err := oracle.NewPlaneSet(cat.Planes, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("catalogue %s: %w", path, err)
	}
	logrus.Infof("Loaded %d planes over %d workload dimensions from %s (%s)", ps.Len(), ps.Dim(), path, ps.Precision())
	return cat, ps, nil
}

// minimizeCmd evaluates the lower envelope at every point of a CSV batch
var minimizeCmd = &cobra.Command{
	Use:   "minimize",
	Short: "Find the cheapest placement policy for each workload point",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, ps, err := loadPlaneSet(planesPath)
		if err != nil {
			return err
		}
		points, err := LoadPoints(pointsPath)
		if err != nil {
			return err
		}

		start := time.Now()
		res, err := ps.Minimize(cmd.Context(), points)
		if err != nil {
			return err
		}
		logrus.Infof("Minimized %d points in %v", len(res.Costs), time.Since(start))

		w := csv.NewWriter(cmd.OutOrStdout())
		if err := w.Write([]string{"point", "index", "policy", "cost"}); err != nil {
			return err
		}
		for b := range res.Costs {
			rec := []string{
				strconv.Itoa(b),
				strconv.Itoa(res.Indices[b]),
				cat.Name(res.Indices[b]),
				strconv.FormatFloat(res.Costs[b], 'g', -1, 64),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	},
}

func init() {
	minimizeCmd.Flags().StringVar(&planesPath, "planes", "", "Plane catalogue YAML")
	minimizeCmd.Flags().StringVar(&pointsPath, "points", "", "Workload points CSV (one point per row)")
	_ = minimizeCmd.MarkFlagRequired("planes")
	_ = minimizeCmd.MarkFlagRequired("points")
}
