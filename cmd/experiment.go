package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloud-oracle/cloud-oracle/internal/experiment"
	"github.com/cloud-oracle/cloud-oracle/internal/metrics"
)

var (
	experimentConfig string // Experiments YAML
	experimentDryRun bool   // List combinations only
	metricsTextfile  string // Prometheus textfile written after the run
)

// experimentCmd runs benchmark sweeps from a YAML file
var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Run benchmark sweeps over the oracle queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := experiment.LoadFile(experimentConfig)
		if err != nil {
			return err
		}
		m, err := metrics.NewQueryMetrics()
		if err != nil {
			return err
		}

		runner := &experiment.Runner{Metrics: m, DryRun: experimentDryRun}
		if err := runner.RunFile(cmd.Context(), f); err != nil {
			return err
		}

		if metricsTextfile != "" && !experimentDryRun {
			if err := m.WriteTextfile(metricsTextfile); err != nil {
				return err
			}
			logrus.Infof("Wrote metrics to %s", metricsTextfile)
		}
		logrus.Info("Experiments complete.")
		return nil
	},
}

func init() {
	experimentCmd.Flags().StringVar(&experimentConfig, "config", "", "Experiments YAML")
	experimentCmd.Flags().BoolVar(&experimentDryRun, "dry-run", false, "List argument combinations without running them")
	experimentCmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the run")
	_ = experimentCmd.MarkFlagRequired("config")
}
