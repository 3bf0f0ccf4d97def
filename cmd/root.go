package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloud-oracle/cloud-oracle/oracle"
)

// settings resolves the persistent flags, with ORACLE_* environment overrides.
var settings = viper.New()

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Placement cost oracle over affine cost planes",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(settings.GetString("log"))
		if err != nil {
			return fmt.Errorf("invalid log level %q", settings.GetString("log"))
		}
		logrus.SetLevel(level)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("%v", err)
	}
}

// planeConfig builds the query configuration from the persistent flags. A
// catalogue's own precision is used when --precision is left unset.
func planeConfig(catalogue string) (oracle.Config, error) {
	cfg := oracle.DefaultConfig()
	name := settings.GetString("precision")
	if name == "" {
		name = catalogue
	}
	if name != "" {
		prec, err := oracle.ParsePrecision(name)
		if err != nil {
			return cfg, err
		}
		cfg.Precision = prec
	}
	if threads := settings.GetInt("threads"); threads > 0 {
		cfg.Threads = threads
	}
	return cfg, cfg.Validate()
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().String("log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().String("precision", "", "Numeric precision (float16, float32, float64); defaults to the catalogue's")
	rootCmd.PersistentFlags().Int("threads", 0, "Parallel chunks for batched queries (0 = GOMAXPROCS)")

	settings.SetEnvPrefix("ORACLE")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	for _, name := range []string{"log", "precision", "threads"} {
		if err := settings.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			logrus.Fatalf("binding flag %s: %v", name, err)
		}
	}

	rootCmd.AddCommand(minimizeCmd)
	rootCmd.AddCommand(driftCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(experimentCmd)
}
