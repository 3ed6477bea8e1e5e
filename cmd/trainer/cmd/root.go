package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/OldStager01/motortemp/internal/logger"
)

var (
	logLevel string
	logMode  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "trainer",
	Short: "fit and export the motor temperature model",
	Long: `Trainer loads motor telemetry from CSV, cleans it, fits linear, decision tree and
random forest regressors and exports the best one together with its feature scaler
as the artifacts served by the predictor.`,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(logger.Options{Level: logLevel, Mode: logMode, Service: "trainer"})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "development", "log format mode (development uses text output)")

	rootCmd.AddCommand(newTrainCmd(), newGenerateCmd())
}
