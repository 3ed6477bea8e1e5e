package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/OldStager01/motortemp/internal/training"
)

func newTrainCmd() *cobra.Command {
	cfg := training.DefaultConfig()

	c := &cobra.Command{
		Use:   "train",
		Short: "train the candidate models and export the best one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg.Forest.Seed = cfg.Seed

			report, err := training.Run(ctx, cfg)
			if err != nil {
				return err
			}

			report.PrintSummary(cmd.OutOrStdout())
			return nil
		},
	}

	flags := c.Flags()
	flags.StringVar(&cfg.DataPath, "data", cfg.DataPath, "CSV dataset; a synthetic one is generated when missing")
	flags.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory for model.json and transform.json")
	flags.IntVar(&cfg.SyntheticRows, "synthetic-rows", cfg.SyntheticRows, "rows to generate when the dataset is missing")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed for data generation and the train/test split")
	flags.Float64Var(&cfg.TestFraction, "test-fraction", cfg.TestFraction, "share of rows held out for scoring")
	flags.IntVar(&cfg.Forest.Trees, "trees", cfg.Forest.Trees, "random forest size")
	flags.IntVar(&cfg.Forest.Workers, "workers", cfg.Forest.Workers, "parallel tree builders, 0 uses all CPUs")

	return c
}
