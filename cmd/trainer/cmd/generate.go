package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/internal/training"
)

func newGenerateCmd() *cobra.Command {
	var (
		rows int
		seed uint64
		out  string
	)

	c := &cobra.Command{
		Use:   "generate",
		Short: "write a synthetic motor dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows <= 0 {
				return fmt.Errorf("--rows must be positive, got %d", rows)
			}

			if err := training.SaveDataset(out, training.GenerateSynthetic(rows, seed)); err != nil {
				return err
			}

			logger.WithFields(map[string]interface{}{
				"rows": rows,
				"path": out,
			}).Info("Sample dataset created")
			return nil
		},
	}

	c.Flags().IntVar(&rows, "rows", training.DefaultSyntheticRows, "number of rows")
	c.Flags().Uint64Var(&seed, "seed", training.DefaultSeed, "generator seed")
	c.Flags().StringVar(&out, "out", training.SampleDatasetName, "output CSV path")

	return c
}
