package training

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/OldStager01/motortemp/internal/artifacts"
	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/pkg/models"
)

const (
	ModelFileName  = "model.json"
	ScalerFileName = "transform.json"

	// SampleDatasetName is written next to the requested dataset when it is missing
	SampleDatasetName = "sample_dataset.csv"
)

var ErrNotEnoughData = errors.New("not enough rows to train")

type Config struct {
	DataPath      string
	OutputDir     string
	SyntheticRows int
	Seed          uint64
	TestFraction  float64
	Tree          TreeConfig
	Forest        ForestConfig
}

func DefaultConfig() Config {
	return Config{
		DataPath:      "dataset.csv",
		OutputDir:     "artifacts",
		SyntheticRows: DefaultSyntheticRows,
		Seed:          DefaultSeed,
		TestFraction:  0.2,
		Tree:          DefaultTreeConfig(),
		Forest:        DefaultForestConfig(),
	}
}

// Candidate is one fitted model family and its held-out scores.
type Candidate struct {
	Name    string
	Model   artifacts.Regressor
	Metrics models.ModelPerformance
}

type Report struct {
	DatasetPath string
	Synthetic   bool
	RowsLoaded  int
	RowsKept    int
	TrainRows   int
	TestRows    int
	Candidates  []Candidate
	Best        *Candidate
	ModelPath   string
	ScalerPath  string
}

// Run executes the whole pipeline: load or generate data, clean, cap outliers,
// split, scale, fit every family, keep the best by R² and write both artifacts.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	report := &Report{DatasetPath: cfg.DataPath}

	rows, err := LoadDataset(cfg.DataPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		report.Synthetic = true
		report.DatasetPath = filepath.Join(filepath.Dir(cfg.DataPath), SampleDatasetName)
		logger.WithField("path", cfg.DataPath).Warn("Dataset not found, generating sample data")

		rows = GenerateSynthetic(cfg.SyntheticRows, cfg.Seed)
		if err := SaveDataset(report.DatasetPath, rows); err != nil {
			return nil, fmt.Errorf("failed to save sample dataset: %w", err)
		}
	case err != nil:
		return nil, err
	}
	report.RowsLoaded = len(rows)

	rows = Clean(rows)
	report.RowsKept = len(rows)
	logger.WithFields(map[string]interface{}{
		"loaded": report.RowsLoaded,
		"kept":   report.RowsKept,
	}).Info("Dataset preprocessed")

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %d rows after preprocessing", ErrNotEnoughData, len(rows))
	}

	features := make([][]float64, len(rows))
	target := make([]float64, len(rows))
	for i, row := range rows {
		features[i] = row.Features()
		target[i] = row.Target()
	}
	CapOutliers(features, OutlierBounds(features))

	split := TrainTestSplit(features, target, cfg.TestFraction, cfg.Seed)
	report.TrainRows = len(split.TrainX)
	report.TestRows = len(split.TestX)

	scaler, err := artifacts.FitMinMaxScaler(models.FeatureNames(), split.TrainX)
	if err != nil {
		return nil, err
	}
	trainX, err := scaler.TransformAll(split.TrainX)
	if err != nil {
		return nil, err
	}
	testX, err := scaler.TransformAll(split.TestX)
	if err != nil {
		return nil, err
	}

	fitters := []struct {
		name string
		fit  func() (artifacts.Regressor, error)
	}{
		{"Linear Regression", func() (artifacts.Regressor, error) {
			return FitLinear(trainX, split.TrainY)
		}},
		{"Decision Tree", func() (artifacts.Regressor, error) {
			return FitTree(trainX, split.TrainY, cfg.Tree)
		}},
		{"Random Forest", func() (artifacts.Regressor, error) {
			return FitForest(ctx, trainX, split.TrainY, cfg.Forest)
		}},
	}

	for _, f := range fitters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Infof("Training %s", f.name)
		model, err := f.fit()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}

		metrics, err := Evaluate(model, testX, split.TestY)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}

		logger.WithFields(map[string]interface{}{
			"model": f.name,
			"r2":    metrics.R2Score,
			"rmse":  metrics.RMSE,
		}).Info("Model evaluated")

		report.Candidates = append(report.Candidates, Candidate{Name: f.name, Model: model, Metrics: metrics})
	}

	report.Best = selectBest(report.Candidates)

	report.ModelPath = filepath.Join(cfg.OutputDir, ModelFileName)
	report.ScalerPath = filepath.Join(cfg.OutputDir, ScalerFileName)

	metrics := report.Best.Metrics
	file := artifacts.NewModelFile(report.Best.Model, models.FeatureNames(), &metrics)
	if err := artifacts.SaveModel(report.ModelPath, file); err != nil {
		return nil, err
	}
	if err := artifacts.SaveScaler(report.ScalerPath, scaler); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"model":  report.Best.Name,
		"r2":     metrics.R2Score,
		"rmse":   metrics.RMSE,
		"output": cfg.OutputDir,
	}).Info("Best model saved")

	return report, nil
}

// selectBest returns the highest R² candidate. Ties keep the earlier one.
func selectBest(candidates []Candidate) *Candidate {
	var best *Candidate
	for i := range candidates {
		if best == nil || candidates[i].Metrics.R2Score > best.Metrics.R2Score {
			best = &candidates[i]
		}
	}
	return best
}

// PrintSummary writes the per-model score table, marking the saved model.
func (r *Report) PrintSummary(w io.Writer) {
	rule := strings.Repeat("-", 60)
	fmt.Fprintln(w, "Model Performance Summary:")
	fmt.Fprintln(w, rule)

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	for _, c := range r.Candidates {
		marker := " "
		if r.Best != nil && c.Name == r.Best.Name {
			marker = "✓"
		}
		fmt.Fprintf(tw, "%s %s\t| R²: %.4f\t| RMSE: %.4f\n", marker, c.Name, c.Metrics.R2Score, c.Metrics.RMSE)
	}
	tw.Flush()

	fmt.Fprintln(w, rule)
}
