package training

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/motortemp/internal/artifacts"
	"github.com/OldStager01/motortemp/pkg/models"
)

func row(values ...float64) *Row {
	return &Row{
		Ambient:    Reading(values[0]),
		Coolant:    Reading(values[1]),
		UD:         Reading(values[2]),
		UQ:         Reading(values[3]),
		MotorSpeed: Reading(values[4]),
		ID:         Reading(values[5]),
		IQ:         Reading(values[6]),
		PM:         Reading(values[7]),
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		row  *Row
		keep bool
	}{
		{name: "valid", row: row(25, 20, 1, 2, 1500, 3, 4, 0.5), keep: true},
		{name: "zero values", row: row(0, 0, 0, 0, 0, 0, 0, 0), keep: true},
		{name: "negative feature", row: row(25, 20, -1, 2, 1500, 3, 4, 0.5)},
		{name: "negative target", row: row(25, 20, 1, 2, 1500, 3, 4, -0.1)},
		{name: "missing value", row: row(25, math.NaN(), 1, 2, 1500, 3, 4, 0.5)},
		{name: "nil row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept := Clean([]*Row{tt.row})
			if tt.keep {
				assert.Len(t, kept, 1)
			} else {
				assert.Empty(t, kept)
			}
		})
	}
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	content := "profile_id,ambient,coolant,u_d,u_q,motor_speed,i_d,i_q,pm,torque\n" +
		"1,25.5,22.3,0.45,0.38,1500,12.5,15.2,0.61,3.1\n" +
		"1,24.0,,0.40,0.30,1200,10.0,11.0,0.55,2.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []float64{25.5, 22.3, 0.45, 0.38, 1500, 12.5, 15.2}, rows[0].Features())
	assert.Equal(t, 0.61, rows[0].Target())
	assert.True(t, math.IsNaN(float64(rows[1].Coolant)))
	assert.Len(t, Clean(rows), 1)
}

func TestLoadDataset_Missing(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveDataset_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.csv")
	rows := GenerateSynthetic(25, 7)

	require.NoError(t, SaveDataset(path, rows))
	loaded, err := LoadDataset(path)
	require.NoError(t, err)

	require.Len(t, loaded, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i].values(), loaded[i].values())
	}
}

func TestGenerateSynthetic(t *testing.T) {
	rows := GenerateSynthetic(2000, DefaultSeed)
	require.Len(t, rows, 2000)

	minPM, maxPM := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		assert.GreaterOrEqual(t, float64(r.Ambient), 15.0)
		assert.LessOrEqual(t, float64(r.Ambient), 35.0)
		assert.Less(t, float64(r.Coolant), float64(r.Ambient))
		assert.GreaterOrEqual(t, float64(r.MotorSpeed), 0.0)
		assert.LessOrEqual(t, float64(r.MotorSpeed), maxMotorSpeed)
		assert.LessOrEqual(t, math.Abs(float64(r.ID)), 50.0)

		minPM = math.Min(minPM, float64(r.PM))
		maxPM = math.Max(maxPM, float64(r.PM))
	}
	assert.InDelta(t, 0.0, minPM, 1e-12)
	assert.InDelta(t, 1.0, maxPM, 1e-12)

	again := GenerateSynthetic(2000, DefaultSeed)
	assert.Equal(t, rows[0].values(), again[0].values())
	assert.Equal(t, rows[1999].values(), again[1999].values())

	assert.Nil(t, GenerateSynthetic(0, DefaultSeed))
}

func TestOutlierCapping(t *testing.T) {
	features := make([][]float64, 0, 10)
	for i := 1; i <= 9; i++ {
		features = append(features, []float64{float64(i), 5})
	}
	features = append(features, []float64{1000, 5})

	bounds := OutlierBounds(features)
	require.Len(t, bounds, 2)
	assert.Equal(t, Bounds{Lower: 5, Upper: 5}, bounds[1])

	CapOutliers(features, bounds)

	// Q1 3.25, Q3 7.75, IQR 4.5
	assert.Equal(t, Bounds{Lower: -3.5, Upper: 14.5}, bounds[0])
	assert.Equal(t, 14.5, features[9][0])
	for i := 0; i < 9; i++ {
		assert.Equal(t, float64(i+1), features[i][0], "inlier %d changed", i)
	}

	assert.Nil(t, OutlierBounds(nil))
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name     string
		p        float64
		sorted   []float64
		expected float64
	}{
		{name: "lower quartile", p: 0.25, sorted: []float64{1, 2, 3, 4}, expected: 1.75},
		{name: "upper quartile", p: 0.75, sorted: []float64{1, 2, 3, 4}, expected: 3.25},
		{name: "median even", p: 0.5, sorted: []float64{1, 2, 3, 4}, expected: 2.5},
		{name: "exact order statistic", p: 0.25, sorted: []float64{1, 2, 3, 4, 100}, expected: 2},
		{name: "single value", p: 0.75, sorted: []float64{7}, expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, quantile(tt.p, tt.sorted), 1e-12)
		})
	}
}

func TestOutlierBounds_SmallColumn(t *testing.T) {
	features := [][]float64{{4}, {1}, {100}, {3}, {2}}

	bounds := OutlierBounds(features)

	require.Len(t, bounds, 1)
	assert.Equal(t, Bounds{Lower: -1, Upper: 7}, bounds[0])
}

func TestTrainTestSplit(t *testing.T) {
	x := make([][]float64, 100)
	y := make([]float64, 100)
	for i := range x {
		x[i] = []float64{float64(i)}
		y[i] = float64(i)
	}

	split := TrainTestSplit(x, y, 0.2, DefaultSeed)
	assert.Len(t, split.TrainX, 80)
	assert.Len(t, split.TestX, 20)
	assert.Len(t, split.TrainY, 80)
	assert.Len(t, split.TestY, 20)

	seen := make(map[float64]bool)
	for _, row := range append(split.TrainX, split.TestX...) {
		seen[row[0]] = true
	}
	assert.Len(t, seen, 100)

	for i, row := range split.TestX {
		assert.Equal(t, row[0], split.TestY[i])
	}

	again := TrainTestSplit(x, y, 0.2, DefaultSeed)
	assert.Equal(t, split.TestY, again.TestY)
}

func TestFitLinear(t *testing.T) {
	x := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0.5, 0.25}, {0.2, 0.9}}
	y := make([]float64, len(x))
	for i, row := range x {
		y[i] = 0.5 + 2*row[0] - row[1]
	}

	model, err := FitLinear(x, y)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, model.Intercept, 1e-9)
	assert.InDelta(t, 2.0, model.Coefficients[0], 1e-9)
	assert.InDelta(t, -1.0, model.Coefficients[1], 1e-9)

	_, err = FitLinear(nil, nil)
	assert.Error(t, err)
}

func stepData(n int) ([][]float64, []float64) {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		v := float64(i) / float64(n)
		x[i] = []float64{v, 0.5}
		if v >= 0.5 {
			y[i] = 1
		}
	}
	return x, y
}

func TestFitTree(t *testing.T) {
	x, y := stepData(100)

	tree, err := FitTree(x, y, DefaultTreeConfig())
	require.NoError(t, err)
	require.NoError(t, tree.Validate(2))

	root := tree.Nodes[0]
	assert.False(t, root.Leaf)
	assert.Equal(t, 0, root.Feature)
	assert.Equal(t, 1, tree.Depth())

	for i, row := range x {
		got, err := tree.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, y[i], got)
	}
}

func TestFitTree_Limits(t *testing.T) {
	x := make([][]float64, 200)
	y := make([]float64, 200)
	for i := range x {
		v := float64(i) / 200
		x[i] = []float64{v}
		y[i] = math.Sin(6 * v)
	}

	tests := []struct {
		name string
		cfg  TreeConfig
	}{
		{name: "shallow", cfg: TreeConfig{MaxDepth: 3, MinSamplesSplit: 2, MinSamplesLeaf: 1}},
		{name: "large leaves", cfg: TreeConfig{MaxDepth: 15, MinSamplesSplit: 10, MinSamplesLeaf: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := FitTree(x, y, tt.cfg)
			require.NoError(t, err)

			assert.LessOrEqual(t, tree.Depth(), tt.cfg.MaxDepth)
			for _, n := range tree.Nodes {
				if n.Leaf {
					assert.GreaterOrEqual(t, n.Samples, tt.cfg.MinSamplesLeaf)
				}
			}
		})
	}
}

func TestFitTree_ConstantTarget(t *testing.T) {
	x, _ := stepData(50)
	y := make([]float64, 50)

	tree, err := FitTree(x, y, DefaultTreeConfig())
	require.NoError(t, err)

	require.Len(t, tree.Nodes, 1)
	assert.True(t, tree.Nodes[0].Leaf)
}

func TestFitForest(t *testing.T) {
	x, y := stepData(120)
	cfg := ForestConfig{Trees: 8, Seed: DefaultSeed, Workers: 3, Tree: DefaultTreeConfig()}

	forest, err := FitForest(context.Background(), x, y, cfg)
	require.NoError(t, err)
	require.Len(t, forest.Trees, 8)
	require.NoError(t, forest.Validate(2))

	again, err := FitForest(context.Background(), x, y, ForestConfig{Trees: 8, Seed: DefaultSeed, Workers: 1, Tree: DefaultTreeConfig()})
	require.NoError(t, err)

	for _, row := range [][]float64{{0.1, 0.5}, {0.49, 0.5}, {0.9, 0.5}} {
		a, err := forest.Predict(row)
		require.NoError(t, err)
		b, err := again.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestFitForest_Cancelled(t *testing.T) {
	x, y := stepData(40)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FitForest(ctx, x, y, ForestConfig{Trees: 4})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate(t *testing.T) {
	model := &artifacts.LinearRegression{Coefficients: []float64{1}, Intercept: 0}
	x := [][]float64{{0.1}, {0.4}, {0.9}}

	perfect, err := Evaluate(model, x, []float64{0.1, 0.4, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, perfect.R2Score, 1e-12)
	assert.InDelta(t, 0.0, perfect.RMSE, 1e-12)

	off, err := Evaluate(model, x, []float64{0.2, 0.5, 1.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, off.RMSE, 1e-12)
	assert.Less(t, off.R2Score, 1.0)

	_, err = Evaluate(model, nil, nil)
	assert.Error(t, err)
}

func TestSelectBest(t *testing.T) {
	candidates := []Candidate{
		{Name: "a", Metrics: models.ModelPerformance{R2Score: 0.7}},
		{Name: "b", Metrics: models.ModelPerformance{R2Score: 0.9}},
		{Name: "c", Metrics: models.ModelPerformance{R2Score: 0.9}},
	}

	assert.Equal(t, "b", selectBest(candidates).Name)
	assert.Nil(t, selectBest(nil))
}

func smallConfig(dir string) Config {
	cfg := DefaultConfig()
	cfg.DataPath = filepath.Join(dir, "dataset.csv")
	cfg.OutputDir = filepath.Join(dir, "artifacts")
	cfg.SyntheticRows = 3000
	cfg.Forest.Trees = 5
	return cfg
}

func TestRun_SyntheticFallback(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig(dir)

	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, report.Synthetic)
	assert.FileExists(t, filepath.Join(dir, SampleDatasetName))
	assert.Equal(t, 3000, report.RowsLoaded)
	assert.Less(t, report.RowsKept, report.RowsLoaded)
	assert.Equal(t, report.RowsKept, report.TrainRows+report.TestRows)

	require.Len(t, report.Candidates, 3)
	require.NotNil(t, report.Best)
	for _, c := range report.Candidates {
		assert.LessOrEqual(t, c.Metrics.R2Score, report.Best.Metrics.R2Score)
	}

	store, err := artifacts.Load(artifacts.Config{ScalerPath: report.ScalerPath, ModelPath: report.ModelPath})
	require.NoError(t, err)
	assert.True(t, store.Ready())
	assert.Equal(t, report.Best.Model.TypeName(), store.ModelType())
	require.NotNil(t, store.TrainedMetrics())
	assert.Equal(t, report.Best.Metrics, *store.TrainedMetrics())

	var out bytes.Buffer
	report.PrintSummary(&out)
	assert.Contains(t, out.String(), "✓ "+report.Best.Name)
	assert.Contains(t, out.String(), "Linear Regression")
}

func TestRun_NotEnoughData(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig(dir)

	content := "ambient,coolant,u_d,u_q,motor_speed,i_d,i_q,pm\n" +
		"25,20,-1,1,1000,1,1,0.5\n" +
		"25,20,1,1,1000,1,1,-0.5\n"
	require.NoError(t, os.WriteFile(cfg.DataPath, []byte(content), 0o644))

	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrNotEnoughData)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, ModelFileName))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, smallConfig(t.TempDir()))
	assert.ErrorIs(t, err, context.Canceled)
}
