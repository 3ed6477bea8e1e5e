package training

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/OldStager01/motortemp/internal/artifacts"
	"github.com/OldStager01/motortemp/pkg/models"
)

// Evaluate scores a regressor on held-out rows with R² and RMSE.
func Evaluate(model artifacts.Regressor, x [][]float64, y []float64) (models.ModelPerformance, error) {
	if len(x) == 0 || len(x) != len(y) {
		return models.ModelPerformance{}, fmt.Errorf("evaluation needs matching non-empty inputs")
	}

	predicted := make([]float64, len(x))
	for i, row := range x {
		v, err := model.Predict(row)
		if err != nil {
			return models.ModelPerformance{}, fmt.Errorf("row %d: %w", i, err)
		}
		predicted[i] = v
	}

	return models.ModelPerformance{
		R2Score: stat.RSquaredFrom(predicted, y, nil),
		RMSE:    rmse(predicted, y),
	}, nil
}

func rmse(predicted, actual []float64) float64 {
	var sum float64
	for i := range predicted {
		d := predicted[i] - actual[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(predicted)))
}
