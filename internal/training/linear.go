package training

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/OldStager01/motortemp/internal/artifacts"
	"github.com/OldStager01/motortemp/internal/logger"
)

// FitLinear solves ordinary least squares with an intercept column.
func FitLinear(x [][]float64, y []float64) (*artifacts.LinearRegression, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, errors.New("linear fit needs matching non-empty inputs")
	}

	width := len(x[0])
	design := mat.NewDense(len(x), width+1, nil)
	for i, row := range x {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}

	var beta mat.VecDense
	if err := beta.SolveVec(design, mat.NewVecDense(len(y), append([]float64(nil), y...))); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("least squares solve failed: %w", err)
		}
		logger.WithField("condition", float64(cond)).Warn("Linear fit is ill-conditioned")
	}

	model := &artifacts.LinearRegression{
		Intercept:    beta.AtVec(0),
		Coefficients: make([]float64, width),
	}
	for j := range model.Coefficients {
		model.Coefficients[j] = beta.AtVec(j + 1)
	}
	return model, nil
}
