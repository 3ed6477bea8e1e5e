package artifacts

import (
	"errors"
	"fmt"
	"math"
)

const KindMinMax = "minmax"

var ErrDimensionMismatch = errors.New("feature dimension mismatch")

// MinMaxScaler maps each feature into [0,1] using the ranges seen at fit time.
type MinMaxScaler struct {
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	DataMin      []float64 `json:"data_min"`
	DataMax      []float64 `json:"data_max"`
}

// FitMinMaxScaler learns per-column ranges from rows.
func FitMinMaxScaler(names []string, rows [][]float64) (*MinMaxScaler, error) {
	if len(rows) == 0 {
		return nil, errors.New("cannot fit scaler on empty data")
	}

	width := len(names)
	s := &MinMaxScaler{
		Kind:         KindMinMax,
		FeatureNames: append([]string(nil), names...),
		DataMin:      make([]float64, width),
		DataMax:      make([]float64, width),
	}
	for j := 0; j < width; j++ {
		s.DataMin[j] = math.Inf(1)
		s.DataMax[j] = math.Inf(-1)
	}

	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d: %w: got %d, want %d", i, ErrDimensionMismatch, len(row), width)
		}
		for j, v := range row {
			s.DataMin[j] = math.Min(s.DataMin[j], v)
			s.DataMax[j] = math.Max(s.DataMax[j], v)
		}
	}

	return s, nil
}

// Transform scales one sample. Constant columns use a unit range.
func (s *MinMaxScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.DataMin) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x), len(s.DataMin))
	}

	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.DataMin[j]) / s.span(j)
	}
	return out, nil
}

// TransformAll scales every row.
func (s *MinMaxScaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}

// Inverse maps a scaled sample back into data units.
func (s *MinMaxScaler) Inverse(x []float64) ([]float64, error) {
	if len(x) != len(s.DataMin) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x), len(s.DataMin))
	}

	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = v*s.span(j) + s.DataMin[j]
	}
	return out, nil
}

func (s *MinMaxScaler) span(j int) float64 {
	span := s.DataMax[j] - s.DataMin[j]
	if span == 0 {
		return 1
	}
	return span
}

func (s *MinMaxScaler) Validate() error {
	if s.Kind != KindMinMax {
		return fmt.Errorf("unsupported scaler kind %q", s.Kind)
	}
	if len(s.DataMin) == 0 || len(s.DataMin) != len(s.DataMax) {
		return errors.New("scaler ranges are empty or uneven")
	}
	if len(s.FeatureNames) != 0 && len(s.FeatureNames) != len(s.DataMin) {
		return errors.New("scaler feature names do not match ranges")
	}
	for j := range s.DataMin {
		if math.IsNaN(s.DataMin[j]) || math.IsNaN(s.DataMax[j]) || s.DataMax[j] < s.DataMin[j] {
			return fmt.Errorf("scaler range %d is invalid", j)
		}
	}
	return nil
}
