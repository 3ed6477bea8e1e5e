package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/OldStager01/motortemp/pkg/models"
)

// ModelFile is the on-disk envelope of a fitted regressor.
type ModelFile struct {
	Kind         string                   `json:"kind"`
	FeatureNames []string                 `json:"feature_names"`
	Metrics      *models.ModelPerformance `json:"metrics,omitempty"`
	TrainedAt    time.Time                `json:"trained_at"`

	Linear *LinearRegression `json:"linear,omitempty"`
	Tree   *DecisionTree     `json:"tree,omitempty"`
	Forest *RandomForest     `json:"forest,omitempty"`
}

// Regressor returns the payload matching Kind.
func (f *ModelFile) Regressor() (Regressor, error) {
	var reg Regressor
	switch f.Kind {
	case KindLinearRegression:
		if f.Linear != nil {
			reg = f.Linear
		}
	case KindDecisionTree:
		if f.Tree != nil {
			reg = f.Tree
		}
	case KindRandomForest:
		if f.Forest != nil {
			reg = f.Forest
		}
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", ErrInvalidModel, f.Kind)
	}

	if reg == nil {
		return nil, fmt.Errorf("%w: missing %s payload", ErrInvalidModel, f.Kind)
	}
	return reg, nil
}

// NewModelFile wraps a regressor for saving.
func NewModelFile(reg Regressor, names []string, metrics *models.ModelPerformance) *ModelFile {
	f := &ModelFile{
		Kind:         reg.Kind(),
		FeatureNames: append([]string(nil), names...),
		Metrics:      metrics,
		TrainedAt:    time.Now().UTC(),
	}

	switch m := reg.(type) {
	case *LinearRegression:
		f.Linear = m
	case *DecisionTree:
		f.Tree = m
	case *RandomForest:
		f.Forest = m
	}
	return f
}

func SaveModel(path string, file *ModelFile) error {
	return writeJSON(path, file)
}

// LoadModel reads and validates a model artifact.
func LoadModel(path string) (*ModelFile, Regressor, error) {
	var file ModelFile
	if err := readJSON(path, &file); err != nil {
		return nil, nil, err
	}

	reg, err := file.Regressor()
	if err != nil {
		return nil, nil, err
	}

	features := len(file.FeatureNames)
	if features == 0 {
		features = models.FeatureCount
	}
	if err := reg.Validate(features); err != nil {
		return nil, nil, err
	}

	return &file, reg, nil
}

func SaveScaler(path string, scaler *MinMaxScaler) error {
	return writeJSON(path, scaler)
}

// LoadScaler reads and validates a scaler artifact.
func LoadScaler(path string) (*MinMaxScaler, error) {
	var scaler MinMaxScaler
	if err := readJSON(path, &scaler); err != nil {
		return nil, err
	}
	if err := scaler.Validate(); err != nil {
		return nil, err
	}
	return &scaler, nil
}

func writeJSON(path string, v interface{}) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create artifact directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return os.Rename(tmp, path)
}

func readJSON(path string, v interface{}) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to decode artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}
