package artifacts

import (
	"errors"
	"fmt"
	"math"

	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/pkg/models"
)

var ErrNotLoaded = errors.New("artifacts not loaded")

type Config struct {
	ScalerPath string
	ModelPath  string
}

// Store holds the fitted scaler and regressor for the process lifetime.
// It is populated once by Load or NewStore and never mutated, so concurrent
// reads need no locking.
type Store struct {
	scaler *MinMaxScaler
	model  Regressor
	meta   *ModelFile

	scalerLoaded bool
	modelLoaded  bool
	loadErr      error
}

// Load reads both artifacts. A failed artifact leaves its flag unset and the
// store usable in degraded mode; the combined load error is returned for logging.
func Load(cfg Config) (*Store, error) {
	s := &Store{}
	var errs []error

	scaler, err := LoadScaler(cfg.ScalerPath)
	if err != nil {
		errs = append(errs, fmt.Errorf("scaler %s: %w", cfg.ScalerPath, err))
	} else {
		s.scaler = scaler
		s.scalerLoaded = true
	}

	meta, model, err := LoadModel(cfg.ModelPath)
	if err != nil {
		errs = append(errs, fmt.Errorf("model %s: %w", cfg.ModelPath, err))
	} else {
		s.meta = meta
		s.model = model
		s.modelLoaded = true
	}

	if s.scalerLoaded && s.modelLoaded && len(s.scaler.DataMin) != len(meta.FeatureNames) && len(meta.FeatureNames) > 0 {
		errs = append(errs, fmt.Errorf("%w: scaler has %d features, model expects %d",
			ErrDimensionMismatch, len(s.scaler.DataMin), len(meta.FeatureNames)))
		s.scalerLoaded = false
		s.modelLoaded = false
	}

	s.loadErr = errors.Join(errs...)
	if s.loadErr != nil {
		logger.WithField("error", s.loadErr.Error()).Error("Failed to load model artifacts")
	} else {
		logger.WithFields(map[string]interface{}{
			"model_type": model.TypeName(),
			"features":   len(scaler.DataMin),
		}).Info("Model and scaler loaded successfully")
	}

	return s, s.loadErr
}

// NewStore builds a store from in-memory artifacts. Nil arguments are reported as not loaded.
func NewStore(scaler *MinMaxScaler, model Regressor) *Store {
	s := &Store{
		scaler:       scaler,
		model:        model,
		scalerLoaded: scaler != nil,
		modelLoaded:  model != nil,
	}
	if model != nil {
		s.meta = NewModelFile(model, models.FeatureNames(), nil)
	}
	return s
}

func (s *Store) ScalerLoaded() bool { return s.scalerLoaded }
func (s *Store) ModelLoaded() bool  { return s.modelLoaded }

// Ready reports whether both artifacts are available for inference.
func (s *Store) Ready() bool {
	return s.scalerLoaded && s.modelLoaded
}

func (s *Store) LoadError() error {
	return s.loadErr
}

// ModelType returns the regressor family name, or "" when no model is loaded.
func (s *Store) ModelType() string {
	if !s.modelLoaded {
		return ""
	}
	return s.model.TypeName()
}

// TrainedMetrics returns the scores recorded by the trainer, if any.
func (s *Store) TrainedMetrics() *models.ModelPerformance {
	if s.meta == nil {
		return nil
	}
	return s.meta.Metrics
}

// Scale runs a feature record through the scaler.
func (s *Store) Scale(record models.FeatureRecord) ([]float64, error) {
	if !s.scalerLoaded {
		return nil, ErrNotLoaded
	}
	return s.scaler.Transform(record.Vector())
}

// Infer runs a scaled vector through the regressor.
func (s *Store) Infer(scaled []float64) (float64, error) {
	if !s.modelLoaded {
		return 0, ErrNotLoaded
	}

	y, err := s.model.Predict(scaled)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: non-finite prediction", ErrInvalidModel)
	}
	return y, nil
}
