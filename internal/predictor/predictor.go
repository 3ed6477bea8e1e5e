package predictor

import (
	"errors"
	"time"

	"github.com/OldStager01/motortemp/pkg/models"
	"github.com/OldStager01/motortemp/pkg/validation"
)

// ArtifactStore is the read-only view of the loaded scaler and regressor.
type ArtifactStore interface {
	Ready() bool
	Scale(record models.FeatureRecord) ([]float64, error)
	Infer(scaled []float64) (float64, error)
}

type Config struct {
	// Clock overrides time.Now for result timestamps
	Clock func() time.Time
}

// Predictor turns raw request samples into prediction results.
// It holds no mutable state and is safe for concurrent use.
type Predictor struct {
	store ArtifactStore
	clock func() time.Time
}

func New(store ArtifactStore, cfg Config) *Predictor {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Predictor{
		store: store,
		clock: clock,
	}
}

// Ready reports whether inference can run.
func (p *Predictor) Ready() bool {
	return p.store != nil && p.store.Ready()
}

// Predict validates one raw sample and runs it through the model.
func (p *Predictor) Predict(raw map[string]interface{}) (*models.PredictionResult, error) {
	if !p.Ready() {
		return nil, ErrServiceUnavailable
	}
	return p.predictOne(raw)
}

// PredictBatch runs every sample independently. Per-sample failures are
// recorded in the result and do not stop the batch.
func (p *Predictor) PredictBatch(samples []map[string]interface{}) (*models.BatchResult, error) {
	if !p.Ready() {
		return nil, ErrServiceUnavailable
	}
	if len(samples) == 0 {
		return nil, &ValidationError{Message: "No samples provided", Err: validation.ErrNoSamples}
	}

	batch := &models.BatchResult{
		TotalSamples: len(samples),
		Predictions:  make([]models.BatchItem, 0, len(samples)),
	}

	for idx, sample := range samples {
		result, err := p.predictOne(sample)
		if err != nil {
			batch.Predictions = append(batch.Predictions, failedItem(idx, err))
			continue
		}

		prediction := result.Prediction
		batch.Predictions = append(batch.Predictions, models.BatchItem{
			Success:     true,
			SampleIndex: idx,
			Prediction:  &prediction,
			RiskLevel:   result.RiskLevel,
			Result:      result,
		})
	}

	batch.Timestamp = p.clock()
	return batch, nil
}

func (p *Predictor) predictOne(raw map[string]interface{}) (*models.PredictionResult, error) {
	if raw == nil {
		return nil, &ValidationError{Message: "sample must be a JSON object", Err: validation.ErrInvalidInput}
	}

	record, err := validation.ParseFeatures(raw)
	if err != nil {
		return nil, newValidationError(err)
	}

	scaled, err := p.store.Scale(record)
	if err != nil {
		return nil, &InferenceError{Err: err}
	}

	y, err := p.store.Infer(scaled)
	if err != nil {
		return nil, &InferenceError{Err: err}
	}

	return models.NewPredictionResult(y, record, p.clock()), nil
}

func failedItem(idx int, err error) models.BatchItem {
	item := models.BatchItem{
		Success:     false,
		SampleIndex: idx,
		Error:       err.Error(),
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		item.ErrorCode = models.ErrorCodeValidation
		item.MissingFields = ve.MissingFields
	} else {
		item.ErrorCode = models.ErrorCodeInference
		item.Error = "prediction failed"
	}
	return item
}
