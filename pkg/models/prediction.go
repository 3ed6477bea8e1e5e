package models

import "time"

// PredictionResult is the outcome of one inference call
type PredictionResult struct {
	Prediction    float64       `json:"prediction" example:"0.5123"`
	RiskLevel     RiskLevel     `json:"risk_level" example:"normal"`
	Timestamp     time.Time     `json:"timestamp"`
	InputFeatures FeatureRecord `json:"input_features"`
}

func NewPredictionResult(raw float64, features FeatureRecord, at time.Time) *PredictionResult {
	return &PredictionResult{
		Prediction:    Round4(raw),
		RiskLevel:     ClassifyRisk(raw),
		Timestamp:     at,
		InputFeatures: features,
	}
}

// Failure categories reported on batch items, matching the API error codes.
const (
	ErrorCodeValidation = "validation_error"
	ErrorCodeInference  = "inference_error"
)

// BatchItem is the per-sample entry of a batch prediction
type BatchItem struct {
	Success       bool      `json:"success"`
	SampleIndex   int       `json:"sample_index"`
	Prediction    *float64  `json:"prediction,omitempty"`
	RiskLevel     RiskLevel `json:"risk_level,omitempty"`
	Error         string    `json:"error,omitempty"`
	ErrorCode     string    `json:"error_code,omitempty"`
	MissingFields []string  `json:"missing_fields,omitempty"`

	// Result is kept for downstream consumers and never serialised.
	Result *PredictionResult `json:"-"`
}

// BatchResult holds per-sample outcomes in input order
type BatchResult struct {
	TotalSamples int         `json:"total_samples"`
	Predictions  []BatchItem `json:"predictions"`
	Timestamp    time.Time   `json:"timestamp"`
}

// Succeeded counts the items that produced a prediction
func (b *BatchResult) Succeeded() int {
	n := 0
	for _, item := range b.Predictions {
		if item.Success {
			n++
		}
	}
	return n
}

// ModelPerformance holds the reported quality figures of the served model
type ModelPerformance struct {
	R2Score float64 `json:"r2_score" example:"0.96"`
	RMSE    float64 `json:"rmse" example:"0.03"`
}

// PredictionRecord is a persisted prediction as stored in the history table
type PredictionRecord struct {
	ID         int64     `json:"id"`
	TraceID    string    `json:"trace_id,omitempty"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
	Prediction float64   `json:"prediction"`
	RiskLevel  RiskLevel `json:"risk_level"`
	FeatureRecord
}

const (
	SourceSingle = "single"
	SourceBatch  = "batch"
)
