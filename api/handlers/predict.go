package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/motortemp/api/middleware"
	"github.com/OldStager01/motortemp/internal/events"
	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/internal/metrics"
	"github.com/OldStager01/motortemp/internal/predictor"
	"github.com/OldStager01/motortemp/pkg/config"
	"github.com/OldStager01/motortemp/pkg/models"
)

type Predictor interface {
	Ready() bool
	Predict(raw map[string]interface{}) (*models.PredictionResult, error)
	PredictBatch(samples []map[string]interface{}) (*models.BatchResult, error)
}

// ModelDescriber exposes the loaded regressor for /model-info
type ModelDescriber interface {
	ModelLoaded() bool
	ModelType() string
	TrainedMetrics() *models.ModelPerformance
}

type PredictionHandler struct {
	predictor Predictor
	model     ModelDescriber
	publisher *events.Publisher
	config    config.ModelConfig
}

func NewPredictionHandler(p Predictor, model ModelDescriber, publisher *events.Publisher, cfg config.ModelConfig) *PredictionHandler {
	return &PredictionHandler{
		predictor: p,
		model:     model,
		publisher: publisher,
		config:    cfg,
	}
}

// PredictRequest documents the single-sample body. Values may be numbers or numeric strings.
type PredictRequest struct {
	Ambient    float64 `json:"ambient" example:"25.5"`
	Coolant    float64 `json:"coolant" example:"22.3"`
	UD         float64 `json:"u_d" example:"0.45"`
	UQ         float64 `json:"u_q" example:"0.38"`
	MotorSpeed float64 `json:"motor_speed" example:"1500"`
	ID         float64 `json:"i_d" example:"12.5"`
	IQ         float64 `json:"i_q" example:"15.2"`
}

type PredictResponse struct {
	Success bool `json:"success" example:"true"`
	*models.PredictionResult
}

type BatchPredictRequest struct {
	Samples []PredictRequest `json:"samples"`
}

type BatchPredictResponse struct {
	Success bool `json:"success" example:"true"`
	*models.BatchResult
}

type ModelInfoResponse struct {
	Success        bool                     `json:"success" example:"true"`
	ModelType      string                   `json:"model_type" example:"DecisionTreeRegressor"`
	Features       []string                 `json:"features"`
	Target         string                   `json:"target" example:"permanent_magnet_temperature"`
	Performance    models.ModelPerformance  `json:"performance"`
	TrainedMetrics *models.ModelPerformance `json:"trained_metrics,omitempty"`
}

// Predict godoc
// @Summary Predict magnet temperature
// @Description Predicts the normalized permanent magnet temperature for one telemetry sample
// @Tags Prediction
// @Accept json
// @Produce json
// @Param request body PredictRequest true "Telemetry sample"
// @Success 200 {object} PredictResponse
// @Failure 400 {object} ErrorResponse "Missing or invalid fields"
// @Failure 500 {object} ErrorResponse "Model not loaded or inference failed"
// @Router /predict [post]
func (h *PredictionHandler) Predict(c *gin.Context) {
	if !h.predictor.Ready() {
		respondError(c, http.StatusInternalServerError, CodeServiceUnavailable, "Model not loaded")
		return
	}

	raw, err := decodeObject(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, "Request body must be a JSON object")
		return
	}

	result, err := h.predictor.Predict(raw)
	if err != nil {
		h.handlePredictError(c, models.SourceSingle, err)
		return
	}

	metrics.Get().ObservePrediction(models.SourceSingle, string(result.RiskLevel), result.Prediction)
	h.publisher.WithTraceID(middleware.GetTraceID(c)).PredictionMade(result)

	c.JSON(http.StatusOK, PredictResponse{Success: true, PredictionResult: result})
}

// BatchPredict godoc
// @Summary Batch prediction
// @Description Predicts every sample independently. Failed samples are reported per item.
// @Tags Prediction
// @Accept json
// @Produce json
// @Param request body BatchPredictRequest true "Samples"
// @Success 200 {object} BatchPredictResponse
// @Failure 400 {object} ErrorResponse "No samples provided"
// @Failure 500 {object} ErrorResponse "Model not loaded"
// @Router /batch-predict [post]
func (h *PredictionHandler) BatchPredict(c *gin.Context) {
	if !h.predictor.Ready() {
		respondError(c, http.StatusInternalServerError, CodeServiceUnavailable, "Model not loaded")
		return
	}

	body, err := decodeObject(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, "Request body must be a JSON object")
		return
	}

	list, ok := body["samples"].([]interface{})
	if !ok || len(list) == 0 {
		metrics.Get().IncValidationFailure(models.SourceBatch)
		respondError(c, http.StatusBadRequest, CodeValidation, "No samples provided")
		return
	}

	samples := make([]map[string]interface{}, len(list))
	for i, item := range list {
		// Non-object items stay nil and fail individually.
		if m, ok := item.(map[string]interface{}); ok {
			samples[i] = m
		}
	}

	result, err := h.predictor.PredictBatch(samples)
	if err != nil {
		h.handlePredictError(c, models.SourceBatch, err)
		return
	}

	m := metrics.Get()
	m.ObserveBatchSize(result.TotalSamples)
	for _, item := range result.Predictions {
		switch {
		case item.Success:
			m.ObservePrediction(models.SourceBatch, string(item.RiskLevel), *item.Prediction)
		case item.ErrorCode == models.ErrorCodeInference:
			m.IncInferenceError(models.SourceBatch)
		default:
			m.IncValidationFailure(models.SourceBatch)
		}
	}
	h.publisher.WithTraceID(middleware.GetTraceID(c)).BatchCompleted(result)

	c.JSON(http.StatusOK, BatchPredictResponse{Success: true, BatchResult: result})
}

// ModelInfo godoc
// @Summary Model information
// @Description Describes the served regressor and its reported performance
// @Tags Model
// @Produce json
// @Success 200 {object} ModelInfoResponse
// @Failure 500 {object} ErrorResponse "Model not loaded"
// @Router /model-info [get]
func (h *PredictionHandler) ModelInfo(c *gin.Context) {
	if h.model == nil || !h.model.ModelLoaded() {
		respondError(c, http.StatusInternalServerError, CodeServiceUnavailable, "Model not loaded")
		return
	}

	target := h.config.Target
	if target == "" {
		target = models.TargetName
	}

	c.JSON(http.StatusOK, ModelInfoResponse{
		Success:   true,
		ModelType: h.model.ModelType(),
		Features:  models.FeatureNames(),
		Target:    target,
		Performance: models.ModelPerformance{
			R2Score: h.config.Performance.R2Score,
			RMSE:    h.config.Performance.RMSE,
		},
		TrainedMetrics: h.model.TrainedMetrics(),
	})
}

var errNotObject = errors.New("request body is not a JSON object")

// decodeObject reads the body as a JSON object. Numbers stay json.Number so
// out-of-range literals surface as field validation errors instead of a
// malformed body.
func decodeObject(c *gin.Context) (map[string]interface{}, error) {
	if c.Request.Body == nil {
		return nil, errNotObject
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNotObject
	}
	return obj, nil
}

func (h *PredictionHandler) handlePredictError(c *gin.Context, source string, err error) {
	var ve *predictor.ValidationError
	var ie *predictor.InferenceError

	switch {
	case errors.Is(err, predictor.ErrServiceUnavailable):
		respondError(c, http.StatusInternalServerError, CodeServiceUnavailable, "Model not loaded")

	case errors.As(err, &ve):
		metrics.Get().IncValidationFailure(source)
		if len(ve.MissingFields) > 0 {
			respondErrorDetail(c, http.StatusBadRequest, ErrorResponse{
				Error:         "Missing required fields",
				ErrorCode:     CodeValidation,
				MissingFields: ve.MissingFields,
			})
			return
		}
		if ve.Field != "" {
			respondErrorDetail(c, http.StatusBadRequest, ErrorResponse{
				Error:     "Invalid input values",
				ErrorCode: CodeValidation,
				Message:   ve.Message,
			})
			return
		}
		respondError(c, http.StatusBadRequest, CodeValidation, ve.Message)

	case errors.As(err, &ie):
		metrics.Get().IncInferenceError(source)
		logger.FromContext(c.Request.Context()).Errorf("Inference failed: %v", ie.Err)
		h.publisher.WithTraceID(middleware.GetTraceID(c)).Error(source, "Inference failed", ie)
		respondErrorDetail(c, http.StatusInternalServerError, ErrorResponse{
			Error:     "Prediction failed",
			ErrorCode: CodeInference,
			Message:   "the model could not produce a prediction for this sample",
		})

	default:
		logger.FromContext(c.Request.Context()).Errorf("Unexpected prediction error: %v", err)
		respondError(c, http.StatusInternalServerError, CodeInference, "Prediction failed")
	}
}
