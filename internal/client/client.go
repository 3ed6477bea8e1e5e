package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/pkg/models"
)

// Predictor is the remote prediction API as seen by load generators.
type Predictor interface {
	Predict(ctx context.Context, record models.FeatureRecord) (*models.PredictionResult, error)

	PredictBatch(ctx context.Context, records []models.FeatureRecord) (*models.BatchResult, error)

	// HealthCheck verifies the service is ready to serve predictions
	HealthCheck(ctx context.Context) error

	Close() error
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// HTTPClient talks to the predictor service over its JSON API.
type HTTPClient struct {
	client   *http.Client
	endpoint string
}

func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
	}
}

type predictResponse struct {
	Success bool `json:"success"`
	models.PredictionResult
}

type batchRequest struct {
	Samples []models.FeatureRecord `json:"samples"`
}

type batchResponse struct {
	Success bool `json:"success"`
	models.BatchResult
}

type errorResponse struct {
	Error         string   `json:"error"`
	ErrorCode     string   `json:"error_code"`
	Message       string   `json:"message"`
	MissingFields []string `json:"missing_fields"`
}

func (c *HTTPClient) Predict(ctx context.Context, record models.FeatureRecord) (*models.PredictionResult, error) {
	var resp predictResponse
	if err := c.post(ctx, "/predict", record, &resp); err != nil {
		return nil, err
	}
	return &resp.PredictionResult, nil
}

func (c *HTTPClient) PredictBatch(ctx context.Context, records []models.FeatureRecord) (*models.BatchResult, error) {
	var resp batchResponse
	if err := c.post(ctx, "/batch-predict", batchRequest{Samples: records}, &resp); err != nil {
		return nil, err
	}
	return &resp.BatchResult, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrRequestFailed, err)
	}

	traceID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Trace-ID", traceID)

	logger.WithFields(map[string]interface{}{
		"trace_id": traceID,
		"path":     path,
	}).Debug("Sending prediction request")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		var body errorResponse
		if json.Unmarshal(data, &body) == nil {
			apiErr.Code = body.ErrorCode
			apiErr.Message = body.Error
			if body.Message != "" {
				apiErr.Message += ": " + body.Message
			}
			apiErr.MissingFields = body.MissingFields
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health/ready", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
