package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/motortemp/internal/resilience"
	"github.com/OldStager01/motortemp/pkg/models"
)

var sampleRecord = models.FeatureRecord{
	Ambient: 25.5, Coolant: 22.3, UD: 0.45, UQ: 0.38, MotorSpeed: 1500, ID: 12.5, IQ: 15.2,
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestHTTPClient_Predict(t *testing.T) {
	var gotTrace string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		gotTrace = r.Header.Get("X-Trace-ID")

		var record models.FeatureRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&record))
		assert.Equal(t, sampleRecord, record)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":        true,
			"prediction":     0.6512,
			"risk_level":     "warning",
			"timestamp":      "2024-01-15T10:30:00Z",
			"input_features": record,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL + "/"})
	defer c.Close()

	result, err := c.Predict(context.Background(), sampleRecord)
	require.NoError(t, err)

	assert.Equal(t, 0.6512, result.Prediction)
	assert.Equal(t, models.RiskWarning, result.RiskLevel)
	assert.Equal(t, sampleRecord, result.InputFeatures)
	assert.NotEmpty(t, gotTrace)
}

func TestHTTPClient_PredictBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/batch-predict", r.URL.Path)

		var req struct {
			Samples []models.FeatureRecord `json:"samples"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Samples, 2)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":       true,
			"total_samples": 2,
			"predictions": []map[string]interface{}{
				{"success": true, "sample_index": 0, "prediction": 0.2, "risk_level": "low"},
				{"success": false, "sample_index": 1, "error": "prediction failed"},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL})
	batch, err := c.PredictBatch(context.Background(), []models.FeatureRecord{sampleRecord, sampleRecord})
	require.NoError(t, err)

	assert.Equal(t, 2, batch.TotalSamples)
	assert.Equal(t, 1, batch.Succeeded())
	assert.Equal(t, models.RiskLow, batch.Predictions[0].RiskLevel)
	assert.Equal(t, "prediction failed", batch.Predictions[1].Error)
}

func TestHTTPClient_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
		check     func(t *testing.T, err error)
	}{
		{
			name:   "validation error",
			status: http.StatusBadRequest,
			body:   `{"success":false,"error":"Missing required fields","error_code":"validation_error","missing_fields":["u_d"]}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, "validation_error", apiErr.Code)
				assert.Equal(t, []string{"u_d"}, apiErr.MissingFields)
				assert.Contains(t, err.Error(), "u_d")
			},
		},
		{
			name:      "service unavailable",
			status:    http.StatusInternalServerError,
			body:      `{"success":false,"error":"Model not loaded","error_code":"service_unavailable"}`,
			retryable: true,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, "Model not loaded", apiErr.Message)
			},
		},
		{
			name:      "rate limited without body",
			status:    http.StatusTooManyRequests,
			retryable: true,
		},
		{
			name:      "malformed success body",
			status:    http.StatusOK,
			body:      `not json`,
			retryable: true,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidResponse)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClient(Config{Endpoint: srv.URL}).Predict(context.Background(), sampleRecord)
			require.Error(t, err)
			assert.Equal(t, tt.retryable, IsRetryable(err))
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewHTTPClient(Config{Endpoint: srv.URL}).Predict(ctx, sampleRecord)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestHTTPClient_HealthCheck(t *testing.T) {
	var ready atomic.Bool
	ready.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health/ready", r.URL.Path)
		if !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL})
	assert.NoError(t, c.HealthCheck(context.Background()))

	ready.Store(false)
	assert.Error(t, c.HealthCheck(context.Background()))
}

type fakePredictor struct {
	calls atomic.Int32
	errs  []error
}

func (f *fakePredictor) next() error {
	n := int(f.calls.Add(1)) - 1
	if n < len(f.errs) {
		return f.errs[n]
	}
	return nil
}

func (f *fakePredictor) Predict(ctx context.Context, record models.FeatureRecord) (*models.PredictionResult, error) {
	if err := f.next(); err != nil {
		return nil, err
	}
	return models.NewPredictionResult(0.5, record, time.Now()), nil
}

func (f *fakePredictor) PredictBatch(ctx context.Context, records []models.FeatureRecord) (*models.BatchResult, error) {
	if err := f.next(); err != nil {
		return nil, err
	}
	return &models.BatchResult{TotalSamples: len(records)}, nil
}

func (f *fakePredictor) HealthCheck(ctx context.Context) error { return nil }
func (f *fakePredictor) Close() error                          { return nil }

func TestResilientClient_RetriesTransientErrors(t *testing.T) {
	fake := &fakePredictor{errs: []error{ErrRequestFailed, &APIError{Status: http.StatusServiceUnavailable}}}
	c := NewResilientClient(ResilientConfig{Client: fake, RetryAttempts: 3, RetryDelay: time.Millisecond})

	result, err := c.Predict(context.Background(), sampleRecord)
	require.NoError(t, err)
	assert.Equal(t, models.RiskNormal, result.RiskLevel)
	assert.Equal(t, int32(3), fake.calls.Load())
	assert.Equal(t, resilience.StateClosed, c.CircuitState())
}

func TestResilientClient_DoesNotRetryValidation(t *testing.T) {
	validation := &APIError{Status: http.StatusBadRequest, Code: "validation_error"}
	fake := &fakePredictor{errs: []error{validation, validation, validation}}
	c := NewResilientClient(ResilientConfig{Client: fake, MaxFailures: 1, RetryDelay: time.Millisecond})

	for i := 0; i < 3; i++ {
		_, err := c.PredictBatch(context.Background(), []models.FeatureRecord{sampleRecord})
		assert.ErrorIs(t, err, validation)
	}
	assert.Equal(t, int32(3), fake.calls.Load())
	assert.Equal(t, resilience.StateClosed, c.CircuitState())
}

func TestResilientClient_OpensCircuit(t *testing.T) {
	fake := &fakePredictor{errs: []error{ErrRequestFailed, ErrRequestFailed, ErrRequestFailed, ErrRequestFailed}}
	c := NewResilientClient(ResilientConfig{
		Client:        fake,
		MaxFailures:   1,
		Cooldown:      time.Minute,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	})

	_, err := c.Predict(context.Background(), sampleRecord)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, resilience.StateOpen, c.CircuitState())

	_, err = c.Predict(context.Background(), sampleRecord)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), fake.calls.Load())
	assert.False(t, c.Circuit().RetryAt.IsZero())

	c.ResetCircuit()
	assert.Equal(t, resilience.StateClosed, c.CircuitState())
}
