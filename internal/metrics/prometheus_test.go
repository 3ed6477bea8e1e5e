package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObservePrediction("single", "normal", 0.42)
	m.ObservePrediction("single", "normal", 0.45)
	m.ObservePrediction("batch", "critical", 0.91)
	m.IncValidationFailure("single")
	m.IncSinkFailure("redis")
	m.IncSinkFailure("redis")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.predictionsTotal.WithLabelValues("single", "normal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictionsTotal.WithLabelValues("batch", "critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures.WithLabelValues("single")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sinkFailures.WithLabelValues("redis")))
}

func TestMetrics_Gauges(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetArtifactLoaded("model", true)
	m.SetArtifactLoaded("scaler", false)
	m.SetCircuitBreakerState("postgres", 1)
	m.SetWebSocketClients(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.artifactLoaded.WithLabelValues("model")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.artifactLoaded.WithLabelValues("scaler")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.circuitBreakerState.WithLabelValues("postgres")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.websocketClients))
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveRequest(http.MethodPost, "/predict", http.StatusOK, 15*time.Millisecond)
	m.ObserveBatchSize(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `motortemp_http_request_duration_seconds_count{method="POST",route="/predict",status="200"} 1`)
	assert.Contains(t, body, "motortemp_batch_size_count 1")
}

func TestGet_Singleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}
