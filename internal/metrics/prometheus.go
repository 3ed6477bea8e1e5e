package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "motortemp"

type Metrics struct {
	registry *prometheus.Registry

	// Counters
	predictionsTotal   *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	inferenceErrors    *prometheus.CounterVec
	sinkWrites         *prometheus.CounterVec
	sinkFailures       *prometheus.CounterVec
	eventsDropped      *prometheus.CounterVec

	// Gauges
	artifactLoaded      *prometheus.GaugeVec
	circuitBreakerState *prometheus.GaugeVec
	websocketClients    prometheus.Gauge

	// Histograms
	predictionValue *prometheus.HistogramVec
	batchSize       prometheus.Histogram
	requestDuration *prometheus.HistogramVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the process-wide metrics registered on their own registry.
func Get() *Metrics {
	once.Do(func() {
		instance = New(prometheus.NewRegistry())
	})
	return instance
}

func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		predictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions served, by source and risk level",
		}, []string{"source", "risk_level"}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Samples rejected by input validation",
		}, []string{"source"}),
		inferenceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_errors_total",
			Help:      "Samples whose scaling or inference failed",
		}, []string{"source"}),
		sinkWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_writes_total",
			Help:      "Predictions written to a history sink",
		}, []string{"sink"}),
		sinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_failures_total",
			Help:      "Failed writes to a history sink",
		}, []string{"sink"}),
		eventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Events dropped because a subscriber buffer was full",
		}, []string{"event_type"}),
		artifactLoaded: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifact_loaded",
			Help:      "1 when the artifact was loaded at startup",
		}, []string{"artifact"}),
		circuitBreakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "0=closed, 1=open, 2=half-open",
		}, []string{"name"}),
		websocketClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected live feed clients",
		}),
		predictionValue: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_value",
			Help:      "Distribution of predicted normalized temperature",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}, []string{"source"}),
		batchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Samples per batch request",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
		}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObservePrediction(source, riskLevel string, value float64) {
	m.predictionsTotal.WithLabelValues(source, riskLevel).Inc()
	m.predictionValue.WithLabelValues(source).Observe(value)
}

func (m *Metrics) IncValidationFailure(source string) {
	m.validationFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) IncInferenceError(source string) {
	m.inferenceErrors.WithLabelValues(source).Inc()
}

func (m *Metrics) IncSinkWrite(sink string) {
	m.sinkWrites.WithLabelValues(sink).Inc()
}

func (m *Metrics) IncSinkFailure(sink string) {
	m.sinkFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) IncEventDropped(eventType string) {
	m.eventsDropped.WithLabelValues(eventType).Inc()
}

func (m *Metrics) SetArtifactLoaded(artifact string, loaded bool) {
	v := 0.0
	if loaded {
		v = 1
	}
	m.artifactLoaded.WithLabelValues(artifact).Set(v)
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.circuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func (m *Metrics) SetWebSocketClients(n int) {
	m.websocketClients.Set(float64(n))
}

func (m *Metrics) ObserveBatchSize(n int) {
	m.batchSize.Observe(float64(n))
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
