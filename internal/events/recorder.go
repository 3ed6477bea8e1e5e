package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/internal/metrics"
	"github.com/OldStager01/motortemp/internal/resilience"
	"github.com/OldStager01/motortemp/pkg/models"
)

type RecorderConfig struct {
	MaxFailures int
	Cooldown    time.Duration
	Timeout     time.Duration
}

type guardedSink struct {
	sink    Sink
	breaker *resilience.CircuitBreaker
}

// Recorder logs every event and fans predictions out to the configured sinks.
// A failing sink is isolated by its own circuit breaker.
type Recorder struct {
	eventChan <-chan *models.Event
	sinks     []guardedSink
	timeout   time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewRecorder(eventChan <-chan *models.Event, cfg RecorderConfig, sinks ...Sink) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())

	r := &Recorder{
		eventChan: eventChan,
		timeout:   cfg.Timeout,
		ctx:       ctx,
		cancel:    cancel,
	}

	for _, sink := range sinks {
		r.sinks = append(r.sinks, guardedSink{
			sink: sink,
			breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
				Name:        sink.Name(),
				MaxFailures: cfg.MaxFailures,
				Cooldown:    cfg.Cooldown,
				OnStateChange: func(name string, from, to resilience.State) {
					metrics.Get().SetCircuitBreakerState(name, int(to))
					logger.WithComponent("recorder").WithFields(map[string]interface{}{
						"sink": name,
						"from": from.String(),
						"to":   to.String(),
					}).Warn("Sink circuit breaker changed state")
				},
			}),
		})
	}

	return r
}

func (r *Recorder) Start() {
	r.wg.Add(1)
	go r.run()
}

// Stop halts the recorder and waits for the in-flight event to finish.
func (r *Recorder) Stop() {
	r.cancel()
	r.wg.Wait()
}

// SinkStates reports the breaker guarding each sink, in sink order.
func (r *Recorder) SinkStates() []resilience.Snapshot {
	states := make([]resilience.Snapshot, 0, len(r.sinks))
	for _, gs := range r.sinks {
		states = append(states, gs.breaker.Snapshot())
	}
	return states
}

func (r *Recorder) run() {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case event, ok := <-r.eventChan:
			if !ok {
				return
			}
			r.processEvent(event)
		}
	}
}

func (r *Recorder) processEvent(event *models.Event) {
	entry := logger.WithComponent("recorder").WithFields(map[string]interface{}{
		"event_type": event.Type,
		"source":     event.Source,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Debug(event.Message)
	}

	records := recordsFromEvent(event)
	if len(records) == 0 {
		return
	}

	for _, gs := range r.sinks {
		r.write(gs, records)
	}
}

func (r *Recorder) write(gs guardedSink, records []*models.PredictionRecord) {
	err := gs.breaker.ExecuteContext(r.ctx, r.timeout, func(ctx context.Context) error {
		return gs.sink.Write(ctx, records)
	})

	m := metrics.Get()
	if err != nil {
		m.IncSinkFailure(gs.sink.Name())
		if !errors.Is(err, resilience.ErrCircuitOpen) {
			logger.WithComponent("recorder").WithError(err).WithField("sink", gs.sink.Name()).Error("Failed to record predictions")
		}
		return
	}
	m.IncSinkWrite(gs.sink.Name())
}

func recordsFromEvent(event *models.Event) []*models.PredictionRecord {
	switch data := event.Data.(type) {
	case *models.PredictionResult:
		return []*models.PredictionRecord{newRecord(event, data)}
	case *models.BatchResult:
		var records []*models.PredictionRecord
		for _, item := range data.Predictions {
			if item.Success && item.Result != nil {
				records = append(records, newRecord(event, item.Result))
			}
		}
		return records
	}
	return nil
}

func newRecord(event *models.Event, result *models.PredictionResult) *models.PredictionRecord {
	return &models.PredictionRecord{
		TraceID:       event.TraceID,
		Source:        event.Source,
		CreatedAt:     result.Timestamp,
		Prediction:    result.Prediction,
		RiskLevel:     result.RiskLevel,
		FeatureRecord: result.InputFeatures,
	}
}
