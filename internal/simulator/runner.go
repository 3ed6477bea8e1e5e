package simulator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/OldStager01/motortemp/internal/client"
	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/pkg/models"
)

type RunnerConfig struct {
	Interval  time.Duration
	BatchSize int

	// Samples stops the run after this many readings; 0 runs until cancelled
	Samples int

	Motor  *MotorSim
	Client client.Predictor
}

// Stats summarises what a run has sent and what came back.
type Stats struct {
	Sent           int                      `json:"sent"`
	Failed         int                      `json:"failed"`
	ByRisk         map[models.RiskLevel]int `json:"by_risk"`
	MaxPrediction  float64                  `json:"max_prediction"`
	LastPrediction float64                  `json:"last_prediction"`
}

// Runner feeds simulated telemetry to the predictor on a fixed interval.
type Runner struct {
	config RunnerConfig
	stats  Stats
	mu     sync.Mutex
}

func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}

	return &Runner{
		config: cfg,
		stats:  Stats{ByRisk: make(map[models.RiskLevel]int)},
	}
}

// Run blocks until ctx is cancelled or the sample budget is spent.
func (r *Runner) Run(ctx context.Context) error {
	if r.config.Motor == nil || r.config.Client == nil {
		return errors.New("runner needs a motor and a client")
	}

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	logger.WithFields(map[string]interface{}{
		"pattern":  r.config.Motor.PatternName(),
		"interval": r.config.Interval.String(),
		"batch":    r.config.BatchSize,
	}).Info("Simulator run started")

	for {
		if r.done() {
			return nil
		}

		r.tick(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Runner) done() bool {
	if r.config.Samples <= 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.Sent >= r.config.Samples
}

func (r *Runner) tick(ctx context.Context) {
	size := r.config.BatchSize
	if r.config.Samples > 0 {
		r.mu.Lock()
		size = min(size, r.config.Samples-r.stats.Sent)
		r.mu.Unlock()
	}

	records := make([]models.FeatureRecord, size)
	for i := range records {
		records[i] = r.config.Motor.Sample()
	}

	if size == 1 {
		result, err := r.config.Client.Predict(ctx, records[0])
		if err != nil {
			r.recordFailures(1, err)
			return
		}
		r.record(result.Prediction, result.RiskLevel)
		return
	}

	batch, err := r.config.Client.PredictBatch(ctx, records)
	if err != nil {
		r.recordFailures(size, err)
		return
	}
	for _, item := range batch.Predictions {
		if !item.Success || item.Prediction == nil {
			r.recordFailures(1, errors.New(item.Error))
			continue
		}
		r.record(*item.Prediction, item.RiskLevel)
	}
}

func (r *Runner) record(prediction float64, risk models.RiskLevel) {
	r.mu.Lock()
	r.stats.Sent++
	r.stats.ByRisk[risk]++
	r.stats.LastPrediction = prediction
	if prediction > r.stats.MaxPrediction {
		r.stats.MaxPrediction = prediction
	}
	r.mu.Unlock()

	entry := logger.WithFields(map[string]interface{}{
		"prediction": prediction,
		"risk_level": risk,
	})
	if risk == models.RiskCritical {
		entry.Warn("Critical magnet temperature predicted")
		return
	}
	entry.Debug("Prediction received")
}

func (r *Runner) recordFailures(n int, err error) {
	r.mu.Lock()
	r.stats.Sent += n
	r.stats.Failed += n
	r.mu.Unlock()

	logger.WithError(err).Warnf("%d simulated readings failed", n)
}

// Stats returns a snapshot of the run counters.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.stats
	snapshot.ByRisk = make(map[models.RiskLevel]int, len(r.stats.ByRisk))
	for k, v := range r.stats.ByRisk {
		snapshot.ByRisk[k] = v
	}
	return snapshot
}
