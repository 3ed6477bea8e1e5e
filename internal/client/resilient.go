package client

import (
	"context"
	"time"

	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/internal/resilience"
	"github.com/OldStager01/motortemp/pkg/models"
)

// ResilientClient retries transient failures and stops calling a failing
// service through a circuit breaker.
type ResilientClient struct {
	client         Predictor
	circuitBreaker *resilience.CircuitBreaker
	retryAttempts  int
	retryDelay     time.Duration
}

type ResilientConfig struct {
	Client        Predictor
	MaxFailures   int
	Cooldown      time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	OnStateChange func(name string, from, to resilience.State)
}

func NewResilientClient(cfg ResilientConfig) *ResilientClient {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 1 * time.Second
	}

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:          "predictor-client",
		MaxFailures:   cfg.MaxFailures,
		Cooldown:      cfg.Cooldown,
		IsFailure:     IsRetryable,
		OnStateChange: cfg.OnStateChange,
	})

	return &ResilientClient{
		client:         cfg.Client,
		circuitBreaker: cb,
		retryAttempts:  cfg.RetryAttempts,
		retryDelay:     cfg.RetryDelay,
	}
}

func (c *ResilientClient) Predict(ctx context.Context, record models.FeatureRecord) (*models.PredictionResult, error) {
	var result *models.PredictionResult
	err := c.call(ctx, "predict", func() error {
		var err error
		result, err = c.client.Predict(ctx, record)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *ResilientClient) PredictBatch(ctx context.Context, records []models.FeatureRecord) (*models.BatchResult, error) {
	var result *models.BatchResult
	err := c.call(ctx, "batch-predict", func() error {
		var err error
		result, err = c.client.PredictBatch(ctx, records)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// call runs fn under the breaker. Non-retryable errors end the attempts
// early and do not count against the breaker.
func (c *ResilientClient) call(ctx context.Context, op string, fn func() error) error {
	return c.circuitBreaker.Execute(func() error {
		var lastErr error
		for attempt := 1; attempt <= c.retryAttempts; attempt++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			err := fn()
			if err == nil {
				return nil
			}
			if !IsRetryable(err) {
				return err
			}

			lastErr = err
			logger.WithField("operation", op).Warnf(
				"Prediction attempt %d/%d failed: %v",
				attempt, c.retryAttempts, err,
			)

			if attempt < c.retryAttempts {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(c.retryDelay):
				}
			}
		}
		return lastErr
	})
}

func (c *ResilientClient) HealthCheck(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}

func (c *ResilientClient) Close() error {
	return c.client.Close()
}

func (c *ResilientClient) CircuitState() resilience.State {
	return c.circuitBreaker.State()
}

func (c *ResilientClient) Circuit() resilience.Snapshot {
	return c.circuitBreaker.Snapshot()
}

func (c *ResilientClient) ResetCircuit() {
	c.circuitBreaker.Reset()
}
