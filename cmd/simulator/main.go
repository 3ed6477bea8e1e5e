package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/OldStager01/motortemp/internal/client"
	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/internal/resilience"
	"github.com/OldStager01/motortemp/internal/simulator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	target := flag.String("target", "http://localhost:5000", "predictor base URL")
	interval := flag.Duration("interval", time.Second, "time between requests")
	batch := flag.Int("batch", 1, "readings per request; above 1 uses /batch-predict")
	samples := flag.Int("samples", 0, "stop after this many readings (0 runs until interrupted)")
	pattern := flag.String("pattern", "steady", "load pattern: "+strings.Join(simulator.PatternNames(), ", "))
	overloadAfter := flag.Duration("overload-after", 0, "trigger a 2x overload after this delay (0 disables)")
	seed := flag.Uint64("seed", 42, "telemetry seed")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger.Setup(logger.Options{Level: *logLevel, Mode: "development", Service: "simulator"})
	logger.Info("Starting motor telemetry simulator")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	predictor := client.NewResilientClient(client.ResilientConfig{
		Client:      client.NewHTTPClient(client.Config{Endpoint: *target}),
		MaxFailures: 5,
		Cooldown:    15 * time.Second,
		RetryDelay:  500 * time.Millisecond,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
	defer predictor.Close()

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := predictor.HealthCheck(healthCtx); err != nil {
		logger.WithError(err).Warn("Predictor is not ready, continuing anyway")
	}
	cancel()

	motor := simulator.NewMotorSim(simulator.MotorConfig{
		Seed:    *seed,
		Pattern: simulator.ParsePattern(*pattern),
	})

	if *overloadAfter > 0 {
		timer := time.AfterFunc(*overloadAfter, func() {
			logger.Info("Triggering motor overload")
			motor.TriggerOverload(2, time.Minute, 15*time.Second)
		})
		defer timer.Stop()
	}

	runner := simulator.NewRunner(simulator.RunnerConfig{
		Interval:  *interval,
		BatchSize: *batch,
		Samples:   *samples,
		Motor:     motor,
		Client:    predictor,
	})

	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	stats := runner.Stats()
	circuit := predictor.Circuit()
	logger.WithFields(map[string]interface{}{
		"sent":           stats.Sent,
		"failed":         stats.Failed,
		"by_risk":        stats.ByRisk,
		"max_prediction": stats.MaxPrediction,
		"circuit":        circuit.State.String(),
	}).Info("Simulator stopped")
	return nil
}
