package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/OldStager01/motortemp/api"
	"github.com/OldStager01/motortemp/internal/artifacts"
	"github.com/OldStager01/motortemp/internal/events"
	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/internal/metrics"
	"github.com/OldStager01/motortemp/internal/predictor"
	"github.com/OldStager01/motortemp/pkg/config"
	"github.com/OldStager01/motortemp/pkg/database"
	"github.com/OldStager01/motortemp/pkg/database/queries"
	"github.com/OldStager01/motortemp/pkg/models"
)

// @title Motor Temperature Prediction API
// @version 1.0
// @description Predicts permanent magnet temperature of an electric motor from telemetry.
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	migrate := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(logger.Options{Level: cfg.App.LogLevel, Mode: cfg.App.Mode, Service: cfg.App.Name})
	if closer := logger.SetupFile(logger.FileConfig{
		Path:       cfg.App.LogFile,
		MaxSizeMB:  cfg.App.LogMaxSizeMB,
		MaxAgeDays: cfg.App.LogMaxAgeDays,
		MaxBackups: cfg.App.LogMaxBackups,
	}); closer != nil {
		defer closer.Close()
	}
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	var db *database.DB
	if cfg.Database.Enabled || *migrate {
		connectCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		db, err = database.New(connectCtx, cfg.Database.ToDBConfig())
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if *migrate || cfg.Database.Migrate {
			if err := runMigrations(db); err != nil {
				return err
			}
		}
		if *migrate {
			return nil
		}
	}

	// Missing artifacts leave the service up in degraded mode.
	store, loadErr := artifacts.Load(artifacts.Config{
		ScalerPath: cfg.Model.ScalerPath,
		ModelPath:  cfg.Model.ModelPath,
	})
	if loadErr != nil {
		logger.Warn("Serving in degraded mode: prediction endpoints will return errors")
	}
	metrics.Get().SetArtifactLoaded("scaler", store.ScalerLoaded())
	metrics.Get().SetArtifactLoaded("model", store.ModelLoaded())

	bus := events.NewEventBus(cfg.Events.BufferSize)
	defer bus.Close()
	defer logBusStats(bus)

	sinks, closeSinks, err := buildSinks(cfg, db)
	if err != nil {
		return err
	}
	defer closeSinks()

	if len(sinks) > 0 {
		recorder := events.NewRecorder(
			bus.Subscribe("recorder", models.EventTypePredictionMade, models.EventTypeBatchCompleted),
			events.RecorderConfig{
				MaxFailures: cfg.Events.SinkMaxFailures,
				Cooldown:    cfg.Events.SinkCooldown,
				Timeout:     cfg.Events.SinkTimeout,
			},
			sinks...,
		)
		recorder.Start()
		defer func() {
			recorder.Stop()
			for _, st := range recorder.SinkStates() {
				logger.WithFields(map[string]interface{}{
					"sink":     st.Name,
					"state":    st.State.String(),
					"failures": st.Failures,
				}).Info("Sink state at shutdown")
			}
		}()
	}

	events.NewPublisher(bus).ArtifactsLoaded(store.ModelType(), store.ScalerLoaded(), store.ModelLoaded())

	deps := api.Dependencies{
		Predictor: predictor.New(store, predictor.Config{}),
		Artifacts: store,
		Bus:       bus,
	}
	if db != nil {
		deps.History = queries.NewPredictionRepository(db.DB)
	}

	server := api.NewServer(cfg, deps)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	shutdownTimeout := cfg.App.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func runMigrations(db *database.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logger.Info("Running database migrations")
	applied, err := database.NewMigrator(db.DB).Run(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.WithField("applied", applied).Info("Migrations completed successfully")
	return nil
}

// buildSinks connects the optional prediction history sinks.
func buildSinks(cfg *config.Config, db *database.DB) ([]events.Sink, func(), error) {
	var sinks []events.Sink
	var closers []io.Closer

	if db != nil {
		sinks = append(sinks, events.NewPostgresSink(queries.NewPredictionRepository(db.DB)))
	}

	if cfg.Redis.Enabled {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)

		timeout := cfg.Redis.Timeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err = client.Ping(ctx).Err()
		cancel()
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}

		logger.Infof("Redis connected, publishing predictions to %s", cfg.Redis.Channel)
		sinks = append(sinks, events.NewRedisSink(client, cfg.Redis.Channel))
		closers = append(closers, client)
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warnf("Failed to close sink: %v", err)
			}
		}
	}
	return sinks, closeAll, nil
}

func logBusStats(bus *events.EventBus) {
	stats := bus.Stats()
	logger.WithFields(map[string]interface{}{
		"published": stats.Published,
		"delivered": stats.Delivered,
		"dropped":   stats.Dropped,
	}).Info("Event bus stats")
}
