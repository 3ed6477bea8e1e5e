//go:build integration

package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/OldStager01/motortemp/pkg/database"
	"github.com/OldStager01/motortemp/pkg/database/queries"
	"github.com/OldStager01/motortemp/pkg/models"
)

func startPostgres(ctx context.Context, t *testing.T) *database.DB {
	t.Helper()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("motortemp"),
		postgres.WithUsername("motortemp"),
		postgres.WithPassword("motortemp"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := database.New(ctx, database.Config{
		Host:            host,
		Port:            port.Int(),
		Name:            "motortemp",
		User:            "motortemp",
		Password:        "motortemp",
		ConnectAttempts: 5,
		RetryDelay:      time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func record(prediction float64, at time.Time) *models.PredictionRecord {
	return &models.PredictionRecord{
		Source:     models.SourceSingle,
		CreatedAt:  at,
		Prediction: prediction,
		RiskLevel:  models.ClassifyRisk(prediction),
		FeatureRecord: models.FeatureRecord{
			Ambient: 25.5, Coolant: 22.3, UD: 0.45, UQ: 0.38, MotorSpeed: 1500, ID: 12.5, IQ: 15.2,
		},
	}
}

func TestPredictionRepository_Postgres(t *testing.T) {
	ctx := context.Background()
	db := startPostgres(ctx, t)

	migrator := database.NewMigrator(db.DB)
	applied, err := migrator.Run(ctx)
	require.NoError(t, err)
	assert.Contains(t, applied, "001_create_predictions.sql")

	again, err := migrator.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	repo := queries.NewPredictionRepository(db.DB)
	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Microsecond)

	single := record(0.25, base)
	single.TraceID = "trace-1"
	require.NoError(t, repo.Insert(ctx, single))
	assert.Positive(t, single.ID)

	batch := []*models.PredictionRecord{
		record(0.45, base.Add(time.Minute)),
		record(0.65, base.Add(2*time.Minute)),
		record(0.85, base.Add(3*time.Minute)),
	}
	for _, r := range batch {
		r.Source = models.SourceBatch
	}
	require.NoError(t, repo.InsertBatch(ctx, batch))

	recent, err := repo.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 0.85, recent[0].Prediction)
	assert.Equal(t, models.RiskCritical, recent[0].RiskLevel)
	assert.Equal(t, models.SourceBatch, recent[0].Source)
	assert.Equal(t, 0.65, recent[1].Prediction)

	stats, err := repo.StatsSince(ctx, base.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(1), stats.ByRisk[models.RiskLow])
	assert.Equal(t, int64(1), stats.ByRisk[models.RiskWarning])
	assert.InDelta(t, 0.55, stats.AvgPrediction, 1e-9)
	assert.Equal(t, 0.85, stats.MaxPrediction)

	later, err := repo.StatsSince(ctx, base.Add(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(2), later.Total)
	assert.Equal(t, int64(0), later.ByRisk[models.RiskLow])
}
