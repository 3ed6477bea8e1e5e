package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Sorted(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)

	require.NotEmpty(t, files)
	assert.Equal(t, "001_create_predictions.sql", files[0])
	assert.IsIncreasing(t, files)
}

func TestMigrations_CreatePredictionsTable(t *testing.T) {
	content, err := fs.ReadFile(migrationsFS, "migrations/001_create_predictions.sql")
	require.NoError(t, err)

	sql := string(content)
	for _, column := range []string{"ambient", "coolant", "u_d", "u_q", "motor_speed", "i_d", "i_q", "prediction", "risk_level"} {
		assert.Contains(t, sql, column)
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, Name: "motortemp", User: "svc", Password: "pw"}

	assert.Equal(t, "host=db port=5433 user=svc password=pw dbname=motortemp sslmode=disable", cfg.DSN())
}

func TestPendingMigrations(t *testing.T) {
	files := []string{"001_a.sql", "002_b.sql", "003_c.sql"}

	tests := []struct {
		name     string
		done     map[string]bool
		expected []string
	}{
		{name: "fresh database", done: map[string]bool{}, expected: files},
		{name: "partially applied", done: map[string]bool{"001_a.sql": true}, expected: []string{"002_b.sql", "003_c.sql"}},
		{name: "up to date", done: map[string]bool{"001_a.sql": true, "002_b.sql": true, "003_c.sql": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pendingMigrations(files, tt.done))
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	assert.Equal(t, 10, cfg.MaxConnections)
	assert.Equal(t, 1, cfg.ConnectAttempts)
	assert.Positive(t, cfg.PingTimeout)
	assert.Positive(t, cfg.RetryDelay)
}
