package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "test-app",
			Mode:     "development",
			LogLevel: "info",
		},
		API: APIConfig{
			Port:         5000,
			DefaultLimit: 20,
			MaxLimit:     500,
		},
		Model: ModelConfig{
			ModelPath:  "artifacts/model.json",
			ScalerPath: "artifacts/transform.json",
			Performance: PerformanceConfig{
				R2Score: 0.96,
				RMSE:    0.03,
			},
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modifyFunc  func(*Config)
		expectErr   bool
		errContains string
	}{
		{
			name:       "valid config",
			modifyFunc: func(c *Config) {},
			expectErr:  false,
		},
		{
			name:        "invalid mode",
			modifyFunc:  func(c *Config) { c.App.Mode = "staging" },
			expectErr:   true,
			errContains: "app.mode must be one of",
		},
		{
			name:        "invalid port",
			modifyFunc:  func(c *Config) { c.API.Port = 70000 },
			expectErr:   true,
			errContains: "api.port must be between",
		},
		{
			name:        "missing model path",
			modifyFunc:  func(c *Config) { c.Model.ModelPath = "" },
			expectErr:   true,
			errContains: "model.model_path is required",
		},
		{
			name:        "default limit above max",
			modifyFunc:  func(c *Config) { c.API.DefaultLimit = 1000 },
			expectErr:   true,
			errContains: "default_limit must be <= api.max_limit",
		},
		{
			name:        "cors origin without scheme",
			modifyFunc:  func(c *Config) { c.API.CORS.AllowedOrigins = []string{"*", "dashboard.local"} },
			expectErr:   true,
			errContains: "api.cors.allowed_origins",
		},
		{
			name: "database checked only when enabled",
			modifyFunc: func(c *Config) {
				c.Database.Host = ""
			},
			expectErr: false,
		},
		{
			name: "enabled database without host",
			modifyFunc: func(c *Config) {
				c.Database = DatabaseConfig{Enabled: true, Port: 5432, Name: "db", MaxConnections: 5}
			},
			expectErr:   true,
			errContains: "database.host is required",
		},
		{
			name: "enabled redis with bad url",
			modifyFunc: func(c *Config) {
				c.Redis = RedisConfig{Enabled: true, URL: "localhost:6379", Channel: "preds"}
			},
			expectErr:   true,
			errContains: "redis.url must start with",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modifyFunc(cfg)

			err := cfg.Validate()

			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dbCfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "testdb",
		User:     "admin",
		Password: "secret",
	}

	expected := "host=localhost port=5432 user=admin password=secret dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dbCfg.DSN())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  name: motortemp-test
  mode: test
api:
  port: 6000
model:
  model_path: /srv/model.json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("MOTORTEMP_API_RATE_LIMIT", "42")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "motortemp-test", cfg.App.Name)
	assert.Equal(t, "test", cfg.App.Mode)
	assert.Equal(t, 6000, cfg.API.Port)
	assert.Equal(t, 42, cfg.API.RateLimit)
	assert.Equal(t, "/srv/model.json", cfg.Model.ModelPath)
	assert.Equal(t, "artifacts/transform.json", cfg.Model.ScalerPath)
	assert.Equal(t, 0.96, cfg.Model.Performance.R2Score)
	assert.Equal(t, 30*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.API.CORS.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}
