package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults tests the built-in defaults with no config file
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Refresh.Interval)
	assert.Equal(t, 50, cfg.Refresh.LowStockThreshold)
	assert.Equal(t, 15*time.Second, cfg.Session.AnalysisDelay)
	assert.Equal(t, 100, cfg.Session.HistoryLimit)
	assert.Equal(t, 0, cfg.Session.MaxEvents)
	assert.Equal(t, 100, cfg.Stock.RelevantOnHandThreshold)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, "info", cfg.Logging.Level)
}

// TestEnvOverrides tests environment variable binding
func TestEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://retail.internal:9000/api")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://retail.internal:9000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://retail.internal:9000/api", GetBackendURL())
}

// TestGetReturnsLoadedConfig tests the global accessor
func TestGetReturnsLoadedConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Same(t, cfg, Get())
}
