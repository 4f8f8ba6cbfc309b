package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("CORE_API_URL", "https://core.test")
	os.Setenv("SENAE_TARIFF_URL", "https://senae.test/tariff?hs=%s")
	t.Cleanup(func() {
		os.Unsetenv("CORE_API_URL")
		os.Unsetenv("SENAE_TARIFF_URL")
	})
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("REDIS_URL")
	os.Unsetenv("SESSION_TTL_HOURS")
	setRequiredEnv(t)

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 15, cfg.CoreAPI.TimeoutSeconds)
	assert.Equal(t, 12, cfg.Session.TTLHours)
	assert.Equal(t, 24, cfg.Senae.CacheTTLHours)
	assert.False(t, cfg.Proxy.Enabled)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("REDIS_URL", "redis://cache.test:6380/1")
	os.Setenv("SESSION_TTL_HOURS", "48")
	os.Setenv("PROXY_ENABLED", "true")
	os.Setenv("PROXY_HOSTNAME", "proxy.test")
	os.Setenv("PROXY_PORT", "12321")
	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("REDIS_URL")
		os.Unsetenv("SESSION_TTL_HOURS")
		os.Unsetenv("PROXY_ENABLED")
		os.Unsetenv("PROXY_HOSTNAME")
		os.Unsetenv("PROXY_PORT")
	}()

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "https://core.test", cfg.CoreAPI.URL)
	assert.Equal(t, "redis://cache.test:6380/1", cfg.Redis.URL)
	assert.Equal(t, 48, cfg.Session.TTLHours)
	assert.True(t, cfg.Proxy.Enabled)
	assert.Equal(t, "proxy.test", cfg.Proxy.Hostname)
	assert.Equal(t, 12321, cfg.Proxy.Port)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
CORE_API_URL=https://core.staging.test
SENAE_TARIFF_URL=https://senae.test/tariff?hs=%s
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "https://core.staging.test", cfg.CoreAPI.URL)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	os.Unsetenv("CORE_API_URL")
	os.Unsetenv("SENAE_TARIFF_URL")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}
