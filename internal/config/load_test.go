package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Required settings that have no defaults.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STUDYGEN_DATABASE_URL", "postgres://localhost:5432/studygen?sslmode=disable")
	t.Setenv("STUDYGEN_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("STUDYGEN_LLM_GEMINI_API_KEY", "test-api-key")
}

func TestLoadWithDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
	assert.Equal(t, 4, cfg.Task.WorkerCount)
	assert.Equal(t, 30, cfg.Task.StuckTaskAgeMinutes)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STUDYGEN_SERVER_PORT", "9000")
	t.Setenv("STUDYGEN_SERVER_LOG_LEVEL", "debug")
	t.Setenv("STUDYGEN_TASK_WORKER_COUNT", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 8, cfg.Task.WorkerCount)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("STUDYGEN_DATABASE_URL", "")
	t.Setenv("STUDYGEN_AUTH_JWT_SECRET", "")
	t.Setenv("STUDYGEN_LLM_GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STUDYGEN_AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSecret")
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STUDYGEN_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
}
