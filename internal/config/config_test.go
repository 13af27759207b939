package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"API_BASE_URL", "API_TIMEOUT", "LISTEN_ADDR", "REDIRECT_DELAY",
		"SESSION_BACKEND", "SESSION_COOKIE", "DATABASE_URL", "REDIS_ADDRESS",
		"CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.Equal(t, 500*time.Millisecond, cfg.HTTP.RedirectDelay)
	assert.Empty(t, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, BackendMemory, cfg.Session.Backend)
	assert.Equal(t, "portald_scope", cfg.Session.CookieName)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://auth.example.com/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("REDIRECT_DELAY", "0")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://app.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://auth.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Duration(0), cfg.HTTP.RedirectDelay)
	assert.Equal(t, BackendRedis, cfg.Session.Backend)
	assert.Equal(t, "redis:6379", cfg.Session.RedisAddress)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.HTTP.AllowedOrigins)
}

func TestLoad_RedirectDelayMilliseconds(t *testing.T) {
	t.Setenv("REDIRECT_DELAY", "750")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.HTTP.RedirectDelay)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad delay", key: "REDIRECT_DELAY", value: "soon"},
		{name: "bad timeout", key: "API_TIMEOUT", value: "1x"},
		{name: "unknown backend", key: "SESSION_BACKEND", value: "bolt"},
		{name: "base url not a url", key: "API_BASE_URL", value: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
