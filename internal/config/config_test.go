package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PORT":                       "",
		"REDIS_URL":                  "",
		"OBS_LOG_FORMAT":             "",
		"OBS_ENABLE_PROMETHEUS":      "",
		"CHECKOUT_LOCK_TTL":          "",
		"RATE_LIMIT_CHECKOUT_MAX":    "",
		"RATE_LIMIT_CHECKOUT_WINDOW": "",
		"HTTP_BODY_LIMIT_BYTES":      "",
		"OBS_TRACING_SAMPLING_RATIO": "",
		"OBS_LOG_LEVEL":              "",
		"OBS_SHELL_LOG_LEVEL":        "",
	})
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Obs.LogLevel)
	require.Equal(t, "warn", cfg.Obs.ShellLogLevel)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.False(t, cfg.RedisEnabled())
	require.Equal(t, "json", cfg.Obs.LogFormat)
	require.True(t, cfg.Obs.EnablePrometheus)
	require.Equal(t, 5*time.Second, cfg.Checkout.LockTTL)
	require.Equal(t, 30, cfg.Checkout.RateLimitMax)
	require.Equal(t, time.Minute, cfg.Checkout.RateLimitWindow)
	require.Equal(t, int64(1<<20), cfg.HTTP.BodyLimitBytes)
	require.Equal(t, 1.0, cfg.Obs.SamplingRatio)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PORT":                       ":9090",
		"REDIS_URL":                  "redis://localhost:6379/0",
		"CORS_ALLOWED_ORIGINS":       "https://a.example, https://b.example,",
		"OBS_ENABLE_PROMETHEUS":      "off",
		"CHECKOUT_LOCK_TTL":          "2s",
		"RATE_LIMIT_CHECKOUT_MAX":    "5",
		"RATE_LIMIT_CHECKOUT_WINDOW": "not-a-duration",
		"OBS_TRACING_SAMPLING_RATIO": "0.25",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.True(t, cfg.RedisEnabled())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.False(t, cfg.Obs.EnablePrometheus)
	require.Equal(t, 2*time.Second, cfg.Checkout.LockTTL)
	require.Equal(t, 5, cfg.Checkout.RateLimitMax)
	require.Equal(t, time.Minute, cfg.Checkout.RateLimitWindow)
	require.Equal(t, 0.25, cfg.Obs.SamplingRatio)
}

func TestLoadRejectsBadSamplingRatio(t *testing.T) {
	_, err := LoadForTests(map[string]string{"OBS_TRACING_SAMPLING_RATIO": "2"})
	require.Error(t, err)
}

func TestLoadJoinsValidationErrors(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"OBS_TRACING_SAMPLING_RATIO": "-1",
		"RATE_LIMIT_CHECKOUT_MAX":    "-3",
		"CHECKOUT_LOCK_TTL":          "0s",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "OBS_TRACING_SAMPLING_RATIO")
	require.Contains(t, err.Error(), "RATE_LIMIT_CHECKOUT_MAX")
	require.Contains(t, err.Error(), "CHECKOUT_LOCK_TTL")
}

func TestShellLogLevelIsIndependent(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"OBS_LOG_LEVEL":       "info",
		"OBS_SHELL_LOG_LEVEL": "debug",
	})
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Obs.LogLevel)
	require.Equal(t, "debug", cfg.Obs.ShellLogLevel)
}
