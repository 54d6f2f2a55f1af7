package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/toko-loyalty/internal/common"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	RedisURL           string
	CORSAllowedOrigins []string

	Obs      ObsConfig
	Checkout CheckoutConfig
	HTTP     HTTPConfig
}

// ObsConfig groups logging, metrics and tracing settings.
type ObsConfig struct {
	LogFormat        string
	LogLevel         string
	// ShellLogLevel applies to the interactive console, whose stderr shares
	// the terminal with the menu.
	ShellLogLevel    string
	MetricsNamespace string
	MetricsBuckets   string
	EnablePrometheus bool
	EnableTracing    bool
	OTLPEndpoint     string
	SamplingRatio    float64
}

// CheckoutConfig tunes the transaction endpoint.
type CheckoutConfig struct {
	LockTTL         time.Duration
	IdempotencyTTL  time.Duration
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// HTTPConfig carries server hardening knobs.
type HTTPConfig struct {
	BodyLimitBytes  int64
	SecurityHeaders bool
}

// Load reads the process environment, after merging an optional .env file,
// and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	r := reader{k}

	cfg := &Config{
		AppEnv:             r.str("APP_ENV", "development"),
		Port:               r.str("PORT", "8080"),
		RedisURL:           r.str("REDIS_URL", ""),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		Obs: ObsConfig{
			LogFormat:        r.str("OBS_LOG_FORMAT", "json"),
			LogLevel:         r.str("OBS_LOG_LEVEL", "info"),
			ShellLogLevel:    r.str("OBS_SHELL_LOG_LEVEL", "warn"),
			MetricsNamespace: r.str("OBS_METRICS_NAMESPACE", "toko_loyalty"),
			MetricsBuckets:   r.str("OBS_METRICS_BUCKETS_MS", ""),
			EnablePrometheus: r.boolean("OBS_ENABLE_PROMETHEUS", true),
			EnableTracing:    r.boolean("OBS_ENABLE_TRACING", false),
			OTLPEndpoint:     r.str("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio:    r.float("OBS_TRACING_SAMPLING_RATIO", 1),
		},
		Checkout: CheckoutConfig{
			LockTTL:         r.duration("CHECKOUT_LOCK_TTL", 5*time.Second),
			IdempotencyTTL:  r.duration("IDEMPOTENCY_TTL", 24*time.Hour),
			RateLimitMax:    r.integer("RATE_LIMIT_CHECKOUT_MAX", 30),
			RateLimitWindow: r.duration("RATE_LIMIT_CHECKOUT_WINDOW", time.Minute),
		},
		HTTP: HTTPConfig{
			BodyLimitBytes:  int64(r.integer("HTTP_BODY_LIMIT_BYTES", 1<<20)),
			SecurityHeaders: r.boolean("SECURITY_HEADERS_ENABLED", true),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Obs.SamplingRatio < 0 || c.Obs.SamplingRatio > 1 {
		errs = append(errs, errors.New("OBS_TRACING_SAMPLING_RATIO must be between 0 and 1"))
	}
	if c.Checkout.RateLimitMax < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_CHECKOUT_MAX must not be negative"))
	}
	if c.Checkout.LockTTL <= 0 {
		errs = append(errs, errors.New("CHECKOUT_LOCK_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// HTTPAddr returns the listen address; PORT may be given with or without the colon.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func (c *Config) RedisEnabled() bool { return c.RedisURL != "" }

// reader resolves typed values from koanf. Blank or unparsable values take
// the default.
type reader struct {
	k *koanf.Koanf
}

func (r reader) raw(key string) string { return strings.TrimSpace(r.k.String(key)) }

func (r reader) str(key, def string) string {
	if v := r.raw(key); v != "" {
		return v
	}
	return def
}

func (r reader) boolean(key string, def bool) bool {
	switch strings.ToLower(r.raw(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func (r reader) duration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(r.raw(key)); err == nil {
		return d
	}
	return def
}

func (r reader) integer(key string, def int) int {
	return common.AtoiDefault(r.raw(key), def)
}

func (r reader) float(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(r.raw(key), 64); err == nil {
		return f
	}
	return def
}

func splitAndTrim(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
