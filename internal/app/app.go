// Package app assembles the loyalty services and the HTTP surface around them.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-loyalty/internal/catalog"
	"github.com/noah-isme/toko-loyalty/internal/checkout"
	"github.com/noah-isme/toko-loyalty/internal/common"
	"github.com/noah-isme/toko-loyalty/internal/config"
	"github.com/noah-isme/toko-loyalty/internal/events"
	"github.com/noah-isme/toko-loyalty/internal/health"
	"github.com/noah-isme/toko-loyalty/internal/lock"
	"github.com/noah-isme/toko-loyalty/internal/loyalty"
	"github.com/noah-isme/toko-loyalty/internal/obs"
	"github.com/noah-isme/toko-loyalty/internal/ratelimit"
	"github.com/noah-isme/toko-loyalty/internal/resilience"
	"github.com/noah-isme/toko-loyalty/internal/security"
	"github.com/noah-isme/toko-loyalty/internal/seed"
)

const eventHistory = 1000

// Dependencies enumerates the shared infrastructure handed to New.
type Dependencies struct {
	Config *config.Config
	Logger zerolog.Logger
	// Redis is optional. Without it locks, rate limits and idempotency fall
	// back to in-process implementations or are disabled.
	Redis *redis.Client
	// Metrics receives all collectors. The default registry is used when nil.
	Metrics *prometheus.Registry
	Tracing bool
}

// App is the assembled application.
type App struct {
	Router   http.Handler
	Checkout *checkout.Service
	Events   *events.MemoryStore
}

// NewRedis parses url, instruments the client with OpenTelemetry and checks
// connectivity.
func NewRedis(ctx context.Context, url string, withMetrics bool) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("instrument redis tracing: %w", err)
	}
	if withMetrics {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("instrument redis metrics: %w", err)
		}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// New loads the default catalog and customers and wires the HTTP router.
func New(deps Dependencies) (*App, error) {
	cfg := deps.Config
	if cfg == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	logger := deps.Logger

	products, customers, err := seed.Load()
	if err != nil {
		return nil, fmt.Errorf("load seed data: %w", err)
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	var (
		httpMetrics   *obs.HTTPMetrics
		domainMetrics *obs.DomainMetrics
	)
	if cfg.Obs.EnablePrometheus {
		httpMetrics = obs.NewHTTPMetrics(cfg.Obs.MetricsNamespace, obs.ParseBucketsCSV(cfg.Obs.MetricsBuckets), registerer)
		domainMetrics = obs.NewDomainMetrics(cfg.Obs.MetricsNamespace, registerer)
	}

	store := events.NewMemoryStore(eventHistory)
	bus := &events.Bus{
		Store:     store,
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger.With().Str("component", "events").Logger()}},
	}

	svc := &checkout.Service{
		Catalog:  products,
		Registry: customers,
		LockTTL:  cfg.Checkout.LockTTL,
		Events:   bus,
		Journal:  &checkout.Journal{},
		Metrics:  domainMetrics,
		Logger:   logger.With().Str("component", "checkout").Logger(),
	}

	var limiter ratelimit.Limiter = ratelimit.NewMemory()
	if deps.Redis != nil {
		svc.Locker = lock.Redis{R: deps.Redis, Prefix: "lock:"}
		var breakerMetrics *resilience.Metrics
		if cfg.Obs.EnablePrometheus {
			breakerMetrics = resilience.NewMetrics(cfg.Obs.MetricsNamespace, registerer)
		}
		limiter = ratelimit.Guarded{
			Primary:  ratelimit.Sliding{Client: deps.Redis, Prefix: "ratelimit:"},
			Fallback: limiter,
			Breaker: resilience.NewBreaker(5, 0.5, 30*time.Second).
				WithTarget("redis_ratelimit").
				WithLogger(logger).
				WithMetrics(breakerMetrics),
		}
	}

	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: products, DefaultLimit: 20, MaxLimit: 100})
	customerHandler := &loyalty.Handler{Registry: customers}
	checkoutHandler := &checkout.Handler{Svc: svc, DefaultLimit: 20}
	healthHandler := health.Handler{
		Checks: map[string]health.Checker{
			"redis":     health.RedisChecker{Client: deps.Redis},
			"catalog":   health.DataChecker{Count: products.Len},
			"customers": health.DataChecker{Count: customers.Len},
		},
	}
	idem := common.Idem{R: deps.Redis, TTL: cfg.Checkout.IdempotencyTTL}
	checkoutLimit := ratelimit.Handler{
		Limiter: limiter,
		Config: ratelimit.Config{
			Key:    ratelimit.KeyByClientIP("checkout"),
			Window: cfg.Checkout.RateLimitWindow,
			Max:    cfg.Checkout.RateLimitMax,
		},
		OnError: func(err error) {
			logger.Warn().Err(err).Msg("rate limiter unavailable")
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if deps.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: cfg.HTTP.SecurityHeaders}.Middleware)
	r.Use(security.CORS(allowedOrigins(cfg)))
	r.Use(security.BodyLimit{Max: cfg.HTTP.BodyLimitBytes}.Middleware)

	if cfg.Obs.EnablePrometheus {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/products", catalogHandler.Products)
		v.Get("/customers", customerHandler.List)
		v.Get("/customers/{id}/points", customerHandler.Points)
		v.Get("/transactions", checkoutHandler.Transactions)
		v.With(checkoutLimit.Middleware, idem.Middleware).Post("/transactions", checkoutHandler.Checkout)
	})

	return &App{Router: r, Checkout: svc, Events: store}, nil
}

func allowedOrigins(cfg *config.Config) string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return "*"
	}
	return strings.Join(cfg.CORSAllowedOrigins, ",")
}
