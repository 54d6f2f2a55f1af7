package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotLoaded is reported by a DataChecker whose source is empty.
var ErrNotLoaded = errors.New("not loaded")

var ready atomic.Bool

func init() { ready.Store(true) }

// SetReady toggles the process wide readiness flag. It is cleared on shutdown
// so load balancers drain the instance before the server stops.
func SetReady(v bool) { ready.Store(v) }

// Checker represents a dependency that can be probed for readiness.
type Checker interface {
	Ping(ctx context.Context, timeout time.Duration) error
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context, timeout time.Duration) error

func (f CheckerFunc) Ping(ctx context.Context, timeout time.Duration) error { return f(ctx, timeout) }

// RedisChecker pings Redis. A nil client means Redis is not configured and
// the check always passes.
type RedisChecker struct {
	Client *redis.Client
}

func (c RedisChecker) Ping(ctx context.Context, timeout time.Duration) error {
	if c.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Client.Ping(ctx).Err()
}

// DataChecker fails until the counted source holds at least one entry.
type DataChecker struct {
	Count func() int
}

func (c DataChecker) Ping(context.Context, time.Duration) error {
	if c.Count == nil || c.Count() == 0 {
		return ErrNotLoaded
	}
	return nil
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checks  map[string]Checker
	Timeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on dependency probes.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !ready.Load() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	if len(h.Checks) == 0 {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		status[name] = "ok"
		if err := h.Checks[name].Ping(r.Context(), h.timeout()); err != nil {
			status[name] = err.Error()
			healthy = false
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (h Handler) timeout() time.Duration {
	if h.Timeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.Timeout
}
