package ratelimit

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/noah-isme/toko-loyalty/internal/common"
)

// Limiter decides whether one more event for key fits in the window.
type Limiter interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error)
}

// Config selects the bucket for a request and its quota. Max <= 0 disables
// limiting.
type Config struct {
	Key    func(*http.Request) string
	Window time.Duration
	Max    int
}

// Handler enforces a Config with a Limiter. A failing limiter is reported
// through OnError and never blocks traffic.
type Handler struct {
	Limiter Limiter
	Config  Config
	OnError func(error)
}

type quota struct {
	limit     int
	remaining int
	reset     time.Time
}

func (q quota) write(h http.Header) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(q.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(q.remaining, 0)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(q.reset.Unix(), 10))
}

// retryAfter rounds up so clients never retry before the window frees a slot.
func (q quota) retryAfter(now time.Time) int {
	wait := q.reset.Sub(now).Seconds()
	if wait <= 0 {
		return 0
	}
	return int(math.Ceil(wait))
}

func (h Handler) enabled() bool {
	return h.Limiter != nil && h.Config.Key != nil && h.Config.Max > 0
}

func (h Handler) Middleware(next http.Handler) http.Handler {
	if !h.enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining, reset, err := h.Limiter.Allow(r.Context(), h.Config.Key(r), h.Config.Window, h.Config.Max)
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}
		q := quota{limit: h.Config.Max, remaining: remaining, reset: reset}
		q.write(w.Header())
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(q.retryAfter(time.Now())))
			common.JSONError(w, http.StatusTooManyRequests, common.CodeRateLimited, "too many checkout attempts, retry later", map[string]any{
				"limit":  h.Config.Max,
				"window": h.Config.Window.String(),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
