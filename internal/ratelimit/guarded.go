package ratelimit

import (
	"context"
	"time"

	"github.com/noah-isme/toko-loyalty/internal/resilience"
)

// Guarded prefers Primary and uses Fallback while Primary fails or its
// breaker is open.
type Guarded struct {
	Primary  Limiter
	Fallback Limiter
	Breaker  *resilience.Breaker
}

// Allow implements Limiter.
func (g Guarded) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	if g.Primary != nil && (g.Breaker == nil || g.Breaker.Allow(ctx)) {
		allowed, remaining, reset, err := g.Primary.Allow(ctx, key, window, max)
		if g.Breaker != nil {
			g.Breaker.Report(ctx, err == nil)
		}
		if err == nil || g.Fallback == nil {
			return allowed, remaining, reset, err
		}
	}
	if g.Fallback == nil {
		return false, 0, time.Now().Add(window), resilience.ErrOpenCircuit
	}
	return g.Fallback.Allow(ctx, key, window, max)
}
