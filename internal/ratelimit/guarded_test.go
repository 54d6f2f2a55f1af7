package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-loyalty/internal/resilience"
)

type failingLimiter struct{ calls int }

func (f *failingLimiter) Allow(context.Context, string, time.Duration, int) (bool, int, time.Time, error) {
	f.calls++
	return false, 0, time.Time{}, errors.New("redis down")
}

func TestGuardedFallsBackAndOpensBreaker(t *testing.T) {
	primary := &failingLimiter{}
	g := Guarded{
		Primary:  primary,
		Fallback: NewMemory(),
		Breaker:  resilience.NewBreaker(1, 0.5, time.Minute),
	}
	ctx := context.Background()

	allowed, _, _, err := g.Allow(ctx, "k", time.Minute, 1)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, _, err = g.Allow(ctx, "k", time.Minute, 1)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, 1, primary.calls, "open breaker must skip the primary")
}

func TestGuardedWithoutFallbackReturnsError(t *testing.T) {
	g := Guarded{Primary: &failingLimiter{}}
	_, _, _, err := g.Allow(context.Background(), "k", time.Minute, 1)
	require.Error(t, err)
}
