package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestSlidingAllowWindow(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()
	limiter := Sliding{Client: client, Prefix: "test:"}

	ctx := context.Background()
	window := 2 * time.Second
	max := 2

	for i := 0; i < max; i++ {
		allowed, remaining, _, err := limiter.Allow(ctx, "key", window, max)
		require.NoError(t, err)
		require.True(t, allowed, "request %d", i)
		require.Equal(t, max-(i+1), remaining)
	}

	allowed, remaining, _, err := limiter.Allow(ctx, "key", window, max)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Zero(t, remaining)

	mr.FastForward(window)

	allowed, _, _, err = limiter.Allow(ctx, "key", window, max)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestMemoryAllow(t *testing.T) {
	limiter := NewMemory()
	ctx := context.Background()

	allowed, remaining, reset, err := limiter.Allow(ctx, "k", time.Minute, 1)
	require.NoError(t, err)
	require.True(t, allowed)
	require.Zero(t, remaining)
	require.True(t, reset.After(time.Now().Add(-time.Second)))

	allowed, _, _, err = limiter.Allow(ctx, "k", time.Minute, 1)
	require.NoError(t, err)
	require.False(t, allowed)

	allowed, remaining, _, err = Memory{}.Allow(ctx, "k", time.Minute, 1)
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, 1, remaining)
}
