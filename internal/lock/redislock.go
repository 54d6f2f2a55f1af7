package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/toko-loyalty/internal/resilience"
)

const maxBackoffDoublings = 4

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another holder is left alone.
var releaseScript = redis.NewScript(`if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
end
return 0`)

// Redis is a Locker shared by every replica pointed at the same Redis.
type Redis struct {
	R            *redis.Client
	Prefix       string
	RetryBackoff time.Duration
}

// WithLock implements Locker. Acquisition retries with jittered exponential
// backoff until ctx is done; the lock is released when fn returns, whatever
// its result. ttl bounds how long a crashed holder can block others.
func (l Redis) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error {
	if l.R == nil {
		return errors.New("lock: redis client not configured")
	}
	if fn == nil {
		return errors.New("lock: callback not provided")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	base := l.RetryBackoff
	if base <= 0 {
		base = 50 * time.Millisecond
	}

	redisKey := l.Prefix + key
	token := uuid.NewString()
	if err := l.acquire(ctx, redisKey, token, ttl, base); err != nil {
		return err
	}
	defer func() {
		_ = releaseScript.Run(context.WithoutCancel(ctx), l.R, []string{redisKey}, token).Err()
	}()
	return fn(ctx)
}

func (l Redis) acquire(ctx context.Context, key, token string, ttl, base time.Duration) error {
	for attempt := 1; ; attempt++ {
		ok, err := l.R.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		wait := time.NewTimer(resilience.Backoff(base, min(attempt, maxBackoffDoublings), 0.2))
		select {
		case <-ctx.Done():
			wait.Stop()
			return ctx.Err()
		case <-wait.C:
		}
	}
}
