package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Sliding is a sliding window limiter over a Redis sorted set per key. Each
// admitted event is a member scored by its timestamp.
type Sliding struct {
	Client *redis.Client
	Prefix string
}

// Allow implements Limiter. Rejected attempts are removed again so they do
// not extend the caller's penalty, and reset reports when the oldest event in
// the window expires.
func (l Sliding) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	now := time.Now()
	if l.Client == nil || max <= 0 || window <= 0 {
		return true, max, now.Add(window), nil
	}

	setKey := l.Prefix + key
	member := uuid.NewString()
	cutoff := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	var count *redis.IntCmd
	var oldest *redis.ZSliceCmd
	_, err := l.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, setKey, "-inf", "("+cutoff)
		p.ZAdd(ctx, setKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
		count = p.ZCard(ctx, setKey)
		oldest = p.ZRangeWithScores(ctx, setKey, 0, 0)
		p.PExpire(ctx, setKey, window)
		return nil
	})
	if err != nil {
		return false, 0, now.Add(window), err
	}

	reset := now.Add(window)
	if first := oldest.Val(); len(first) == 1 {
		reset = time.Unix(0, int64(first[0].Score)).Add(window)
	}
	current := int(count.Val())
	if current > max {
		if err := l.Client.ZRem(ctx, setKey, member).Err(); err != nil {
			return false, 0, reset, err
		}
		return false, 0, reset, nil
	}
	return true, max - current, reset, nil
}
