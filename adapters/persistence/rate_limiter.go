package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter counts requests per key in fixed one-minute windows.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisRateLimiter(rdb *redis.Client, perMinute int) *RedisRateLimiter {
	return &RedisRateLimiter{
		rdb:    rdb,
		limit:  int64(perMinute),
		window: time.Minute,
		now:    time.Now,
	}
}

// Allow records one request for key and reports whether it is within the
// limit for the current window.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	bucket := l.now().UTC().Truncate(l.window).Unix()
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return incr.Val() <= l.limit, nil
}
