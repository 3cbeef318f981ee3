package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// RateLimiter 以固定窗口限制每个主体的导出次数。
type RateLimiter struct {
	client redisRateCounter
	limit  int
	window time.Duration
}

// NewRateLimiter returns nil when limit <= 0 or client is nil, which disables limiting.
func NewRateLimiter(client redisRateCounter, limit int, window time.Duration) *RateLimiter {
	if client == nil || limit <= 0 {
		return nil
	}
	if window < time.Second {
		window = time.Hour
	}
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow 计数并判断是否超过上限。Redis 不可用时放行，只记录错误。
func (l *RateLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	if l == nil {
		return true, nil
	}
	key := fmt.Sprintf("ratelimit:pdf:%s:%d", subject, time.Now().Unix()/int64(l.window.Seconds()))
	count, err := incrWithTTL(ctx, l.client, key, l.window)
	if err != nil {
		return true, fmt.Errorf("incr rate counter: %w", err)
	}
	return count <= int64(l.limit), nil
}
