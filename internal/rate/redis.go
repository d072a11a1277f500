package rate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares windows across server instances. When Redis is
// unreachable requests are allowed through.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// Connect builds a Redis client from a redis:// URL or a bare host:port.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

func NewRedis(client *redis.Client, logger *slog.Logger) *RedisLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLimiter{client: client, prefix: "skillswap:rl:", logger: logger.With("module", "rate")}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration) {
	redisKey := r.prefix + key
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, redisKey)
		ttl = p.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		r.failOpen(ctx, err)
		return true, 0
	}

	retry := ttl.Val()
	// A key without expiry was just created by this INCR and opens a new window.
	if retry < 0 {
		if err := r.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			r.failOpen(ctx, err)
		}
		retry = window
	}
	return incr.Val() <= int64(limit), retry
}

func (r *RedisLimiter) failOpen(ctx context.Context, err error) {
	r.logger.WarnContext(ctx, "rate limiter unavailable",
		"operation", "rate.allow",
		"outcome", "fail_open",
		"error", err.Error(),
	)
}
