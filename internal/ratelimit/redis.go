package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("ratelimit.redis")

// RedisLimiter is a fixed-window counter shared by every server instance.
type RedisLimiter struct {
	rdb      *redis.Client
	requests int64
	window   time.Duration
	prefix   string
}

// NewRedisLimiter allows requests per window for each key.
func NewRedisLimiter(rdb *redis.Client, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		rdb:      rdb,
		requests: int64(requests),
		window:   window,
		prefix:   "ratelimit",
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	ctx, span := tracer.Start(ctx, "RedisLimiter.Allow", trace.WithAttributes(
		attribute.String("ratelimit.key", key),
	))
	defer span.End()

	windowStart := time.Now().Truncate(l.window).Unix()
	counterKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, windowStart)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, counterKey)
	pipe.Expire(ctx, counterKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count request")
		return false, fmt.Errorf("failed to count request in redis: %w", err)
	}

	allowed := incr.Val() <= l.requests
	span.SetAttributes(attribute.Int64("ratelimit.count", incr.Val()), attribute.Bool("ratelimit.allowed", allowed))
	return allowed, nil
}
