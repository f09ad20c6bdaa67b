package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimitStats counts allowed and denied decisions in Redis hashes:
// a cumulative total, per-minute buckets, and per-route counters.
type RedisRateLimitStats struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisRateLimitStats(rdb *redis.Client, prefix string) *RedisRateLimitStats {
	if prefix == "" {
		prefix = "ratelimit:stats"
	}
	return &RedisRateLimitStats{
		rdb:    rdb,
		prefix: strings.Trim(prefix, ":"),
		ttl:    24 * time.Hour,
	}
}

func (s *RedisRateLimitStats) Record(ctx context.Context, ev RateLimitEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
	pipe.HIncrBy(ctx, bucketKey, field, 1)
	pipe.Expire(ctx, bucketKey, s.ttl)

	if route := strings.TrimSpace(ev.Method + " " + ev.Path); route != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record rate limit stats: %w", err)
	}
	return nil
}
