package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// TokenBucket is a simple in-memory per-key rate limiter using the token bucket algorithm.
// It is safe for concurrent use. Stale buckets are automatically cleaned up.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64 // maximum tokens
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket creates a rate limiter that allows up to capacity tokens per key,
// refilling at the given rate (tokens per second). It starts a background goroutine
// that periodically removes stale buckets.
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	tb := &TokenBucket{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
	}
	go tb.cleanup()
	return tb
}

// Allow reports whether the given key is allowed to proceed under the rate limit.
// Each call consumes one token. Returns false if the bucket is empty.
func (tb *TokenBucket) Allow(_ context.Context, key string) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, last: now}
		tb.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*tb.rate, tb.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// cleanup runs periodically and removes buckets that haven't been accessed in 10 minutes.
func (tb *TokenBucket) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		tb.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for key, b := range tb.buckets {
			if b.last.Before(cutoff) {
				delete(tb.buckets, key)
			}
		}
		tb.mu.Unlock()
	}
}

// RedisLimiter is a fixed-window limiter shared by every instance using the
// same Redis. It fails open: a Redis error lets the request through.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

// NewRedisLimiter allows limit requests per key in each window.
func NewRedisLimiter(client *redis.Client, limit int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window, prefix: "timeclock:ratelimit"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	slot := time.Now().UnixNano() / int64(l.window)
	k := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("rate limiter unavailable", "error", err)
		return true
	}
	return incr.Val() <= l.limit
}
