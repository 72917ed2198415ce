package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/msomdec/timeclock/internal/service"
)

func TestTokenBucket_AllowsUpToCapacity(t *testing.T) {
	ctx := context.Background()
	tb := service.NewTokenBucket(1, 3) // rate=1/s, capacity=3

	// Should allow 3 requests immediately (full bucket).
	for i := 0; i < 3; i++ {
		if !tb.Allow(ctx, "test-key") {
			t.Fatalf("request %d should be allowed (bucket not yet empty)", i+1)
		}
	}

	// 4th request should be denied (bucket empty).
	if tb.Allow(ctx, "test-key") {
		t.Fatal("4th request should be denied (bucket empty)")
	}
}

func TestTokenBucket_DifferentKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	tb := service.NewTokenBucket(1, 1) // capacity=1

	if !tb.Allow(ctx, "ip-a") {
		t.Fatal("ip-a first request should be allowed")
	}
	if tb.Allow(ctx, "ip-a") {
		t.Fatal("ip-a second request should be denied")
	}

	// ip-b has its own bucket.
	if !tb.Allow(ctx, "ip-b") {
		t.Fatal("ip-b first request should be allowed (independent bucket)")
	}
}

func TestTokenBucket_NewKeyStartsFull(t *testing.T) {
	ctx := context.Background()
	tb := service.NewTokenBucket(10, 5)

	for i := 0; i < 5; i++ {
		if !tb.Allow(ctx, "new-key") {
			t.Fatalf("new key request %d should be allowed (starts full)", i+1)
		}
	}
	if tb.Allow(ctx, "new-key") {
		t.Fatal("6th request should be denied")
	}
}

func TestTokenBucket_ZeroRateNeverRefills(t *testing.T) {
	ctx := context.Background()
	tb := service.NewTokenBucket(0, 2) // never refills

	if !tb.Allow(ctx, "k") {
		t.Fatal("first request should be allowed")
	}
	if !tb.Allow(ctx, "k") {
		t.Fatal("second request should be allowed")
	}
	if tb.Allow(ctx, "k") {
		t.Fatal("third request should be denied (no refill)")
	}
}

var (
	_ service.Limiter = (*service.TokenBucket)(nil)
	_ service.Limiter = (*service.RedisLimiter)(nil)
)

func TestRedisLimiter_FixedWindow(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}

	l := service.NewRedisLimiter(client, 2, time.Minute)
	key := "test-" + t.Name() + "-" + time.Now().Format("150405.000000")

	if !l.Allow(ctx, key) || !l.Allow(ctx, key) {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow(ctx, key) {
		t.Fatal("third request in the window should be denied")
	}
	if !l.Allow(ctx, key+"-other") {
		t.Fatal("other keys have their own window")
	}
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	l := service.NewRedisLimiter(client, 1, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow(context.Background(), "k") {
			t.Fatalf("request %d denied while redis is unreachable", i+1)
		}
	}
}
