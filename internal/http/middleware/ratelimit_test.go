package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryLimiter(t *testing.T) {
	rl := &MemoryLimiter{buckets: map[string]*bucket{}, rate: 0, burst: 2}
	ctx := context.Background()

	if !rl.Allow(ctx, "1.2.3.4") {
		t.Fatal("first request should pass")
	}
	if !rl.Allow(ctx, "1.2.3.4") {
		t.Fatal("second request should pass")
	}
	if rl.Allow(ctx, "1.2.3.4") {
		t.Fatal("third request should be throttled")
	}
	if !rl.Allow(ctx, "5.6.7.8") {
		t.Fatal("different key should have its own bucket")
	}
}

func TestRedisLimiter(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	rl := NewRedisLimiter(client, 2, time.Minute)
	ctx := context.Background()

	if !rl.Allow(ctx, "1.2.3.4") || !rl.Allow(ctx, "1.2.3.4") {
		t.Fatal("requests within the window limit should pass")
	}
	if rl.Allow(ctx, "1.2.3.4") {
		t.Fatal("request over the window limit should be throttled")
	}

	srv.FastForward(2 * time.Minute)
	if !rl.Allow(ctx, "1.2.3.4") {
		t.Fatal("window expiry should reset the counter")
	}
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()
	srv.Close()

	rl := NewRedisLimiter(client, 1, time.Minute)
	if !rl.Allow(context.Background(), "1.2.3.4") {
		t.Fatal("limiter should fail open when redis is down")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := &MemoryLimiter{buckets: map[string]*bucket{}, rate: 0, burst: 1}
	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/public/appointment-request", nil)
	req.Header.Set("X-Real-Ip", "9.9.9.9")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want 201", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
}
