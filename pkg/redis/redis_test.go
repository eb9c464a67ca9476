package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/wonny/quotecert/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), &config.Config{
		Redis: config.RedisConfig{Enabled: false},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on disabled client error = %v", err)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")

	allowed, remaining, err := limiter.Allow(context.Background(), PublicVerifyRateLimit)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("Expected request to be allowed when Redis disabled")
	}
	if remaining != PublicVerifyRateLimit.Limit {
		t.Errorf("Expected remaining = %d, got %d", PublicVerifyRateLimit.Limit, remaining)
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	if err := cache.Set(ctx, "key", "value", TTLShort); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var result string
	found, err := cache.Get(ctx, "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}
}

func TestRateLimitConfig_ForClient(t *testing.T) {
	scoped := PublicVerifyRateLimit.ForClient("10.0.0.1")

	if scoped.Key != "public_verify:10.0.0.1" {
		t.Errorf("got %q", scoped.Key)
	}
	if PublicVerifyRateLimit.Key != "public_verify" {
		t.Error("ForClient must not mutate the preset")
	}
}

func TestCertificationKey(t *testing.T) {
	if got := CertificationKey("abc"); got != "certification:abc" {
		t.Errorf("got %q, want %q", got, "certification:abc")
	}
}

func TestRateLimiter_Live(t *testing.T) {
	if os.Getenv("REDIS_TEST_HOST") == "" || testing.Short() {
		t.Skip("REDIS_TEST_HOST not set, skipping integration test")
	}

	client, err := New(context.Background(), &config.Config{
		Redis: config.RedisConfig{Host: os.Getenv("REDIS_TEST_HOST"), Port: "6379", Enabled: true},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	limiter := NewRateLimiter(client, "test")
	cfg := RateLimitConfig{Key: "live-" + time.Now().Format("150405.000"), Limit: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(context.Background(), cfg)
		if err != nil || !allowed {
			t.Fatalf("request %d: allowed=%v err=%v", i, allowed, err)
		}
	}

	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if allowed || remaining != 0 {
		t.Errorf("Expected third request to be limited, got allowed=%v remaining=%d", allowed, remaining)
	}
}
