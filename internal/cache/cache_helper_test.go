package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "test:"), mr
}

func TestCacheHelper_SetAndExpire(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	if err := helper.SetString(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if !mr.Exists("test:k") {
		t.Fatal("expected prefixed key in redis")
	}

	if got, _ := mr.Get("test:k"); got != "v" {
		t.Fatalf("stored value = %q, want v", got)
	}

	ok, err := helper.Exists(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}

	mr.FastForward(2 * time.Minute)
	ok, err = helper.Exists(ctx, "k")
	if err != nil || ok {
		t.Fatalf("Exists after expiry = %v, %v", ok, err)
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "x:")
	ctx := context.Background()

	if err := helper.SetString(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("writes without a client should be no-ops, got %v", err)
	}
	if _, err := helper.Exists(ctx, "k"); !errors.Is(err, ErrCacheNotAvailable) {
		t.Fatalf("expected ErrCacheNotAvailable, got %v", err)
	}
	if err := NewCacheManager(nil).HealthCheck(ctx); !errors.Is(err, ErrCacheNotAvailable) {
		t.Fatalf("expected ErrCacheNotAvailable, got %v", err)
	}
}

