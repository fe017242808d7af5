package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/filmgrid/catalog/internal/core/domain"
)

// setupTestCache creates a miniredis-backed Cache
func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return NewCache(client), mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestCache_SetGet(t *testing.T) {
	cache, mr, cleanup := setupTestCache(t)
	defer cleanup()

	ctx := context.Background()
	if err := cache.Set(ctx, "film:f1", []byte(`{"title":"Gran Torino"}`), 5*time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := cache.Get(ctx, "film:f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"title":"Gran Torino"}` {
		t.Errorf("unexpected value: %s", data)
	}

	ttl := mr.TTL("film:f1")
	if ttl <= 0 || ttl > 5*time.Minute {
		t.Errorf("unexpected ttl: %v", ttl)
	}
}

func TestCache_GetMiss(t *testing.T) {
	cache, _, cleanup := setupTestCache(t)
	defer cleanup()

	_, err := cache.Get(context.Background(), "absent")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestCache_Expiry(t *testing.T) {
	cache, mr, cleanup := setupTestCache(t)
	defer cleanup()

	ctx := context.Background()
	if err := cache.Set(ctx, "film:f1", []byte(`{}`), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, "film:f1")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestCache_Ping(t *testing.T) {
	cache, _, cleanup := setupTestCache(t)
	defer cleanup()

	if err := cache.Ping(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
