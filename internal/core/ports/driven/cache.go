package driven

import (
	"context"
	"time"
)

// Cache is the read-path cache-aside store. Get returns domain.ErrCacheMiss
// for absent keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
