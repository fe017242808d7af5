package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/filmgrid/catalog/internal/core/domain"
)

// MockCache is an in-memory Cache for testing. TTLs are recorded but not
// enforced.
type MockCache struct {
	mu     sync.RWMutex
	values map[string][]byte
	ttls   map[string]time.Duration

	// Error injection
	GetErr error
	SetErr error

	// Call counters
	GetCalls int
	SetCalls int
}

// NewMockCache creates a new MockCache
func NewMockCache() *MockCache {
	return &MockCache{
		values: make(map[string][]byte),
		ttls:   make(map[string]time.Duration),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

// TTL returns the TTL a key was stored with
func (m *MockCache) TTL(key string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ttls[key]
}

// Has reports whether a key is present
func (m *MockCache) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[key]
	return ok
}
