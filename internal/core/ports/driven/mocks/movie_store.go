package mocks

import (
	"context"
	"sync"

	"github.com/filmgrid/catalog/internal/core/domain"
)

// MockMovieStore is an in-memory MovieStore for testing
type MockMovieStore struct {
	mu    sync.RWMutex
	films []*domain.Film

	// ListErr fails every ListFilms call when set
	ListErr error
}

// NewMockMovieStore creates a new MockMovieStore
func NewMockMovieStore(films ...*domain.Film) *MockMovieStore {
	return &MockMovieStore{films: films}
}

func (m *MockMovieStore) ListFilms(ctx context.Context, minRating float64) ([]*domain.Film, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []*domain.Film
	for _, f := range m.films {
		if f.IMDBRating > minRating {
			out = append(out, f)
		}
	}
	return out, nil
}
