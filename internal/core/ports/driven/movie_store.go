package driven

import (
	"context"

	"github.com/filmgrid/catalog/internal/core/domain"
)

// MovieStore reads the upstream relational movies table that seeds the
// primary films index
type MovieStore interface {
	// ListFilms returns all movies rated above minRating, ordered by ID
	ListFilms(ctx context.Context, minRating float64) ([]*domain.Film, error)
}
