package driving

import (
	"context"

	"github.com/filmgrid/catalog/internal/core/domain"
)

// FilmService serves film lookups and title search
type FilmService interface {
	GetByID(ctx context.Context, id string) (*domain.Film, error)
	SearchByTitle(ctx context.Context, query string, page domain.Page) ([]domain.FilmSummary, int, error)
}

// GenreService serves genre lookups
type GenreService interface {
	GetByID(ctx context.Context, id string) (*domain.Genre, error)
	List(ctx context.Context, page domain.Page) ([]*domain.Genre, error)
}

// PersonService serves person lookups
type PersonService interface {
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	List(ctx context.Context, page domain.Page) ([]*domain.Person, error)
}

// IngestService loads upstream movies into the primary films index
type IngestService interface {
	IngestFilms(ctx context.Context, targetIndex string) (*domain.LoadReport, error)
}
