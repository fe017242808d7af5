package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/filmgrid/catalog/internal/core/domain"
	"github.com/filmgrid/catalog/internal/core/ports/driven"
	"github.com/filmgrid/catalog/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.GenreService = (*GenreService)(nil)

// GenreService serves genre lookups from the denormalized genres index with
// a cache-aside read path
type GenreService struct {
	docIndex driven.DocumentIndex
	cache    driven.Cache
	index    string
	logger   *slog.Logger
}

// NewGenreService creates a new genre service reading the given index.
func NewGenreService(docIndex driven.DocumentIndex, cache driven.Cache, index string, logger *slog.Logger) *GenreService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenreService{docIndex: docIndex, cache: cache, index: index, logger: logger}
}

// GetByID returns one genre, from cache when possible.
func (s *GenreService) GetByID(ctx context.Context, id string) (*domain.Genre, error) {
	key := "genre:" + id

	var genre domain.Genre
	if cacheGet(ctx, s.cache, s.logger, key, &genre) {
		return &genre, nil
	}

	raw, err := s.docIndex.GetByID(ctx, s.index, id)
	if err != nil {
		return nil, err
	}

	parsed, err := parseGenre(id, raw)
	if err != nil {
		return nil, err
	}

	cacheSet(ctx, s.cache, s.logger, key, parsed)
	return parsed, nil
}

// List returns one page of all genres.
func (s *GenreService) List(ctx context.Context, page domain.Page) ([]*domain.Genre, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	hits, _, err := s.docIndex.Search(ctx, s.index, domain.SearchQuery{
		From: page.Offset(),
		Size: page.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	genres := make([]*domain.Genre, 0, len(hits))
	for _, hit := range hits {
		genre, err := parseGenre(hit.ID, hit.Source)
		if err != nil {
			s.logger.Warn("skipping malformed genre document", "doc_id", hit.ID, "error", err)
			continue
		}
		genres = append(genres, genre)
	}
	return genres, nil
}

// parseGenre decodes and validates a raw genre document.
func parseGenre(id string, raw json.RawMessage) (*domain.Genre, error) {
	var genre domain.Genre
	if err := json.Unmarshal(raw, &genre); err != nil {
		return nil, fmt.Errorf("decode genre %s: %w", id, err)
	}
	if genre.ID == "" {
		genre.ID = id
	}
	if genre.Name == "" {
		return nil, fmt.Errorf("genre %s: %w: missing name", id, domain.ErrInvalidInput)
	}
	return &genre, nil
}
