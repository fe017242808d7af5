package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/filmgrid/catalog/internal/core/domain"
	"github.com/filmgrid/catalog/internal/core/ports/driven"
	"github.com/filmgrid/catalog/internal/core/ports/driving"
)

// cacheTTL is how long read-path lookups stay cached
const cacheTTL = 5 * time.Minute

// Verify interface compliance
var _ driving.FilmService = (*FilmService)(nil)

// FilmService serves film lookups and title search with a cache-aside read
// path. Cache failures degrade to direct index reads.
type FilmService struct {
	docIndex driven.DocumentIndex
	cache    driven.Cache
	index    string
	logger   *slog.Logger
}

// NewFilmService creates a new film service reading the given index.
func NewFilmService(docIndex driven.DocumentIndex, cache driven.Cache, index string, logger *slog.Logger) *FilmService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilmService{docIndex: docIndex, cache: cache, index: index, logger: logger}
}

// GetByID returns one film, from cache when possible.
func (s *FilmService) GetByID(ctx context.Context, id string) (*domain.Film, error) {
	key := "film:" + id

	var film domain.Film
	if cacheGet(ctx, s.cache, s.logger, key, &film) {
		return &film, nil
	}

	raw, err := s.docIndex.GetByID(ctx, s.index, id)
	if err != nil {
		return nil, err
	}

	parsed, err := parseFilm(id, raw)
	if err != nil {
		return nil, err
	}

	cacheSet(ctx, s.cache, s.logger, key, parsed)
	return parsed, nil
}

// SearchByTitle searches films by title with pagination. Returns the page of
// summaries and the total hit count.
func (s *FilmService) SearchByTitle(ctx context.Context, query string, page domain.Page) ([]domain.FilmSummary, int, error) {
	if err := page.Validate(); err != nil {
		return nil, 0, err
	}

	hits, total, err := s.docIndex.Search(ctx, s.index, domain.SearchQuery{
		MatchField: "title",
		MatchValue: query,
		From:       page.Offset(),
		Size:       page.Size,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("search films: %w", err)
	}

	summaries := make([]domain.FilmSummary, 0, len(hits))
	for _, hit := range hits {
		film, err := parseFilm(hit.ID, hit.Source)
		if err != nil {
			s.logger.Warn("skipping malformed film document", "doc_id", hit.ID, "error", err)
			continue
		}
		summaries = append(summaries, film.Summary())
	}
	return summaries, total, nil
}

// parseFilm decodes and validates a raw film document. The document ID is
// authoritative over any id field embedded in the body.
func parseFilm(id string, raw json.RawMessage) (*domain.Film, error) {
	var film domain.Film
	if err := json.Unmarshal(raw, &film); err != nil {
		return nil, fmt.Errorf("decode film %s: %w", id, err)
	}
	film.ID = id
	if film.Title == "" {
		return nil, fmt.Errorf("film %s: %w: missing title", id, domain.ErrInvalidInput)
	}
	return &film, nil
}

// cacheGet loads key into out, reporting whether it hit. Cache errors are
// logged and treated as misses.
func cacheGet(ctx context.Context, cache driven.Cache, logger *slog.Logger, key string, out any) bool {
	if cache == nil {
		return false
	}
	data, err := cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

// cacheSet stores value under key; failures are logged, not propagated.
func cacheSet(ctx context.Context, cache driven.Cache, logger *slog.Logger, key string, value any) {
	if cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := cache.Set(ctx, key, data, cacheTTL); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
}
