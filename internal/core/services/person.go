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
var _ driving.PersonService = (*PersonService)(nil)

// PersonService serves person lookups from the denormalized persons index
// with a cache-aside read path. Person records are stored one per
// (id, role), so a lookup by person ID returns the first matching record.
type PersonService struct {
	docIndex driven.DocumentIndex
	cache    driven.Cache
	index    string
	logger   *slog.Logger
}

// NewPersonService creates a new person service reading the given index.
func NewPersonService(docIndex driven.DocumentIndex, cache driven.Cache, index string, logger *slog.Logger) *PersonService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersonService{docIndex: docIndex, cache: cache, index: index, logger: logger}
}

// GetByID returns one person by their canonical ID, from cache when
// possible. Person documents carry composite (id:role) document IDs, so the
// lookup goes through a term query on the id field.
func (s *PersonService) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	key := "person:" + id

	var person domain.Person
	if cacheGet(ctx, s.cache, s.logger, key, &person) {
		return &person, nil
	}

	hits, _, err := s.docIndex.Search(ctx, s.index, domain.SearchQuery{
		MatchField: "id",
		MatchValue: id,
		Size:       1,
	})
	if err != nil {
		return nil, fmt.Errorf("lookup person %s: %w", id, err)
	}
	if len(hits) == 0 {
		return nil, domain.ErrNotFound
	}

	parsed, err := parsePerson(hits[0].ID, hits[0].Source)
	if err != nil {
		return nil, err
	}

	cacheSet(ctx, s.cache, s.logger, key, parsed)
	return parsed, nil
}

// List returns one page of all persons.
func (s *PersonService) List(ctx context.Context, page domain.Page) ([]*domain.Person, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	hits, _, err := s.docIndex.Search(ctx, s.index, domain.SearchQuery{
		From: page.Offset(),
		Size: page.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}

	persons := make([]*domain.Person, 0, len(hits))
	for _, hit := range hits {
		person, err := parsePerson(hit.ID, hit.Source)
		if err != nil {
			s.logger.Warn("skipping malformed person document", "doc_id", hit.ID, "error", err)
			continue
		}
		persons = append(persons, person)
	}
	return persons, nil
}

// parsePerson decodes and validates a raw person document.
func parsePerson(docID string, raw json.RawMessage) (*domain.Person, error) {
	var person domain.Person
	if err := json.Unmarshal(raw, &person); err != nil {
		return nil, fmt.Errorf("decode person %s: %w", docID, err)
	}
	if person.ID == "" || person.Name == "" {
		return nil, fmt.Errorf("person %s: %w: missing id or name", docID, domain.ErrInvalidInput)
	}
	return &person, nil
}
