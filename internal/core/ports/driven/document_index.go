package driven

import (
	"context"
	"encoding/json"

	"github.com/filmgrid/catalog/internal/core/domain"
)

// DocumentIndex is the read side of the document-search engine
type DocumentIndex interface {
	// ScanPage fetches one page of a full-index scan. An empty cursor opens
	// a new scan; the returned cursor fetches the next page. An empty
	// document slice means the scan is exhausted. Scans are not restartable
	// mid-stream; a failed scan starts over from the beginning.
	ScanPage(ctx context.Context, index, cursor string, size int) ([]domain.RawDocument, string, error)

	// GetByID fetches a single document body. Returns domain.ErrNotFound
	// when the document does not exist.
	GetByID(ctx context.Context, index, id string) (json.RawMessage, error)

	// Search runs a match query and returns the hit documents and the
	// total hit count.
	Search(ctx context.Context, index string, query domain.SearchQuery) ([]domain.RawDocument, int, error)

	// Ping verifies the engine is reachable
	Ping(ctx context.Context) error
}
