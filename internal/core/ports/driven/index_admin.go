package driven

import (
	"context"

	"github.com/filmgrid/catalog/internal/core/domain"
)

// BulkDoc is one record of a bulk write
type BulkDoc struct {
	ID   string
	Body any
}

// BulkItemError describes a single rejected record of a bulk write
type BulkItemError struct {
	DocID  string
	Status int
	Reason string
}

// IndexAdmin is the admin side of the document-search engine: index
// lifecycle and bulk writes
type IndexAdmin interface {
	// Exists reports whether the index exists
	Exists(ctx context.Context, index string) (bool, error)

	// Create creates the index with an explicit field mapping
	Create(ctx context.Context, index string, schema domain.IndexSchema) error

	// Delete drops the index. Deleting a missing index is not an error.
	Delete(ctx context.Context, index string) error

	// BulkWrite indexes all docs in one bulk request and reports how many
	// succeeded plus the per-record rejections. A non-nil error means the
	// request itself failed and no counts are meaningful.
	BulkWrite(ctx context.Context, index string, docs []BulkDoc) (int, []BulkItemError, error)
}
