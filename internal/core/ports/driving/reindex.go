package driving

import (
	"context"

	"github.com/filmgrid/catalog/internal/core/domain"
)

// ReindexService runs denormalization rebuilds of secondary indices
type ReindexService interface {
	// Rebuild runs one full scan-extract-recreate-load cycle for the spec.
	// The returned report is populated even when err is non-nil.
	Rebuild(ctx context.Context, spec domain.RebuildSpec) (*domain.RebuildReport, error)

	// RebuildGenres rebuilds the genres index from the films index
	RebuildGenres(ctx context.Context, sourceIndex, targetIndex string) (*domain.RebuildReport, error)

	// RebuildPersons rebuilds the persons index from the films index
	RebuildPersons(ctx context.Context, sourceIndex, targetIndex string) (*domain.RebuildReport, error)
}
