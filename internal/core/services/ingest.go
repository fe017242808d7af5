package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filmgrid/catalog/internal/core/domain"
	"github.com/filmgrid/catalog/internal/core/ports/driven"
	"github.com/filmgrid/catalog/internal/core/ports/driving"
	"github.com/filmgrid/catalog/internal/retry"
)

// Verify interface compliance
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor loads the upstream movies table into the primary films index.
// Unlike rebuild targets the films index is created when absent, never
// dropped: ingest is additive.
type Ingestor struct {
	movies driven.MovieStore
	admin  driven.IndexAdmin
	logger *slog.Logger

	policy    retry.Policy
	batchSize int
	minRating float64
}

// IngestorConfig holds dependencies for Ingestor.
type IngestorConfig struct {
	MovieStore driven.MovieStore
	IndexAdmin driven.IndexAdmin
	Logger     *slog.Logger

	// RetryPolicy defaults to retry.DefaultPolicy()
	RetryPolicy *retry.Policy

	// BatchSize is the bulk-write batch size (default 500)
	BatchSize int

	// MinRating filters upstream movies (default 0, everything rated)
	MinRating float64
}

// NewIngestor creates a new film ingestor.
func NewIngestor(cfg IngestorConfig) *Ingestor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	policy := retry.DefaultPolicy()
	if cfg.RetryPolicy != nil {
		policy = *cfg.RetryPolicy
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	return &Ingestor{
		movies:    cfg.MovieStore,
		admin:     cfg.IndexAdmin,
		logger:    logger,
		policy:    policy,
		batchSize: batchSize,
		minRating: cfg.MinRating,
	}
}

// IngestFilms reads all qualifying movies and bulk-indexes them.
func (i *Ingestor) IngestFilms(ctx context.Context, targetIndex string) (*domain.LoadReport, error) {
	films, err := i.movies.ListFilms(ctx, i.minRating)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	i.logger.Info("ingesting films", "count", len(films), "target", targetIndex)

	if err := i.ensureIndex(ctx, targetIndex); err != nil {
		return nil, err
	}

	report := &domain.LoadReport{}
	for start := 0; start < len(films); start += i.batchSize {
		end := start + i.batchSize
		if end > len(films) {
			end = len(films)
		}

		docs := make([]driven.BulkDoc, 0, end-start)
		for _, f := range films[start:end] {
			docs = append(docs, driven.BulkDoc{ID: f.ID, Body: f})
		}

		var succeeded int
		var failed []driven.BulkItemError
		err := retry.Do(ctx, i.logger, i.policy, "bulk write", func(ctx context.Context) error {
			var err error
			succeeded, failed, err = i.admin.BulkWrite(ctx, targetIndex, docs)
			return err
		})
		if err != nil {
			return report, fmt.Errorf("bulk write films: %w", err)
		}

		report.Succeeded += succeeded
		report.Failed += len(failed)
		if len(failed) > 0 {
			return report, fmt.Errorf("bulk write rejected %d of %d films", len(failed), len(docs))
		}
	}

	i.logger.Info("ingest complete", "loaded", report.Succeeded)
	return report, nil
}

// ensureIndex creates the films index with its mapping when absent.
func (i *Ingestor) ensureIndex(ctx context.Context, index string) error {
	var exists bool
	err := retry.Do(ctx, i.logger, i.policy, "index exists", func(ctx context.Context) error {
		var err error
		exists, err = i.admin.Exists(ctx, index)
		return err
	})
	if err != nil {
		return fmt.Errorf("exists check: %w", err)
	}
	if exists {
		return nil
	}

	i.logger.Info("creating films index", "index", index)
	err = retry.Do(ctx, i.logger, i.policy, "index create", func(ctx context.Context) error {
		return i.admin.Create(ctx, index, domain.FilmsSchema())
	})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}
