package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/filmgrid/catalog/internal/core/domain"
	"github.com/filmgrid/catalog/internal/core/ports/driven"
	"github.com/filmgrid/catalog/internal/core/ports/driving"
	"github.com/filmgrid/catalog/internal/metrics"
	"github.com/filmgrid/catalog/internal/retry"
)

// Verify interface compliance
var _ driving.ReindexService = (*RebuildOrchestrator)(nil)

// RebuildOrchestrator runs the denormalization pipeline as one sequential
// flow per invocation:
//  1. Scan the source index page by page
//  2. Extract and deduplicate embedded entity references
//  3. Recreate the target index (drop if present, create with schema)
//  4. Bulk-load the entity set in batches
//
// Every remote-store call goes through the retry wrapper; an exhausted stage
// fails the whole run. There is no compensating rollback and no cross-run
// locking; callers must not run two rebuilds of the same target concurrently.
type RebuildOrchestrator struct {
	docIndex driven.DocumentIndex
	admin    driven.IndexAdmin
	logger   *slog.Logger

	policy    retry.Policy
	pageSize  int
	batchSize int
}

// RebuildOrchestratorConfig holds dependencies for RebuildOrchestrator.
type RebuildOrchestratorConfig struct {
	DocumentIndex driven.DocumentIndex
	IndexAdmin    driven.IndexAdmin
	Logger        *slog.Logger

	// RetryPolicy defaults to retry.DefaultPolicy()
	RetryPolicy *retry.Policy

	// PageSize is the scan page size (default 100)
	PageSize int

	// BatchSize is the bulk-load batch size (default 500)
	BatchSize int
}

// NewRebuildOrchestrator creates a new rebuild orchestrator.
func NewRebuildOrchestrator(cfg RebuildOrchestratorConfig) *RebuildOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	policy := retry.DefaultPolicy()
	if cfg.RetryPolicy != nil {
		policy = *cfg.RetryPolicy
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	return &RebuildOrchestrator{
		docIndex:  cfg.DocumentIndex,
		admin:     cfg.IndexAdmin,
		logger:    logger,
		policy:    policy,
		pageSize:  pageSize,
		batchSize: batchSize,
	}
}

// RebuildGenres rebuilds the genres index from the films index.
func (o *RebuildOrchestrator) RebuildGenres(ctx context.Context, sourceIndex, targetIndex string) (*domain.RebuildReport, error) {
	return o.Rebuild(ctx, domain.GenresSpec(sourceIndex, targetIndex))
}

// RebuildPersons rebuilds the persons index from the films index.
func (o *RebuildOrchestrator) RebuildPersons(ctx context.Context, sourceIndex, targetIndex string) (*domain.RebuildReport, error) {
	return o.Rebuild(ctx, domain.PersonsSpec(sourceIndex, targetIndex))
}

// Rebuild runs one full scan-extract-recreate-load cycle.
// This is the main entry point for the pipeline.
func (o *RebuildOrchestrator) Rebuild(ctx context.Context, spec domain.RebuildSpec) (*domain.RebuildReport, error) {
	report := &domain.RebuildReport{
		RunID:       uuid.New().String(),
		SourceIndex: spec.SourceIndex,
		TargetIndex: spec.TargetIndex,
		Status:      domain.RebuildStatusRunning,
		StartedAt:   time.Now(),
	}

	logger := o.logger.With("run_id", report.RunID, "target", spec.TargetIndex)
	logger.Info("starting rebuild", "source", spec.SourceIndex)

	// Stage 1+2: scan the source corpus, extracting as pages arrive
	extractor := NewExtractor(spec, logger)
	if err := o.scan(ctx, spec.SourceIndex, extractor, report); err != nil {
		return o.failRun(report, logger, fmt.Errorf("scan %s: %w", spec.SourceIndex, err))
	}

	entities := extractor.Entities()
	report.EntitiesExtracted = len(entities)
	logger.Info("extraction complete",
		"documents_scanned", report.DocumentsScanned,
		"entities", len(entities),
		"skipped_references", extractor.Skipped(),
	)

	// Stage 3: recreate the target index
	if err := o.recreate(ctx, spec.TargetIndex, spec.Schema, logger); err != nil {
		return o.failRun(report, logger, fmt.Errorf("recreate %s: %w", spec.TargetIndex, err))
	}

	// Stage 4: bulk-load the entity set
	loaded, err := o.load(ctx, spec.TargetIndex, entities, logger)
	report.EntitiesLoaded = loaded.Succeeded
	if err != nil {
		return o.failRun(report, logger, fmt.Errorf("load %s: %w", spec.TargetIndex, err))
	}

	report.Status = domain.RebuildStatusSucceeded
	report.Duration = time.Since(report.StartedAt).Seconds()

	metrics.RebuildRuns.WithLabelValues(spec.TargetIndex, string(report.Status)).Inc()
	metrics.RebuildDuration.WithLabelValues(spec.TargetIndex).Observe(report.Duration)

	logger.Info("rebuild completed",
		"documents_scanned", report.DocumentsScanned,
		"entities_loaded", report.EntitiesLoaded,
		"duration_seconds", report.Duration,
	)
	return report, nil
}

// scan iterates the whole source index through the cursor-paged scan,
// feeding each document to the extractor. The cursor stream is never
// resumed across failures; the retry wrapper only re-fetches single pages.
func (o *RebuildOrchestrator) scan(ctx context.Context, index string, extractor *Extractor, report *domain.RebuildReport) error {
	cursor := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var docs []domain.RawDocument
		var next string
		err := retry.Do(ctx, o.logger, o.policy, "scan page", func(ctx context.Context) error {
			var err error
			docs, next, err = o.docIndex.ScanPage(ctx, index, cursor, o.pageSize)
			return err
		})
		if err != nil {
			return err
		}

		if len(docs) == 0 {
			return nil
		}

		for _, doc := range docs {
			extractor.Consume(doc)
		}
		report.DocumentsScanned += len(docs)
		metrics.DocumentsScanned.Add(float64(len(docs)))

		if next == "" {
			return nil
		}
		cursor = next
	}
}

// recreate drops the target index if present and creates it fresh with the
// given schema. Idempotent with no intervening writes.
func (o *RebuildOrchestrator) recreate(ctx context.Context, index string, schema domain.IndexSchema, logger *slog.Logger) error {
	var exists bool
	err := retry.Do(ctx, o.logger, o.policy, "index exists", func(ctx context.Context) error {
		var err error
		exists, err = o.admin.Exists(ctx, index)
		return err
	})
	if err != nil {
		return fmt.Errorf("exists check: %w", err)
	}

	if exists {
		logger.Info("deleting existing target index")
		err := retry.Do(ctx, o.logger, o.policy, "index delete", func(ctx context.Context) error {
			return o.admin.Delete(ctx, index)
		})
		if err != nil {
			return fmt.Errorf("delete: %w", err)
		}
	}

	err = retry.Do(ctx, o.logger, o.policy, "index create", func(ctx context.Context) error {
		return o.admin.Create(ctx, index, schema)
	})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	logger.Info("target index recreated")
	return nil
}

// load writes the entity set in fixed-size batches. Any batch failure after
// retries, including per-record rejections, fails the run: partial loads
// must never report success.
func (o *RebuildOrchestrator) load(ctx context.Context, index string, entities []*domain.Entity, logger *slog.Logger) (domain.LoadReport, error) {
	var report domain.LoadReport

	for start := 0; start < len(entities); start += o.batchSize {
		end := start + o.batchSize
		if end > len(entities) {
			end = len(entities)
		}

		docs := make([]driven.BulkDoc, 0, end-start)
		for _, e := range entities[start:end] {
			docs = append(docs, driven.BulkDoc{ID: e.DocID(), Body: e})
		}

		var succeeded int
		var failed []driven.BulkItemError
		err := retry.Do(ctx, o.logger, o.policy, "bulk write", func(ctx context.Context) error {
			var err error
			succeeded, failed, err = o.admin.BulkWrite(ctx, index, docs)
			return err
		})
		if err != nil {
			return report, err
		}

		report.Succeeded += succeeded
		report.Failed += len(failed)
		metrics.EntitiesLoaded.Add(float64(succeeded))

		if len(failed) > 0 {
			for _, item := range failed {
				logger.Error("bulk item rejected",
					"doc_id", item.DocID,
					"status", item.Status,
					"reason", item.Reason,
				)
			}
			return report, fmt.Errorf("bulk write rejected %d of %d records", len(failed), len(docs))
		}

		logger.Debug("batch loaded", "from", start, "to", end)
	}

	return report, nil
}

// failRun marks the report failed and returns the error.
func (o *RebuildOrchestrator) failRun(report *domain.RebuildReport, logger *slog.Logger, err error) (*domain.RebuildReport, error) {
	report.Status = domain.RebuildStatusFailed
	report.Error = err.Error()
	report.Duration = time.Since(report.StartedAt).Seconds()

	metrics.RebuildRuns.WithLabelValues(report.TargetIndex, string(report.Status)).Inc()

	logger.Error("rebuild failed",
		"documents_scanned", report.DocumentsScanned,
		"entities_extracted", report.EntitiesExtracted,
		"entities_loaded", report.EntitiesLoaded,
		"error", err,
	)
	return report, err
}
