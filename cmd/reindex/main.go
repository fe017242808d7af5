package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/filmgrid/catalog/internal/adapters/driven/elastic"
	"github.com/filmgrid/catalog/internal/core/domain"
	"github.com/filmgrid/catalog/internal/core/services"
)

func main() {
	_ = godotenv.Load()

	var (
		target       = flag.String("target", "", "index to rebuild: genres or persons")
		elasticURL   = flag.String("elastic-url", getEnv("ELASTIC_URL", "http://localhost:9200"), "Elasticsearch endpoint")
		filmsIndex   = flag.String("films-index", getEnv("FILMS_INDEX", "movies"), "source films index")
		genresIndex  = flag.String("genres-index", getEnv("GENRES_INDEX", "genres"), "genres target index")
		personsIndex = flag.String("persons-index", getEnv("PERSONS_INDEX", "persons"), "persons target index")
		pageSize     = flag.Int("page-size", 100, "scan page size")
		batchSize    = flag.Int("batch-size", 500, "bulk load batch size")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received, aborting run")
		cancel()
	}()

	esClient := elastic.NewClient(elastic.DefaultConfig(*elasticURL))
	if err := esClient.Ping(ctx); err != nil {
		logger.Error("elasticsearch unreachable", "error", err)
		os.Exit(1)
	}

	orchestrator := services.NewRebuildOrchestrator(services.RebuildOrchestratorConfig{
		DocumentIndex: elastic.NewDocumentIndex(esClient),
		IndexAdmin:    elastic.NewIndexAdmin(esClient),
		Logger:        logger,
		PageSize:      *pageSize,
		BatchSize:     *batchSize,
	})

	var (
		report *domain.RebuildReport
		err    error
	)
	switch *target {
	case "genres":
		report, err = orchestrator.RebuildGenres(ctx, *filmsIndex, *genresIndex)
	case "persons":
		report, err = orchestrator.RebuildPersons(ctx, *filmsIndex, *personsIndex)
	default:
		fmt.Fprintln(os.Stderr, "usage: reindex -target genres|persons [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("rebuild failed",
			"target", *target,
			"error", err,
			"documents_scanned", report.DocumentsScanned,
			"entities_extracted", report.EntitiesExtracted)
		os.Exit(1)
	}

	logger.Info("rebuild complete",
		"target", *target,
		"run_id", report.RunID,
		"documents_scanned", report.DocumentsScanned,
		"entities_extracted", report.EntitiesExtracted,
		"entities_loaded", report.EntitiesLoaded,
		"duration_seconds", report.Duration)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
