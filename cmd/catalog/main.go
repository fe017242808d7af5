package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/filmgrid/catalog/internal/adapters/driven/auth"
	"github.com/filmgrid/catalog/internal/adapters/driven/elastic"
	redisadapter "github.com/filmgrid/catalog/internal/adapters/driven/redis"
	"github.com/filmgrid/catalog/internal/adapters/driving/http"
	"github.com/filmgrid/catalog/internal/core/ports/driven"
	"github.com/filmgrid/catalog/internal/core/services"
)

var version = "dev"

func main() {
	// Local development reads a .env file when present
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	port := getEnvInt("PORT", 8080)
	elasticURL := getEnv("ELASTIC_URL", "http://localhost:9200")
	redisURL := getEnv("REDIS_URL", "")
	jwtSecret := getEnv("JWT_SECRET", "")
	filmsIndex := getEnv("FILMS_INDEX", "movies")
	genresIndex := getEnv("GENRES_INDEX", "genres")
	personsIndex := getEnv("PERSONS_INDEX", "persons")

	logger.Info("catalog starting", "version", version, "port", port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// ===== Elasticsearch =====
	esClient := elastic.NewClient(elastic.DefaultConfig(elasticURL))
	if err := esClient.Ping(ctx); err != nil {
		logger.Warn("elasticsearch ping failed, reads may not work", "error", err)
	} else {
		logger.Info("elasticsearch connected", "url", elasticURL)
	}
	docIndex := elastic.NewDocumentIndex(esClient)
	indexAdmin := elastic.NewIndexAdmin(esClient)

	// ===== Redis (optional) =====
	var cache driven.Cache
	var cachePinger http.Pinger
	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Error("failed to parse redis url", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		redisCache := redisadapter.NewCache(redisClient)
		cache = redisCache
		cachePinger = redisCache
		logger.Info("redis connected")
	} else {
		logger.Info("redis not configured, reads go straight to the index")
	}

	// ===== Auth (optional) =====
	var tokenVerifier driven.TokenVerifier
	if jwtSecret != "" {
		tokenVerifier = auth.NewAdapter(jwtSecret)
	} else {
		logger.Warn("JWT_SECRET not set, rebuild endpoints are unauthenticated")
	}

	// ===== Services =====
	filmService := services.NewFilmService(docIndex, cache, filmsIndex, logger)
	genreService := services.NewGenreService(docIndex, cache, genresIndex, logger)
	personService := services.NewPersonService(docIndex, cache, personsIndex, logger)
	reindexService := services.NewRebuildOrchestrator(services.RebuildOrchestratorConfig{
		DocumentIndex: docIndex,
		IndexAdmin:    indexAdmin,
		Logger:        logger,
		PageSize:      getEnvInt("SCAN_PAGE_SIZE", 100),
		BatchSize:     getEnvInt("BULK_BATCH_SIZE", 500),
	})

	// ===== HTTP server =====
	cfg := http.DefaultConfig()
	cfg.Port = port
	cfg.Version = version
	cfg.FilmsIndex = filmsIndex
	cfg.GenresIndex = genresIndex
	cfg.PersonsIndex = personsIndex

	server := http.NewServer(cfg,
		filmService, genreService, personService, reindexService,
		tokenVerifier, docIndex, cachePinger, logger)

	if err := server.Start(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
