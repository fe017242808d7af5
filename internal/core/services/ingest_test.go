package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmgrid/catalog/internal/core/domain"
	"github.com/filmgrid/catalog/internal/core/ports/driven/mocks"
)

func sampleFilms() []*domain.Film {
	return []*domain.Film{
		{ID: "f1", Title: "Gran Torino", IMDBRating: 8.1,
			Genres: []domain.GenreRef{{ID: "g1", Name: "Drama"}}},
		{ID: "f2", Title: "Space Cowboys", IMDBRating: 6.5},
		{ID: "f3", Title: "Forgettable", IMDBRating: 3.2},
	}
}

func TestIngestor_IngestFilms(t *testing.T) {
	admin := mocks.NewMockIndexAdmin()
	ingestor := NewIngestor(IngestorConfig{
		MovieStore:  mocks.NewMockMovieStore(sampleFilms()...),
		IndexAdmin:  admin,
		RetryPolicy: fastRetry(),
	})

	report, err := ingestor.IngestFilms(context.Background(), "films")
	require.NoError(t, err)

	assert.Equal(t, 3, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 3, admin.DocCount("films"))
	assert.NotEmpty(t, admin.Schema("films").Fields, "films index should be created with its mapping")
}

func TestIngestor_MinRatingFilter(t *testing.T) {
	admin := mocks.NewMockIndexAdmin()
	ingestor := NewIngestor(IngestorConfig{
		MovieStore:  mocks.NewMockMovieStore(sampleFilms()...),
		IndexAdmin:  admin,
		RetryPolicy: fastRetry(),
		MinRating:   6.0,
	})

	report, err := ingestor.IngestFilms(context.Background(), "films")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded, "low-rated film should be filtered out")
}

func TestIngestor_ExistingIndexNotRecreated(t *testing.T) {
	admin := mocks.NewMockIndexAdmin()
	admin.SeedIndex("films", "old-doc")

	ingestor := NewIngestor(IngestorConfig{
		MovieStore:  mocks.NewMockMovieStore(sampleFilms()...),
		IndexAdmin:  admin,
		RetryPolicy: fastRetry(),
	})

	_, err := ingestor.IngestFilms(context.Background(), "films")
	require.NoError(t, err)

	assert.Equal(t, 0, admin.CreateCalls, "existing index should not be recreated")
	assert.Equal(t, 0, admin.DeleteCalls, "ingest must never drop the films index")
}

func TestIngestor_ListFailureAborts(t *testing.T) {
	store := mocks.NewMockMovieStore()
	store.ListErr = errors.New("connection refused")

	admin := mocks.NewMockIndexAdmin()
	ingestor := NewIngestor(IngestorConfig{
		MovieStore:  store,
		IndexAdmin:  admin,
		RetryPolicy: fastRetry(),
	})

	_, err := ingestor.IngestFilms(context.Background(), "films")
	require.Error(t, err)
	assert.False(t, admin.HasIndex("films"), "no index should be touched when listing fails")
}

func TestIngestor_TransientBulkErrorRetried(t *testing.T) {
	admin := mocks.NewMockIndexAdmin()
	admin.BulkErr = &transientErr{msg: "503 service unavailable"}
	admin.BulkErrAfter = 0

	ingestor := NewIngestor(IngestorConfig{
		MovieStore:  mocks.NewMockMovieStore(sampleFilms()...),
		IndexAdmin:  admin,
		RetryPolicy: fastRetry(),
	})

	// BulkErr applies to every call, so retries exhaust and ingest fails.
	_, err := ingestor.IngestFilms(context.Background(), "films")
	require.Error(t, err)
	assert.GreaterOrEqual(t, admin.BulkCalls, 2, "transient bulk error should be retried")
}
