package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/filmgrid/catalog/internal/core/domain"
	"github.com/filmgrid/catalog/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MovieStore = (*MovieStore)(nil)

// MovieStore implements driven.MovieStore using PostgreSQL
type MovieStore struct {
	db *DB
}

// NewMovieStore creates a new PostgreSQL-backed MovieStore
func NewMovieStore(db *DB) *MovieStore {
	return &MovieStore{db: db}
}

// ListFilms returns all movies rated above minRating, ordered by ID
func (s *MovieStore) ListFilms(ctx context.Context, minRating float64) ([]*domain.Film, error) {
	query := `
		SELECT id, title, description, imdb_rating, genre, actors, writers, directors
		FROM movies
		WHERE imdb_rating > $1
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, minRating)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	var films []*domain.Film
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, film)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %w", err)
	}

	return films, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanFilm reads one movies row, decoding the JSONB reference columns
func scanFilm(row rowScanner) (*domain.Film, error) {
	var (
		film      domain.Film
		genres    []byte
		actors    []byte
		writers   []byte
		directors []byte
	)

	err := row.Scan(
		&film.ID,
		&film.Title,
		&film.Description,
		&film.IMDBRating,
		&genres,
		&actors,
		&writers,
		&directors,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	if err := json.Unmarshal(genres, &film.Genres); err != nil {
		return nil, fmt.Errorf("failed to decode genres for movie %s: %w", film.ID, err)
	}
	if err := json.Unmarshal(actors, &film.Actors); err != nil {
		return nil, fmt.Errorf("failed to decode actors for movie %s: %w", film.ID, err)
	}
	if err := json.Unmarshal(writers, &film.Writers); err != nil {
		return nil, fmt.Errorf("failed to decode writers for movie %s: %w", film.ID, err)
	}
	if err := json.Unmarshal(directors, &film.Directors); err != nil {
		return nil, fmt.Errorf("failed to decode directors for movie %s: %w", film.ID, err)
	}

	return &film, nil
}
