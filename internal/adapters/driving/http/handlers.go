package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/filmgrid/catalog/internal/core/domain"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges an accepted rebuild run
type MessageResponse struct {
	Message string                `json:"message"`
	Report  *domain.RebuildReport `json:"report,omitempty"`
}

// PageResponse is a paginated listing envelope
type PageResponse struct {
	Total int `json:"total"`
	Items any `json:"items"`
}

// Health endpoints

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.searchBackend != nil {
		if err := s.searchBackend.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "search backend unavailable")
			return
		}
	}
	if s.cacheBackend != nil {
		if err := s.cacheBackend.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "cache unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Film endpoints

func (s *Server) handleSearchFilms(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query().Get("query")
	summaries, total, err := s.filmService.SearchByTitle(r.Context(), query, page)
	if err != nil {
		writeServiceError(w, err, "film search failed")
		return
	}

	writeJSON(w, http.StatusOK, PageResponse{Total: total, Items: summaries})
}

func (s *Server) handleGetFilm(w http.ResponseWriter, r *http.Request) {
	film, err := s.filmService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "film lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, film)
}

// Genre endpoints

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	genres, err := s.genreService.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, err, "genre listing failed")
		return
	}
	writeJSON(w, http.StatusOK, PageResponse{Total: len(genres), Items: genres})
}

func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	genre, err := s.genreService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "genre lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

// Person endpoints

func (s *Server) handleListPersons(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	persons, err := s.personService.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, err, "person listing failed")
		return
	}
	writeJSON(w, http.StatusOK, PageResponse{Total: len(persons), Items: persons})
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	person, err := s.personService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "person lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// Rebuild endpoints

func (s *Server) handleRebuildGenres(w http.ResponseWriter, r *http.Request) {
	source := queryOr(r, "films_index", s.filmsIndex)
	target := queryOr(r, "genres_index", s.genresIndex)

	report, err := s.reindexService.RebuildGenres(r.Context(), source, target)
	if err != nil {
		s.logger.Error("genres rebuild failed", "error", err)
		writeError(w, http.StatusInternalServerError, "genres rebuild failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "genres index rebuilt", Report: report})
}

func (s *Server) handleRebuildPersons(w http.ResponseWriter, r *http.Request) {
	source := queryOr(r, "films_index", s.filmsIndex)
	target := queryOr(r, "persons_index", s.personsIndex)

	report, err := s.reindexService.RebuildPersons(r.Context(), source, target)
	if err != nil {
		s.logger.Error("persons rebuild failed", "error", err)
		writeError(w, http.StatusInternalServerError, "persons rebuild failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "persons index rebuilt", Report: report})
}

// Helpers

// parsePage reads page_size and page_number query parameters
func parsePage(r *http.Request) (domain.Page, error) {
	page := domain.DefaultPage()

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return page, errors.New("invalid page_size")
		}
		page.Size = size
	}
	if raw := r.URL.Query().Get("page_number"); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil {
			return page, errors.New("invalid page_number")
		}
		page.Number = number
	}

	if err := page.Validate(); err != nil {
		return page, errors.New("page parameters out of range")
	}
	return page, nil
}

// queryOr returns a query parameter or a fallback
func queryOr(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}

// writeServiceError maps domain errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid request")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
