package domain

// GenreRef is a genre mention embedded in a film document
type GenreRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PersonRef is a person mention embedded in a film document
type PersonRef struct {
	ID       string `json:"uuid"`
	FullName string `json:"full_name"`
}

// Film represents a film record from the primary index
type Film struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	IMDBRating  float64     `json:"imdb_rating"`
	Genres      []GenreRef  `json:"genre,omitempty"`
	Actors      []PersonRef `json:"actors,omitempty"`
	Writers     []PersonRef `json:"writers,omitempty"`
	Directors   []PersonRef `json:"directors,omitempty"`
}

// FilmSummary is the short film representation returned by list and search
// endpoints (heavy embedded arrays stripped)
type FilmSummary struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	IMDBRating float64 `json:"imdb_rating"`
}

// Summary returns the short representation of the film
func (f *Film) Summary() FilmSummary {
	return FilmSummary{
		ID:         f.ID,
		Title:      f.Title,
		IMDBRating: f.IMDBRating,
	}
}

// Genre is a canonical genre record from the genres index
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Person is a canonical person record from the persons index.
// Role distinguishes the same individual appearing as actor, writer or
// director; each (id, role) pair is a separate record.
type Person struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Role    string   `json:"role"`
	FilmIDs []string `json:"films"`
}
