package domain

// Page is a page_size/page_number pagination request
type Page struct {
	Size   int `json:"page_size"`
	Number int `json:"page_number"`
}

// DefaultPage returns the default pagination window
func DefaultPage() Page {
	return Page{Size: 10, Number: 1}
}

// Validate rejects non-positive or oversized pagination parameters
func (p Page) Validate() error {
	if p.Size <= 0 || p.Number <= 0 || p.Size > 100 {
		return ErrInvalidInput
	}
	return nil
}

// Offset converts the page number into a record offset
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// SearchQuery is a simple single-field match query against an index.
// An empty MatchField means match-all.
type SearchQuery struct {
	MatchField string `json:"match_field,omitempty"`
	MatchValue string `json:"match_value,omitempty"`
	From       int    `json:"from"`
	Size       int    `json:"size"`
}
