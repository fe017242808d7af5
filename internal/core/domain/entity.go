package domain

// EntityRef is a single embedded entity reference pulled out of a scanned
// source document. Role is empty for role-less targets (genres).
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// EntityKey is the deduplication key for canonical entities
type EntityKey struct {
	ID   string
	Role string
}

// Entity is the deduplicated record written to a target index
type Entity struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Role    string   `json:"role,omitempty"`
	FilmIDs []string `json:"films"`
}

// Key returns the deduplication key of the entity
func (e *Entity) Key() EntityKey {
	return EntityKey{ID: e.ID, Role: e.Role}
}

// DocID returns the target index document ID. Role-bearing entities get a
// composite ID so the same person under two roles stays two documents.
func (e *Entity) DocID() string {
	if e.Role == "" {
		return e.ID
	}
	return e.ID + ":" + e.Role
}

// EntitySet accumulates entity references and folds duplicates into one
// canonical entity per (id, role) key. Insertion order is preserved so that
// downstream batching is deterministic. Not safe for concurrent use; one
// rebuild run owns one set.
type EntitySet struct {
	entities map[EntityKey]*Entity
	order    []EntityKey
}

// NewEntitySet creates an empty entity set
func NewEntitySet() *EntitySet {
	return &EntitySet{entities: make(map[EntityKey]*Entity)}
}

// Add folds a reference found in the given source document into the set.
// Repeat keys keep a single entity; the display name is last-write-wins.
// Returns true when the reference created a new entity.
func (s *EntitySet) Add(ref EntityRef, sourceDocID string) bool {
	key := EntityKey{ID: ref.ID, Role: ref.Role}
	e, ok := s.entities[key]
	if !ok {
		e = &Entity{ID: ref.ID, Name: ref.Name, Role: ref.Role}
		s.entities[key] = e
		s.order = append(s.order, key)
	}
	e.Name = ref.Name
	if sourceDocID != "" && !containsID(e.FilmIDs, sourceDocID) {
		e.FilmIDs = append(e.FilmIDs, sourceDocID)
	}
	return !ok
}

// Lookup returns the canonical entity for a key, if present
func (s *EntitySet) Lookup(key EntityKey) (*Entity, bool) {
	e, ok := s.entities[key]
	return e, ok
}

// Len returns the number of canonical entities in the set
func (s *EntitySet) Len() int {
	return len(s.entities)
}

// Entities returns all canonical entities in insertion order
func (s *EntitySet) Entities() []*Entity {
	out := make([]*Entity, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.entities[key])
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
