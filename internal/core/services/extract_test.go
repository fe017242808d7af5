package services

import (
	"encoding/json"
	"testing"

	"github.com/filmgrid/catalog/internal/core/domain"
)

func rawDoc(id, source string) domain.RawDocument {
	return domain.RawDocument{ID: id, Source: json.RawMessage(source)}
}

func TestExtractor_GenreReferences(t *testing.T) {
	e := NewExtractor(domain.GenresSpec("films", "genres"), nil)

	e.Consume(rawDoc("film-a", `{"genre": [{"id": "g1", "name": "Action"}, {"id": "g2", "name": "Drama"}]}`))
	e.Consume(rawDoc("film-b", `{"genre": [{"id": "g1", "name": "Action"}, {"id": "g3", "name": "Comedy"}]}`))
	e.Consume(rawDoc("film-c", `{"genre": []}`))

	if e.Count() != 3 {
		t.Fatalf("expected 3 deduplicated genres, got %d", e.Count())
	}

	byID := map[string]*domain.Entity{}
	for _, entity := range e.Entities() {
		byID[entity.ID] = entity
	}
	if byID["g1"].Name != "Action" || byID["g2"].Name != "Drama" || byID["g3"].Name != "Comedy" {
		t.Errorf("unexpected entities: %+v", byID)
	}
	if len(byID["g1"].FilmIDs) != 2 {
		t.Errorf("expected g1 referenced by 2 films, got %v", byID["g1"].FilmIDs)
	}
}

func TestExtractor_PersonRolesFromArrayName(t *testing.T) {
	e := NewExtractor(domain.PersonsSpec("films", "persons"), nil)

	e.Consume(rawDoc("film-a", `{
		"actors": [{"uuid": "p1", "full_name": "Clint Eastwood"}],
		"writers": [{"uuid": "p2", "full_name": "Nick Schenk"}],
		"directors": [{"uuid": "p1", "full_name": "Clint Eastwood"}]
	}`))

	if e.Count() != 3 {
		t.Fatalf("expected 3 entities (same person under two roles stays distinct), got %d", e.Count())
	}

	roles := map[string]bool{}
	for _, entity := range e.Entities() {
		roles[entity.ID+"/"+entity.Role] = true
	}
	for _, want := range []string{"p1/actor", "p2/writer", "p1/director"} {
		if !roles[want] {
			t.Errorf("missing entity %s; got %v", want, roles)
		}
	}
}

func TestExtractor_MissingArrayIsEmpty(t *testing.T) {
	e := NewExtractor(domain.PersonsSpec("films", "persons"), nil)

	e.Consume(rawDoc("film-a", `{"title": "No Cast"}`))

	if e.Count() != 0 {
		t.Errorf("expected no entities from a document without reference arrays, got %d", e.Count())
	}
	if e.Skipped() != 0 {
		t.Errorf("missing arrays are not malformed, got %d skipped", e.Skipped())
	}
}

func TestExtractor_MalformedReferencesSkipped(t *testing.T) {
	e := NewExtractor(domain.GenresSpec("films", "genres"), nil)

	// One element missing name, one missing id, one not an object, two valid.
	e.Consume(rawDoc("film-a", `{"genre": [
		{"id": "g1"},
		{"name": "Nameless"},
		"just-a-string",
		{"id": "g2", "name": "Drama"},
		{"id": "g3", "name": "Comedy"}
	]}`))

	if e.Count() != 2 {
		t.Fatalf("expected 2 valid entities, got %d", e.Count())
	}
	if e.Skipped() != 3 {
		t.Errorf("expected 3 skipped references, got %d", e.Skipped())
	}
}

func TestExtractor_UndecodableDocumentSkipped(t *testing.T) {
	e := NewExtractor(domain.GenresSpec("films", "genres"), nil)

	e.Consume(rawDoc("film-a", `not json at all`))
	e.Consume(rawDoc("film-b", `{"genre": [{"id": "g1", "name": "Action"}]}`))

	if e.Count() != 1 {
		t.Errorf("expected extraction to continue past bad documents, got %d entities", e.Count())
	}
}

func TestExtractor_NonStringIDSkipped(t *testing.T) {
	e := NewExtractor(domain.GenresSpec("films", "genres"), nil)

	e.Consume(rawDoc("film-a", `{"genre": [{"id": 42, "name": "Action"}]}`))

	if e.Count() != 0 {
		t.Errorf("expected numeric id to be rejected by typed decoding, got %d entities", e.Count())
	}
	if e.Skipped() != 1 {
		t.Errorf("expected 1 skipped reference, got %d", e.Skipped())
	}
}
