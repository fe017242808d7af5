package domain

import "testing"

func TestEntitySet_Deduplicates(t *testing.T) {
	set := NewEntitySet()

	created := set.Add(EntityRef{ID: "g1", Name: "Action"}, "film-1")
	if !created {
		t.Error("expected first add to create a new entity")
	}

	created = set.Add(EntityRef{ID: "g1", Name: "Action"}, "film-2")
	if created {
		t.Error("expected repeat key to fold into existing entity")
	}

	if set.Len() != 1 {
		t.Fatalf("expected 1 entity, got %d", set.Len())
	}

	e := set.Entities()[0]
	if len(e.FilmIDs) != 2 {
		t.Errorf("expected 2 source films, got %v", e.FilmIDs)
	}
}

func TestEntitySet_RoleSeparatesEntities(t *testing.T) {
	set := NewEntitySet()

	set.Add(EntityRef{ID: "p1", Name: "Clint Eastwood", Role: "actor"}, "film-1")
	set.Add(EntityRef{ID: "p1", Name: "Clint Eastwood", Role: "director"}, "film-1")

	if set.Len() != 2 {
		t.Fatalf("expected separate entities per role, got %d", set.Len())
	}
}

func TestEntitySet_LastWriteWinsName(t *testing.T) {
	set := NewEntitySet()

	set.Add(EntityRef{ID: "g1", Name: "Sci-Fi"}, "film-1")
	set.Add(EntityRef{ID: "g1", Name: "Science Fiction"}, "film-2")

	e := set.Entities()[0]
	if e.Name != "Science Fiction" {
		t.Errorf("expected last-write-wins name, got %q", e.Name)
	}
}

func TestEntitySet_NoDuplicateFilmIDs(t *testing.T) {
	set := NewEntitySet()

	set.Add(EntityRef{ID: "g1", Name: "Drama"}, "film-1")
	set.Add(EntityRef{ID: "g1", Name: "Drama"}, "film-1")

	e := set.Entities()[0]
	if len(e.FilmIDs) != 1 {
		t.Errorf("expected film ID recorded once, got %v", e.FilmIDs)
	}
}

func TestEntitySet_PreservesInsertionOrder(t *testing.T) {
	set := NewEntitySet()

	set.Add(EntityRef{ID: "g2", Name: "Drama"}, "film-1")
	set.Add(EntityRef{ID: "g1", Name: "Action"}, "film-1")
	set.Add(EntityRef{ID: "g3", Name: "Comedy"}, "film-2")

	entities := set.Entities()
	got := []string{entities[0].ID, entities[1].ID, entities[2].ID}
	want := []string{"g2", "g1", "g3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestEntity_DocID(t *testing.T) {
	genre := &Entity{ID: "g1"}
	if genre.DocID() != "g1" {
		t.Errorf("expected plain ID for role-less entity, got %q", genre.DocID())
	}

	person := &Entity{ID: "p1", Role: "director"}
	if person.DocID() != "p1:director" {
		t.Errorf("expected composite ID for role-bearing entity, got %q", person.DocID())
	}
}
