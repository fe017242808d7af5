package domain

import (
	"encoding/json"
	"time"
)

// RawDocument is an opaque record pulled from a source index during a scan.
// Source is the unparsed document body; owned transiently by the scanner and
// discarded once its references are extracted.
type RawDocument struct {
	ID     string          `json:"id"`
	Source json.RawMessage `json:"source"`
}

// FieldKind is the index mapping type of a schema field
type FieldKind string

const (
	FieldKeyword FieldKind = "keyword" // exact-match identifier
	FieldText    FieldKind = "text"    // full-text analyzed
	FieldFloat   FieldKind = "float"   // numeric
)

// SchemaField is one field of a target index schema
type SchemaField struct {
	Name string    `json:"name"`
	Kind FieldKind `json:"kind"`
}

// IndexSchema is an explicit field mapping for a target index
type IndexSchema struct {
	Fields []SchemaField `json:"fields"`
}

// ExtractField names one embedded array to read from each source document
// and the role attached to references found in it. Role is empty for
// role-less targets.
type ExtractField struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// RebuildSpec describes one denormalization run: which source index to scan,
// which embedded arrays to extract, and how to shape the target index.
type RebuildSpec struct {
	SourceIndex string         `json:"source_index"`
	TargetIndex string         `json:"target_index"`
	Schema      IndexSchema    `json:"schema"`
	Fields      []ExtractField `json:"fields"`

	// Element keys of the embedded reference objects. The films corpus
	// stores genres as {id, name} and persons as {uuid, full_name}.
	RefIDKey   string `json:"ref_id_key"`
	RefNameKey string `json:"ref_name_key"`
}

// GenresSpec returns the rebuild spec for deriving the genres index from the
// films index
func GenresSpec(sourceIndex, targetIndex string) RebuildSpec {
	return RebuildSpec{
		SourceIndex: sourceIndex,
		TargetIndex: targetIndex,
		Schema: IndexSchema{Fields: []SchemaField{
			{Name: "id", Kind: FieldKeyword},
			{Name: "name", Kind: FieldText},
		}},
		Fields:     []ExtractField{{Name: "genre"}},
		RefIDKey:   "id",
		RefNameKey: "name",
	}
}

// PersonsSpec returns the rebuild spec for deriving the persons index from
// the films index
func PersonsSpec(sourceIndex, targetIndex string) RebuildSpec {
	return RebuildSpec{
		SourceIndex: sourceIndex,
		TargetIndex: targetIndex,
		Schema: IndexSchema{Fields: []SchemaField{
			{Name: "id", Kind: FieldKeyword},
			{Name: "name", Kind: FieldText},
			{Name: "role", Kind: FieldKeyword},
			{Name: "films", Kind: FieldKeyword},
		}},
		Fields: []ExtractField{
			{Name: "actors", Role: "actor"},
			{Name: "writers", Role: "writer"},
			{Name: "directors", Role: "director"},
		},
		RefIDKey:   "uuid",
		RefNameKey: "full_name",
	}
}

// FilmsSchema returns the mapping for the primary films index. Embedded
// reference arrays stay dynamically mapped, as the corpus relies on.
func FilmsSchema() IndexSchema {
	return IndexSchema{Fields: []SchemaField{
		{Name: "id", Kind: FieldKeyword},
		{Name: "title", Kind: FieldText},
		{Name: "description", Kind: FieldText},
		{Name: "imdb_rating", Kind: FieldFloat},
	}}
}

// RebuildStatus is the state of a rebuild run
type RebuildStatus string

const (
	RebuildStatusRunning   RebuildStatus = "running"
	RebuildStatusSucceeded RebuildStatus = "succeeded"
	RebuildStatusFailed    RebuildStatus = "failed"
)

// RebuildReport is the ephemeral coordination record of one rebuild run.
// It exists only for the duration of the run and is never persisted.
type RebuildReport struct {
	RunID             string        `json:"run_id"`
	SourceIndex       string        `json:"source_index"`
	TargetIndex       string        `json:"target_index"`
	Status            RebuildStatus `json:"status"`
	DocumentsScanned  int           `json:"documents_scanned"`
	EntitiesExtracted int           `json:"entities_extracted"`
	EntitiesLoaded    int           `json:"entities_loaded"`
	Error             string        `json:"error,omitempty"`
	StartedAt         time.Time     `json:"started_at"`
	Duration          float64       `json:"duration_seconds"`
}

// LoadReport holds per-run bulk load counts
type LoadReport struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
