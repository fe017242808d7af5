package services

import (
	"encoding/json"
	"log/slog"

	"github.com/filmgrid/catalog/internal/core/domain"
)

// Extractor folds embedded entity references from scanned source documents
// into a deduplicated canonical entity set. Malformed references are skipped
// and logged, never failing the document or the run.
type Extractor struct {
	spec    domain.RebuildSpec
	logger  *slog.Logger
	set     *domain.EntitySet
	skipped int
}

// NewExtractor creates an extractor for one rebuild run
func NewExtractor(spec domain.RebuildSpec, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		spec:   spec,
		logger: logger,
		set:    domain.NewEntitySet(),
	}
}

// Consume extracts all configured reference arrays from one raw document.
// A missing array means no references, not an error. A document whose body
// cannot be decoded is skipped whole.
func (e *Extractor) Consume(doc domain.RawDocument) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(doc.Source, &body); err != nil {
		e.logger.Warn("skipping undecodable source document",
			"doc_id", doc.ID,
			"error", err,
		)
		e.skipped++
		return
	}

	for _, field := range e.spec.Fields {
		raw, ok := body[field.Name]
		if !ok {
			continue
		}

		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			e.logger.Warn("skipping malformed reference array",
				"doc_id", doc.ID,
				"field", field.Name,
				"error", err,
			)
			continue
		}

		for _, elem := range elems {
			ref, ok := e.decodeRef(elem, field.Role)
			if !ok {
				e.logger.Warn("skipping malformed reference",
					"doc_id", doc.ID,
					"field", field.Name,
				)
				e.skipped++
				continue
			}
			key := domain.EntityKey{ID: ref.ID, Role: ref.Role}
			if prev, ok := e.set.Lookup(key); ok && prev.Name != ref.Name {
				e.logger.Debug("entity name replaced",
					"entity_id", ref.ID,
					"role", ref.Role,
					"old", prev.Name,
					"new", ref.Name,
				)
			}
			e.set.Add(ref, doc.ID)
		}
	}
}

// decodeRef validates one array element into a typed reference. The boolean
// result makes the skip-vs-abort policy explicit at the call site.
func (e *Extractor) decodeRef(elem json.RawMessage, role string) (domain.EntityRef, bool) {
	var fields map[string]any
	if err := json.Unmarshal(elem, &fields); err != nil {
		return domain.EntityRef{}, false
	}

	id, _ := fields[e.spec.RefIDKey].(string)
	name, _ := fields[e.spec.RefNameKey].(string)
	if id == "" || name == "" {
		return domain.EntityRef{}, false
	}

	return domain.EntityRef{ID: id, Name: name, Role: role}, true
}

// Entities returns the deduplicated entities accumulated so far
func (e *Extractor) Entities() []*domain.Entity {
	return e.set.Entities()
}

// Count returns the number of canonical entities accumulated so far
func (e *Extractor) Count() int {
	return e.set.Len()
}

// Skipped returns the number of references dropped as malformed
func (e *Extractor) Skipped() int {
	return e.skipped
}
