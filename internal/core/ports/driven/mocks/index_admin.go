package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/filmgrid/catalog/internal/core/domain"
	"github.com/filmgrid/catalog/internal/core/ports/driven"
)

// MockIndexAdmin is an in-memory IndexAdmin for testing
type MockIndexAdmin struct {
	mu      sync.RWMutex
	indices map[string]*mockIndex

	// Error injection
	ExistsErr error
	CreateErr error
	DeleteErr error
	BulkErr   error

	// BulkErrAfter fails bulk calls once this many have succeeded.
	// Zero means BulkErr (when set) applies from the first call.
	BulkErrAfter int

	// Call counters
	BulkCalls   int
	CreateCalls int
	DeleteCalls int
}

type mockIndex struct {
	schema domain.IndexSchema
	docs   map[string]json.RawMessage
	order  []string
}

// NewMockIndexAdmin creates a new MockIndexAdmin
func NewMockIndexAdmin() *MockIndexAdmin {
	return &MockIndexAdmin{indices: make(map[string]*mockIndex)}
}

// SeedIndex creates an index pre-populated with document IDs, for staleness
// scenarios
func (m *MockIndexAdmin) SeedIndex(index string, docIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := &mockIndex{docs: make(map[string]json.RawMessage)}
	for _, id := range docIDs {
		idx.docs[id] = json.RawMessage(`{}`)
		idx.order = append(idx.order, id)
	}
	m.indices[index] = idx
}

func (m *MockIndexAdmin) Exists(ctx context.Context, index string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	_, ok := m.indices[index]
	return ok, nil
}

func (m *MockIndexAdmin) Create(ctx context.Context, index string, schema domain.IndexSchema) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.indices[index] = &mockIndex{schema: schema, docs: make(map[string]json.RawMessage)}
	return nil
}

func (m *MockIndexAdmin) Delete(ctx context.Context, index string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.indices, index)
	return nil
}

func (m *MockIndexAdmin) BulkWrite(ctx context.Context, index string, docs []driven.BulkDoc) (int, []driven.BulkItemError, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.BulkErr != nil && m.BulkCalls >= m.BulkErrAfter {
		m.BulkCalls++
		return 0, nil, m.BulkErr
	}
	m.BulkCalls++

	idx, ok := m.indices[index]
	if !ok {
		return 0, nil, domain.ErrIndexNotFound
	}

	for _, doc := range docs {
		body, err := json.Marshal(doc.Body)
		if err != nil {
			return 0, nil, err
		}
		if _, exists := idx.docs[doc.ID]; !exists {
			idx.order = append(idx.order, doc.ID)
		}
		idx.docs[doc.ID] = body
	}
	return len(docs), nil, nil
}

// HasIndex reports whether the index exists
func (m *MockIndexAdmin) HasIndex(index string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.indices[index]
	return ok
}

// DocCount returns the number of documents in an index
func (m *MockIndexAdmin) DocCount(index string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.indices[index]
	if !ok {
		return 0
	}
	return len(idx.docs)
}

// DocIDs returns the document IDs of an index in write order
func (m *MockIndexAdmin) DocIDs(index string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.indices[index]
	if !ok {
		return nil
	}
	return append([]string(nil), idx.order...)
}

// Doc returns a stored document body
func (m *MockIndexAdmin) Doc(index, id string) json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.indices[index]
	if !ok {
		return nil
	}
	return idx.docs[id]
}

// Schema returns the schema an index was created with
func (m *MockIndexAdmin) Schema(index string) domain.IndexSchema {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.indices[index]
	if !ok {
		return domain.IndexSchema{}
	}
	return idx.schema
}
