package mocks

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/filmgrid/catalog/internal/core/domain"
)

// MockDocumentIndex is an in-memory DocumentIndex for testing
type MockDocumentIndex struct {
	mu   sync.RWMutex
	docs map[string][]domain.RawDocument // index -> documents in order

	// ScanErr fails every ScanPage call when set
	ScanErr error

	// ScanErrOnce fails the next ScanPage call, then clears itself
	ScanErrOnce error

	// ScanCalls counts ScanPage invocations
	ScanCalls int
}

// NewMockDocumentIndex creates a new MockDocumentIndex
func NewMockDocumentIndex() *MockDocumentIndex {
	return &MockDocumentIndex{docs: make(map[string][]domain.RawDocument)}
}

// SetDocuments replaces the documents of an index
func (m *MockDocumentIndex) SetDocuments(index string, docs []domain.RawDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[index] = docs
}

// AddDocument appends a raw document to an index
func (m *MockDocumentIndex) AddDocument(index, id string, source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[index] = append(m.docs[index], domain.RawDocument{ID: id, Source: json.RawMessage(source)})
}

func (m *MockDocumentIndex) ScanPage(ctx context.Context, index, cursor string, size int) ([]domain.RawDocument, string, error) {
	m.mu.Lock()
	m.ScanCalls++
	if m.ScanErrOnce != nil {
		err := m.ScanErrOnce
		m.ScanErrOnce = nil
		m.mu.Unlock()
		return nil, "", err
	}
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ScanErr != nil {
		return nil, "", m.ScanErr
	}

	offset := 0
	if cursor != "" {
		offset, _ = strconv.Atoi(cursor)
	}

	docs := m.docs[index]
	if offset >= len(docs) {
		return nil, "", nil
	}

	end := offset + size
	if size <= 0 || end > len(docs) {
		end = len(docs)
	}

	return docs[offset:end], strconv.Itoa(end), nil
}

func (m *MockDocumentIndex) GetByID(ctx context.Context, index, id string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.docs[index] {
		if doc.ID == id {
			return doc.Source, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockDocumentIndex) Search(ctx context.Context, index string, query domain.SearchQuery) ([]domain.RawDocument, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []domain.RawDocument
	for _, doc := range m.docs[index] {
		if query.MatchField == "" || rawMatches(doc.Source, query.MatchField, query.MatchValue) {
			hits = append(hits, doc)
		}
	}

	total := len(hits)
	if query.From >= len(hits) {
		return nil, total, nil
	}
	end := query.From + query.Size
	if query.Size <= 0 || end > len(hits) {
		end = len(hits)
	}
	return hits[query.From:end], total, nil
}

func (m *MockDocumentIndex) Ping(ctx context.Context) error {
	return nil
}

// rawMatches does naive substring matching on a top-level string field
func rawMatches(source json.RawMessage, field, value string) bool {
	var body map[string]any
	if err := json.Unmarshal(source, &body); err != nil {
		return false
	}
	s, ok := body[field].(string)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(value))
}
