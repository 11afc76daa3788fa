package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
)

// MockDocumentStore is a mock implementation of DocumentStore for testing
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document

	// SaveErr, when set, is returned by Save to simulate store failures.
	SaveErr error
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{documents: make(map[string]*domain.Document)}
}

func (m *MockDocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doc
	cp.Tags = append([]domain.Tag(nil), doc.Tags...)
	m.documents[doc.ID] = &cp
	return nil
}

func (m *MockDocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *doc
	cp.Tags = append([]domain.Tag(nil), doc.Tags...)
	return &cp, nil
}

func (m *MockDocumentStore) List(ctx context.Context, filter domain.DocumentFilter) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []*domain.Document
	for _, d := range m.documents {
		if filter.Matches(d) {
			docs = append(docs, d)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(docs) {
			return nil, nil
		}
		docs = docs[filter.Offset:]
	}
	if filter.Limit > 0 && len(docs) > filter.Limit {
		docs = docs[:filter.Limit]
	}
	return docs, nil
}

func (m *MockDocumentStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.documents, id)
	return nil
}

func (m *MockDocumentStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents), nil
}
