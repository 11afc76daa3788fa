package mocks

import (
	"context"
	"sync"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
)

// MockFileStore keeps uploaded bytes in memory, keyed by storage path.
type MockFileStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMockFileStore creates an empty file store.
func NewMockFileStore() *MockFileStore {
	return &MockFileStore{files: make(map[string][]byte)}
}

func (m *MockFileStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := "docs/" + filename
	m.files[path] = append([]byte(nil), data...)
	return path, nil
}

func (m *MockFileStore) Read(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MockFileStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

// Exists reports whether a path is stored.
func (m *MockFileStore) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[path]
	return ok
}
