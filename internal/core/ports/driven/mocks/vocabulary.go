package mocks

import (
	"context"
	"sync"
)

// MockVocabularyStore is an in-memory vocabulary with a locked counter map.
type MockVocabularyStore struct {
	mu    sync.RWMutex
	freqs map[string]int64

	// RecordErrs are returned by successive Record calls before the call
	// succeeds, for exercising retry behavior.
	RecordErrs []error
	recordIdx  int
}

// NewMockVocabularyStore creates an empty vocabulary.
func NewMockVocabularyStore() *MockVocabularyStore {
	return &MockVocabularyStore{freqs: make(map[string]int64)}
}

// Seed pre-loads a term frequency.
func (m *MockVocabularyStore) Seed(term string, freq int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.freqs[term] = freq
}

func (m *MockVocabularyStore) Lookup(ctx context.Context, term string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.freqs[term], nil
}

func (m *MockVocabularyStore) LookupBatch(ctx context.Context, terms []string) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64)
	for _, t := range terms {
		if f, ok := m.freqs[t]; ok {
			out[t] = f
		}
	}
	return out, nil
}

func (m *MockVocabularyStore) Record(ctx context.Context, term string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordIdx < len(m.RecordErrs) {
		err := m.RecordErrs[m.recordIdx]
		m.recordIdx++
		if err != nil {
			return err
		}
	}
	m.freqs[term]++
	return nil
}

func (m *MockVocabularyStore) Close() error { return nil }
