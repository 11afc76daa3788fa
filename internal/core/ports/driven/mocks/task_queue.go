package mocks

import (
	"context"
	"sync"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
)

// MockTaskQueue is an in-memory FIFO queue for worker tests.
type MockTaskQueue struct {
	mu      sync.Mutex
	pending []*domain.Task
	acked   []string
	nacked  map[string]string
}

// NewMockTaskQueue creates an empty queue.
func NewMockTaskQueue() *MockTaskQueue {
	return &MockTaskQueue{nacked: make(map[string]string)}
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, task)
	return nil
}

func (m *MockTaskQueue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil, nil
	}
	task := m.pending[0]
	m.pending = m.pending[1:]
	return task, nil
}

func (m *MockTaskQueue) Ack(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, taskID)
	return nil
}

func (m *MockTaskQueue) Nack(ctx context.Context, taskID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nacked[taskID] = reason
	return nil
}

func (m *MockTaskQueue) Ping(ctx context.Context) error { return nil }
func (m *MockTaskQueue) Close() error                   { return nil }

// Acked returns the IDs of acknowledged tasks.
func (m *MockTaskQueue) Acked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acked...)
}

// NackReason returns the recorded failure reason for a task.
func (m *MockTaskQueue) NackReason(taskID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nacked[taskID]
}
