package driven

import (
	"context"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
)

// TaskQueue handles background ingest task queuing and processing.
type TaskQueue interface {
	// Enqueue adds a task to the queue for processing.
	Enqueue(ctx context.Context, task *domain.Task) error

	// DequeueWithTimeout retrieves the next available task, waiting up to
	// timeout seconds. Returns nil, nil if the timeout elapses with no
	// tasks available. The task is claimed and not handed to other workers.
	DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error)

	// Ack acknowledges successful completion of a task.
	Ack(ctx context.Context, taskID string) error

	// Nack indicates task processing failed. The task is retried until its
	// attempt budget is spent, then dropped with the reason recorded.
	Nack(ctx context.Context, taskID string, reason string) error

	// Ping checks if the queue backend is healthy.
	Ping(ctx context.Context) error

	// Close cleans up resources.
	Close() error
}
