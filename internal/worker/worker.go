package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driving"
)

// Worker drains the ingest queue and runs the extraction pipeline for each
// task.
type Worker struct {
	taskQueue driven.TaskQueue
	ingestion driving.IngestionService
	logger    *slog.Logger

	// Configuration
	concurrency    int
	dequeueTimeout int // seconds

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config holds configuration for the worker.
type Config struct {
	TaskQueue      driven.TaskQueue
	Ingestion      driving.IngestionService
	Logger         *slog.Logger
	Concurrency    int // Number of concurrent task processors
	DequeueTimeout int // Seconds to wait for a task before checking again
}

// New creates a new ingest worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	dequeueTimeout := cfg.DequeueTimeout
	if dequeueTimeout <= 0 {
		dequeueTimeout = 5
	}

	return &Worker{
		taskQueue:      cfg.TaskQueue,
		ingestion:      cfg.Ingestion,
		logger:         logger,
		concurrency:    concurrency,
		dequeueTimeout: dequeueTimeout,
	}
}

// Start begins the worker loop.
// It runs until Stop is called or context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("worker starting",
		"concurrency", w.concurrency,
		"dequeue_timeout", w.dequeueTimeout,
	)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(w.doneCh)
	}()

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

// Wait blocks until the worker stops.
func (w *Worker) Wait() {
	<-w.doneCh
}

// processLoop is the main processing loop for a worker goroutine.
func (w *Worker) processLoop(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)
	logger.Info("worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		case <-w.stopCh:
			logger.Info("worker stop signal received")
			return
		default:
		}

		task, err := w.taskQueue.DequeueWithTimeout(ctx, w.dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error("failed to dequeue task", "error", err)
			time.Sleep(time.Second) // Back off on error
			continue
		}

		if task == nil {
			continue
		}

		w.processTask(ctx, task, logger)
	}
}

// processTask processes a single task.
func (w *Worker) processTask(ctx context.Context, task *domain.Task, logger *slog.Logger) {
	logger = logger.With("task_id", task.ID, "task_type", task.Type, "document_id", task.DocumentID())
	logger.Info("processing task")

	startTime := time.Now()
	var err error

	switch task.Type {
	case domain.TaskTypeIngestDocument:
		err = w.handleIngest(ctx, task)
	case domain.TaskTypeReprocessDocument:
		err = w.handleReprocess(ctx, task)
	default:
		err = fmt.Errorf("unknown task type: %s", task.Type)
	}

	duration := time.Since(startTime)

	if err != nil {
		// Retrying cannot fix a file that is not a PDF; ack it so the queue
		// does not churn on it.
		var malformed *domain.MalformedDocumentError
		if errors.As(err, &malformed) {
			logger.Warn("document is malformed, dropping task",
				"duration", duration,
				"error", err,
			)
			if ackErr := w.taskQueue.Ack(ctx, task.ID); ackErr != nil {
				logger.Error("failed to ack task", "ack_error", ackErr)
			}
			return
		}

		logger.Error("task failed",
			"duration", duration,
			"error", err,
		)
		if nackErr := w.taskQueue.Nack(ctx, task.ID, err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}

	logger.Info("task completed", "duration", duration)

	if ackErr := w.taskQueue.Ack(ctx, task.ID); ackErr != nil {
		logger.Error("failed to ack task", "ack_error", ackErr)
	}
}

// handleIngest handles an ingest_document task.
func (w *Worker) handleIngest(ctx context.Context, task *domain.Task) error {
	documentID := task.DocumentID()
	if documentID == "" {
		return fmt.Errorf("document_id not found in task payload")
	}

	_, err := w.ingestion.Ingest(ctx, driving.IngestRequest{
		DocumentID:  documentID,
		Filename:    task.Payload["filename"],
		StoragePath: task.Payload["storage_path"],
		ManualTags:  splitManualTags(task.Payload["manual_tags"]),
	})
	return err
}

// handleReprocess handles a reprocess_document task.
func (w *Worker) handleReprocess(ctx context.Context, task *domain.Task) error {
	documentID := task.DocumentID()
	if documentID == "" {
		return fmt.Errorf("document_id not found in task payload")
	}

	_, err := w.ingestion.Reprocess(ctx, documentID)
	return err
}

func splitManualTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
