package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven/mocks"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driving"
)

// mockIngestion records pipeline invocations without running extraction
type mockIngestion struct {
	mu          sync.Mutex
	ingested    []driving.IngestRequest
	reprocessed []string
	err         error
}

func (m *mockIngestion) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.ingested = append(m.ingested, req)
	return &domain.Document{ID: req.DocumentID}, nil
}

func (m *mockIngestion) Reprocess(ctx context.Context, documentID string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.reprocessed = append(m.reprocessed, documentID)
	return &domain.Document{ID: documentID}, nil
}

func (m *mockIngestion) ingestedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ingested)
}

func runWorkerUntil(t *testing.T, w *Worker, cond func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			w.Stop()
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
	w.Stop()
}

func TestWorkerProcessesIngestTask(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	ingestion := &mockIngestion{}
	task := domain.NewIngestTask("doc-1", "scan.pdf", "docs/scan.pdf", "legal,actas")
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatal(err)
	}

	w := New(Config{TaskQueue: queue, Ingestion: ingestion, DequeueTimeout: 1})
	runWorkerUntil(t, w, func() bool { return len(queue.Acked()) > 0 })

	if got := queue.Acked(); len(got) != 1 || got[0] != task.ID {
		t.Errorf("acked = %v, want [%s]", got, task.ID)
	}
	if ingestion.ingestedCount() != 1 {
		t.Fatalf("ingest calls = %d, want 1", ingestion.ingestedCount())
	}

	req := ingestion.ingested[0]
	if req.DocumentID != "doc-1" || req.StoragePath != "docs/scan.pdf" {
		t.Errorf("unexpected request: %+v", req)
	}
	if len(req.ManualTags) != 2 || req.ManualTags[0] != "legal" || req.ManualTags[1] != "actas" {
		t.Errorf("manual tags = %v", req.ManualTags)
	}
}

func TestWorkerProcessesReprocessTask(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	ingestion := &mockIngestion{}
	task := domain.NewReprocessTask("doc-9")
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatal(err)
	}

	w := New(Config{TaskQueue: queue, Ingestion: ingestion, DequeueTimeout: 1})
	runWorkerUntil(t, w, func() bool { return len(queue.Acked()) > 0 })

	ingestion.mu.Lock()
	defer ingestion.mu.Unlock()
	if len(ingestion.reprocessed) != 1 || ingestion.reprocessed[0] != "doc-9" {
		t.Errorf("reprocessed = %v", ingestion.reprocessed)
	}
}

func TestWorkerNacksFailedTask(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	ingestion := &mockIngestion{err: errors.New("ocr backend down")}
	task := domain.NewReprocessTask("doc-1")
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatal(err)
	}

	w := New(Config{TaskQueue: queue, Ingestion: ingestion, DequeueTimeout: 1})
	runWorkerUntil(t, w, func() bool { return queue.NackReason(task.ID) != "" })

	if reason := queue.NackReason(task.ID); reason != "ocr backend down" {
		t.Errorf("nack reason = %q", reason)
	}
	if len(queue.Acked()) != 0 {
		t.Errorf("failed task must not be acked: %v", queue.Acked())
	}
}

func TestWorkerAcksMalformedDocument(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	ingestion := &mockIngestion{err: &domain.MalformedDocumentError{Filename: "junk.pdf"}}
	task := domain.NewIngestTask("doc-1", "junk.pdf", "docs/junk.pdf", "")
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatal(err)
	}

	w := New(Config{TaskQueue: queue, Ingestion: ingestion, DequeueTimeout: 1})
	runWorkerUntil(t, w, func() bool { return len(queue.Acked()) > 0 })

	// Retrying a broken file is pointless; the task must be dropped, not
	// bounced through the retry budget.
	if queue.NackReason(task.ID) != "" {
		t.Errorf("malformed document must not be nacked: %q", queue.NackReason(task.ID))
	}
}

func TestWorkerStartIsIdempotent(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	w := New(Config{TaskQueue: queue, Ingestion: &mockIngestion{}, DequeueTimeout: 1})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	w.Stop()
}
