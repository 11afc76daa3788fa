package domain

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// GenerateID creates a unique random ID.
func GenerateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// TaskType identifies the type of background task
type TaskType string

const (
	// TaskTypeIngestDocument runs the extraction and tagging pipeline for
	// a freshly uploaded file.
	TaskTypeIngestDocument TaskType = "ingest_document"
	// TaskTypeReprocessDocument re-runs the pipeline for an existing
	// document from its stored file.
	TaskTypeReprocessDocument TaskType = "reprocess_document"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task represents a background job to be processed by workers
type Task struct {
	// ID is the unique identifier for this task
	ID string `json:"id"`

	// Type identifies what kind of task this is
	Type TaskType `json:"type"`

	// Payload contains task-specific data.
	// For ingest_document: document_id, filename, storage_path, manual_tags
	// For reprocess_document: document_id
	Payload map[string]string `json:"payload"`

	// Status is the current state of the task
	Status TaskStatus `json:"status"`

	// Attempts is how many times this task has been attempted
	Attempts int `json:"attempts"`

	// MaxAttempts is the maximum retry count before giving up
	MaxAttempts int `json:"max_attempts"`

	// Error contains the last error message if failed
	Error string `json:"error,omitempty"`

	// CreatedAt is when the task was enqueued
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTask creates a new task with default values
func NewTask(taskType TaskType, payload map[string]string) *Task {
	now := time.Now()
	return &Task{
		ID:          GenerateID(),
		Type:        taskType,
		Payload:     payload,
		Status:      TaskStatusPending,
		MaxAttempts: 3,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewIngestTask creates a task to ingest an uploaded document.
func NewIngestTask(documentID, filename, storagePath string, manualTags string) *Task {
	return &Task{
		ID:          GenerateID(),
		Type:        TaskTypeIngestDocument,
		Payload:     map[string]string{"document_id": documentID, "filename": filename, "storage_path": storagePath, "manual_tags": manualTags},
		Status:      TaskStatusPending,
		MaxAttempts: 3,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// NewReprocessTask creates a task to re-run extraction for a document.
func NewReprocessTask(documentID string) *Task {
	return NewTask(TaskTypeReprocessDocument, map[string]string{"document_id": documentID})
}

// MarkProcessing transitions the task to processing and counts the attempt
func (t *Task) MarkProcessing() {
	t.Status = TaskStatusProcessing
	t.Attempts++
	t.UpdatedAt = time.Now()
}

// MarkCompleted transitions the task to completed
func (t *Task) MarkCompleted() {
	t.Status = TaskStatusCompleted
	t.Error = ""
	t.UpdatedAt = time.Now()
}

// MarkFailed transitions the task to failed with the final error
func (t *Task) MarkFailed(reason string) {
	t.Status = TaskStatusFailed
	t.Error = reason
	t.UpdatedAt = time.Now()
}

// CanRetry reports whether the attempt budget allows another run
func (t *Task) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// Retry re-queues the task after a failed attempt
func (t *Task) Retry(reason string) {
	t.Status = TaskStatusPending
	t.Error = reason
	t.UpdatedAt = time.Now()
}

// DocumentID extracts the document_id from the payload.
func (t *Task) DocumentID() string {
	if t.Payload == nil {
		return ""
	}
	return t.Payload["document_id"]
}
