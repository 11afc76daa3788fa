package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface
type documentService struct {
	docStore  driven.DocumentStore
	fileStore driven.FileStore
	logger    *slog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(docStore driven.DocumentStore, fileStore driven.FileStore, logger *slog.Logger) driving.DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentService{docStore: docStore, fileStore: fileStore, logger: logger}
}

// Get retrieves a document by ID
func (s *documentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.docStore.Get(ctx, id)
}

// List retrieves documents matching the filter, newest upload first
func (s *documentService) List(ctx context.Context, filter domain.DocumentFilter) ([]*domain.Document, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	filter.Tag = domain.NormalizeTagName(filter.Tag)
	return s.docStore.List(ctx, filter)
}

// Delete removes the document record and its stored file. Deletion is an
// explicit user action; the pipeline itself never deletes documents.
func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.docStore.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.docStore.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.fileStore.Delete(ctx, doc.StoragePath); err != nil && !errors.Is(err, domain.ErrNotFound) {
		// The record is gone; an orphaned file is worth a warning, not a failure.
		s.logger.Warn("failed to delete stored file", "document_id", id, "path", doc.StoragePath, "error", err)
	}
	return nil
}

// Count returns the total number of documents
func (s *documentService) Count(ctx context.Context) (int, error) {
	return s.docStore.Count(ctx)
}
