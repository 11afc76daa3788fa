package driving

import (
	"context"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
)

// DocumentService provides document retrieval, listing and deletion.
type DocumentService interface {
	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List retrieves documents matching the filter, newest upload first
	List(ctx context.Context, filter domain.DocumentFilter) ([]*domain.Document, error)

	// Delete removes the document record and its stored file
	Delete(ctx context.Context, id string) error

	// Count returns the total number of documents
	Count(ctx context.Context) (int, error)
}
