package driven

import (
	"context"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
)

// DocumentStore handles document persistence (PostgreSQL)
type DocumentStore interface {
	// Save creates or updates a document together with its tag set
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List retrieves documents matching the filter, newest upload first
	List(ctx context.Context, filter domain.DocumentFilter) ([]*domain.Document, error)

	// Delete deletes a document and its tags
	Delete(ctx context.Context, id string) error

	// Count returns total document count
	Count(ctx context.Context) (int, error)
}
