package driving

import (
	"context"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
)

// TagService manages the tag set of a document and feeds confirmed terms
// back into the shared vocabulary.
type TagService interface {
	// Confirm adds the given names as manual tags, promoting matching
	// suggestions in place, and records newly confirmed terms in the
	// vocabulary. Returns the updated document.
	Confirm(ctx context.Context, documentID string, names []string) (*domain.Document, error)

	// Remove deletes a tag from the document by name.
	Remove(ctx context.Context, documentID, name string) (*domain.Document, error)
}
