package driving

import (
	"context"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
)

// IngestRequest carries everything the pipeline needs for one document.
// The document ID is pre-assigned by the caller before ingestion starts.
type IngestRequest struct {
	// DocumentID is the identifier the document will be persisted under.
	DocumentID string

	// Filename is the original upload filename.
	Filename string

	// StoragePath locates the saved PDF in the file store. When Data is
	// empty the pipeline reads the bytes from here.
	StoragePath string

	// Data is the raw PDF byte stream. Optional if StoragePath is set.
	Data []byte

	// ManualTags are user-provided tag names confirmed at upload time.
	ManualTags []string
}

// IngestionService runs the extraction strategy selector and tag
// suggestion pipeline for one document.
type IngestionService interface {
	// Ingest extracts text (direct, with OCR fallback per page), suggests
	// tags, and persists the resulting document. A page-level failure
	// degrades that page to empty text; only an unparsable container
	// fails, with domain.MalformedDocumentError and no record created.
	Ingest(ctx context.Context, req IngestRequest) (*domain.Document, error)

	// Reprocess re-runs the pipeline for an existing document from its
	// stored file, preserving manual tags.
	Reprocess(ctx context.Context, documentID string) (*domain.Document, error)
}
