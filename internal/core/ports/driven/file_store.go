package driven

import "context"

// FileStore persists uploaded PDF bytes. The pipeline reads back from the
// returned storage path; deletion happens only on explicit user action.
type FileStore interface {
	// Save writes the uploaded bytes under a sanitized version of filename
	// and returns the storage path to record on the document.
	Save(ctx context.Context, filename string, data []byte) (string, error)

	// Read returns the bytes stored at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Delete removes the stored file. Missing files are not an error.
	Delete(ctx context.Context, path string) error
}
