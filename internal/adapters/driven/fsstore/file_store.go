package fsstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FileStore = (*FileStore)(nil)

// unsafeChars matches everything outside the allowed filename alphabet.
// Anything a client sends ends up as a flat name under the data root.
var unsafeChars = regexp.MustCompile(`[^\w\-. ]+`)

// FileStore keeps uploaded documents as flat files under a data root.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("data root is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data root: %w", err)
	}
	return &FileStore{root: dir}, nil
}

// Save writes the uploaded bytes under a sanitized filename and returns the
// storage path. An existing file with the same name is overwritten.
func (s *FileStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.root, SafeFilename(filename))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// Read returns the stored bytes for a path previously returned by Save.
func (s *FileStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Delete removes a stored file. Missing files are domain.ErrNotFound.
func (s *FileStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.ErrNotFound
	}
	return err
}

// SafeFilename strips directories and replaces unsafe characters, falling
// back to a timestamped name when nothing usable remains.
func SafeFilename(name string) string {
	base := filepath.Base(name)
	base = unsafeChars.ReplaceAllString(base, "_")
	if base == "" || base == "." || base == ".." {
		return fmt.Sprintf("file_%d.pdf", time.Now().Unix())
	}
	return base
}
