package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save creates or updates a document and rewrites its tag set
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO documents (id, filename, storage_path, content, method, uploaded_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				filename = EXCLUDED.filename,
				storage_path = EXCLUDED.storage_path,
				content = EXCLUDED.content,
				method = EXCLUDED.method,
				updated_at = EXCLUDED.updated_at
		`
		if _, err := tx.ExecContext(ctx, query,
			doc.ID,
			doc.Filename,
			doc.StoragePath,
			doc.Text,
			string(doc.Method),
			doc.UploadedAt,
			doc.UpdatedAt,
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM document_tags WHERE document_id = $1`, doc.ID); err != nil {
			return err
		}

		if len(doc.Tags) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO document_tags (document_id, name, origin, score, position)
			VALUES ($1, $2, $3, $4, $5)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, tag := range doc.Tags {
			if _, err := stmt.ExecContext(ctx, doc.ID, tag.Name, string(tag.Origin), tag.Score, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get retrieves a document with its tags
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	query := `
		SELECT id, filename, storage_path, content, method, uploaded_at, updated_at
		FROM documents
		WHERE id = $1
	`

	var doc domain.Document
	var method string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.StoragePath,
		&doc.Text,
		&method,
		&doc.UploadedAt,
		&doc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	doc.Method = domain.ExtractionMethod(method)

	if err := s.loadTags(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// List retrieves documents matching the filter, newest upload first.
// Query matches filename or extracted text as a case-insensitive substring;
// Tag requires an exact tag name.
func (s *DocumentStore) List(ctx context.Context, filter domain.DocumentFilter) ([]*domain.Document, error) {
	query := `
		SELECT d.id, d.filename, d.storage_path, d.content, d.method, d.uploaded_at, d.updated_at
		FROM documents d
		WHERE ($1 = '' OR d.filename ILIKE '%' || $1 || '%' OR d.content ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR EXISTS (
				SELECT 1 FROM document_tags t
				WHERE t.document_id = d.id AND t.name = $2
		  ))
		ORDER BY d.uploaded_at DESC
		LIMIT $3 OFFSET $4
	`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, query, filter.Query, filter.Tag, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		var doc domain.Document
		var method string
		if err := rows.Scan(
			&doc.ID,
			&doc.Filename,
			&doc.StoragePath,
			&doc.Text,
			&method,
			&doc.UploadedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		doc.Method = domain.ExtractionMethod(method)
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if err := s.loadTags(ctx, doc); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// Delete deletes a document; tags go with it via the cascade
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns total document count
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

func (s *DocumentStore) loadTags(ctx context.Context, doc *domain.Document) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, origin, score
		FROM document_tags
		WHERE document_id = $1
		ORDER BY position
	`, doc.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tag domain.Tag
		var origin string
		if err := rows.Scan(&tag.Name, &origin, &tag.Score); err != nil {
			return err
		}
		tag.Origin = domain.TagOrigin(origin)
		doc.Tags = append(doc.Tags, tag)
	}
	return rows.Err()
}
