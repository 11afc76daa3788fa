package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven/mocks"
)

func storeDocuments(t *testing.T, store *mocks.MockDocumentStore, docs ...*domain.Document) {
	t.Helper()
	for _, doc := range docs {
		if err := store.Save(context.Background(), doc); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDocumentService_ListNewestFirst(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	storeDocuments(t, store,
		&domain.Document{ID: "old", Filename: "a.pdf", UploadedAt: base},
		&domain.Document{ID: "new", Filename: "b.pdf", UploadedAt: base.Add(time.Hour)},
	)
	svc := NewDocumentService(store, mocks.NewMockFileStore(), nil)

	docs, err := svc.List(context.Background(), domain.DocumentFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0].ID != "new" || docs[1].ID != "old" {
		t.Errorf("unexpected order: %v", ids(docs))
	}
}

func TestDocumentService_ListFiltersByTagAndQuery(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	tagged := &domain.Document{ID: "tagged", Filename: "contrato.pdf", Text: "contrato de arrendamiento"}
	tagged.ConfirmTag("legal")
	storeDocuments(t, store,
		tagged,
		&domain.Document{ID: "plain", Filename: "notas.pdf", Text: "minuta de reunion"},
	)
	svc := NewDocumentService(store, mocks.NewMockFileStore(), nil)

	docs, err := svc.List(context.Background(), domain.DocumentFilter{Tag: "LEGAL"})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "tagged" {
		t.Errorf("tag filter returned %v", ids(docs))
	}

	docs, err = svc.List(context.Background(), domain.DocumentFilter{Query: "reunion"})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "plain" {
		t.Errorf("query filter returned %v", ids(docs))
	}
}

func TestDocumentService_DeleteRemovesRecordAndFile(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	files := mocks.NewMockFileStore()
	path, err := files.Save(context.Background(), "scan.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatal(err)
	}
	storeDocuments(t, store, &domain.Document{ID: "doc-1", Filename: "scan.pdf", StoragePath: path})
	svc := NewDocumentService(store, files, nil)

	if err := svc.Delete(context.Background(), "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(context.Background(), "doc-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("record must be removed, got %v", err)
	}
	if files.Exists(path) {
		t.Error("stored file must be removed with the record")
	}
}

func TestDocumentService_DeleteUnknown(t *testing.T) {
	svc := NewDocumentService(mocks.NewMockDocumentStore(), mocks.NewMockFileStore(), nil)

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentService_Count(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	storeDocuments(t, store,
		&domain.Document{ID: "a", Filename: "a.pdf"},
		&domain.Document{ID: "b", Filename: "b.pdf"},
	)
	svc := NewDocumentService(store, mocks.NewMockFileStore(), nil)

	n, err := svc.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func ids(docs []*domain.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}
