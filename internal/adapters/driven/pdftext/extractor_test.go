package pdftext

import (
	"context"
	"errors"
	"testing"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
)

func TestExtractPagesEmptyInput(t *testing.T) {
	e := NewExtractor()

	_, err := e.ExtractPages(context.Background(), nil)
	var malformed *domain.MalformedDocumentError
	if !errors.As(err, &malformed) {
		t.Errorf("expected MalformedDocumentError, got %v", err)
	}
}

func TestExtractPagesGarbageInput(t *testing.T) {
	e := NewExtractor()

	_, err := e.ExtractPages(context.Background(), []byte("this is not a pdf at all"))
	var malformed *domain.MalformedDocumentError
	if !errors.As(err, &malformed) {
		t.Errorf("expected MalformedDocumentError, got %v", err)
	}
}

func TestExtractPagesTruncatedHeader(t *testing.T) {
	e := NewExtractor()

	// A valid header with no body or xref table must not parse.
	_, err := e.ExtractPages(context.Background(), []byte("%PDF-1.7\n"))
	var malformed *domain.MalformedDocumentError
	if !errors.As(err, &malformed) {
		t.Errorf("expected MalformedDocumentError, got %v", err)
	}
}
