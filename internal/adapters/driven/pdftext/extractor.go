package pdftext

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
)

// Ensure Extractor implements DirectExtractor
var _ driven.DirectExtractor = (*Extractor)(nil)

// Extractor pulls the embedded text layer out of a PDF, one entry per page.
// Pages without a text layer come back with empty text so the caller can
// decide which pages need OCR; only an unparsable container is an error.
type Extractor struct{}

// NewExtractor creates a direct text extractor.
func NewExtractor() *Extractor { return &Extractor{} }

// ExtractPages parses the PDF and returns the embedded text of every page in
// page order. Returns domain.MalformedDocumentError when the bytes are not a
// parsable PDF.
func (e *Extractor) ExtractPages(ctx context.Context, data []byte) ([]driven.PageText, error) {
	if len(data) == 0 {
		return nil, &domain.MalformedDocumentError{Err: errors.New("empty file")}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &domain.MalformedDocumentError{Err: err}
	}

	pages := make([]driven.PageText, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := ""
		if page := reader.Page(i); !page.V.IsNull() {
			// Content stream errors on a single page mean "no text layer
			// here", not a broken document.
			if plain, err := page.GetPlainText(nil); err == nil {
				text = strings.TrimSpace(plain)
			}
		}
		pages = append(pages, driven.PageText{
			Index:     i - 1,
			Text:      text,
			WordCount: len(strings.Fields(text)),
		})
	}
	return pages, nil
}
