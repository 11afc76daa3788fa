package driven

import "context"

// PageText is the embedded text pulled from one PDF page.
type PageText struct {
	// Index is the zero-based page ordinal.
	Index int
	// Text is the embedded text; empty when the page has none.
	Text string
	// WordCount is the number of whitespace-separated tokens in Text.
	WordCount int
}

// DirectExtractor pulls embedded text objects from a PDF without
// rasterization. A well-formed PDF with no extractable text yields empty
// page texts, not an error; only an unparsable container fails, with
// domain.MalformedDocumentError.
type DirectExtractor interface {
	ExtractPages(ctx context.Context, data []byte) ([]PageText, error)
}

// PageImage is a transient raster rendering of a single PDF page, used as
// OCR input and discarded afterwards.
type PageImage struct {
	// PageIndex is the zero-based page the image was produced from.
	PageIndex int
	// Data is the encoded image payload.
	Data []byte
	// Format is the image content type (e.g. image/png).
	Format string
	// DPI is the effective resolution hint for recognition.
	DPI int
}

// PageRasterizer converts one PDF page into a raster image at a configured
// resolution. Fails with domain.UnsupportedPageError when the index is out
// of range and domain.RasterizationError when the page cannot be decoded.
type PageRasterizer interface {
	Rasterize(ctx context.Context, data []byte, pageIndex, dpi int) (*PageImage, error)
}

// Recognition is the OCR output for one page image.
type Recognition struct {
	// Text is the recognized plain text.
	Text string
	// Confidence is in [0,1], engine-reported or derived from per-word
	// confidences.
	Confidence float64
}

// OCREngine runs recognition over a raster image. Engine crashes or
// timeouts surface as domain.RecognitionError; callers treat that as
// "page unreadable" rather than aborting the document.
type OCREngine interface {
	Recognize(ctx context.Context, img *PageImage) (*Recognition, error)
}
