package domain

import (
	"strings"
	"unicode"
)

// PageState tracks a page through the extraction run.
// Transitions: pending → direct_tried → (done | needs_ocr) → ocr_tried → done.
type PageState string

const (
	PageStatePending     PageState = "pending"
	PageStateDirectTried PageState = "direct_tried"
	PageStateNeedsOCR    PageState = "needs_ocr"
	PageStateOCRTried    PageState = "ocr_tried"
	PageStateDone        PageState = "done"
)

// PageMethod records how a single page's text was obtained.
type PageMethod string

const (
	PageMethodDirect PageMethod = "direct"
	PageMethodOCR    PageMethod = "ocr"
	// PageMethodOCRFailed marks a page whose rasterization or recognition
	// failed; its text is empty and the document continues without it.
	PageMethodOCRFailed PageMethod = "ocr-failed"
)

// Page is the transient per-page working state of one extraction run.
// Pages are owned by the run that produced them and are discarded after
// assembly into the document text body.
type Page struct {
	Index      int
	Text       string
	WordCount  int
	Method     PageMethod
	Confidence float64
	State      PageState
}

// RequiredOCR reports whether the page fell back to OCR, successfully or not.
func (p *Page) RequiredOCR() bool {
	return p.Method == PageMethodOCR || p.Method == PageMethodOCRFailed
}

// AggregateMethod collapses per-page methods into the document-level
// extraction method: hybrid iff at least one page used OCR and at least one
// used direct extraction, ocr iff every page required OCR, direct otherwise.
// An empty page set aggregates to direct.
func AggregateMethod(pages []Page) ExtractionMethod {
	var direct, ocr int
	for i := range pages {
		if pages[i].RequiredOCR() {
			ocr++
		} else {
			direct++
		}
	}
	switch {
	case ocr > 0 && direct > 0:
		return MethodHybrid
	case ocr > 0:
		return MethodOCR
	default:
		return MethodDirect
	}
}

// AssembleText concatenates each page's best available text in page order,
// separated by a blank line per page boundary. Pages with empty text are
// skipped.
func AssembleText(pages []Page) string {
	var b strings.Builder
	for i := range pages {
		t := strings.TrimSpace(pages[i].Text)
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(t)
	}
	return b.String()
}

// CountWords returns the number of whitespace-separated tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TextDensity returns the ratio of non-whitespace characters to total
// characters. Empty text has zero density.
func TextDensity(text string) float64 {
	if text == "" {
		return 0
	}
	var total, ink int
	for _, r := range text {
		total++
		if !unicode.IsSpace(r) {
			ink++
		}
	}
	return float64(ink) / float64(total)
}
