package domain

import "time"

// ExtractionPolicy collects the tunable thresholds that drive the
// extraction strategy selector and the tag suggestion engine.
type ExtractionPolicy struct {
	// MinWordsForDirect is the minimum word count for a page's embedded
	// text to be considered sufficient without OCR.
	MinWordsForDirect int

	// MinTextDensity is an alternative sufficiency signal: pages whose
	// non-whitespace character ratio meets this floor are accepted even
	// below the word threshold.
	MinTextDensity float64

	// OCRDPI is the resolution hint passed to the OCR engine. 300 trades
	// accuracy against processing time reasonably for scanned documents.
	OCRDPI int

	// MaxSuggestedTags caps the ranked suggestion list.
	MaxSuggestedTags int

	// OCRTimeout bounds a single OCR call; expiry degrades that page to
	// empty text, never the whole document.
	OCRTimeout time.Duration

	// PageConcurrency limits how many pages are rasterized and recognized
	// in parallel within one document.
	PageConcurrency int
}

// DefaultExtractionPolicy returns the documented defaults.
func DefaultExtractionPolicy() ExtractionPolicy {
	return ExtractionPolicy{
		MinWordsForDirect: 3,
		MinTextDensity:    0.75,
		OCRDPI:            300,
		MaxSuggestedTags:  10,
		OCRTimeout:        30 * time.Second,
		PageConcurrency:   4,
	}
}

// PageSufficient applies the decision rule for direct extraction: a page
// is sufficient if its word count meets the threshold, or its text density
// does. A purely-image page yields near-zero words, which is the OCR
// fallback trigger.
func (p ExtractionPolicy) PageSufficient(text string) bool {
	words := CountWords(text)
	if words >= p.MinWordsForDirect {
		return true
	}
	return words > 0 && TextDensity(text) >= p.MinTextDensity
}

// Normalized returns a copy with zero values replaced by defaults so a
// partially populated policy never disables the pipeline.
func (p ExtractionPolicy) Normalized() ExtractionPolicy {
	def := DefaultExtractionPolicy()
	if p.MinWordsForDirect <= 0 {
		p.MinWordsForDirect = def.MinWordsForDirect
	}
	if p.MinTextDensity <= 0 {
		p.MinTextDensity = def.MinTextDensity
	}
	if p.OCRDPI <= 0 {
		p.OCRDPI = def.OCRDPI
	}
	if p.MaxSuggestedTags <= 0 {
		p.MaxSuggestedTags = def.MaxSuggestedTags
	}
	if p.OCRTimeout <= 0 {
		p.OCRTimeout = def.OCRTimeout
	}
	if p.PageConcurrency <= 0 {
		p.PageConcurrency = def.PageConcurrency
	}
	return p
}
