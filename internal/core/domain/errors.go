package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrQueueUnavailable indicates no task queue backend is configured
	ErrQueueUnavailable = errors.New("task queue unavailable")
)

// MalformedDocumentError means the PDF container itself cannot be parsed.
// This is the only extraction failure that aborts ingestion: no document
// record is created and the error is surfaced to the uploader.
type MalformedDocumentError struct {
	Filename string
	Err      error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document %q: %v", e.Filename, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// UnsupportedPageError means a page index is outside the document's range.
type UnsupportedPageError struct {
	PageIndex int
	PageCount int
}

func (e *UnsupportedPageError) Error() string {
	return fmt.Sprintf("page %d out of range (document has %d pages)", e.PageIndex, e.PageCount)
}

// RasterizationError means the renderer could not produce an image for a
// page. Recoverable: the page degrades to empty text.
type RasterizationError struct {
	PageIndex int
	Err       error
}

func (e *RasterizationError) Error() string {
	return fmt.Sprintf("rasterize page %d: %v", e.PageIndex, e.Err)
}

func (e *RasterizationError) Unwrap() error { return e.Err }

// RecognitionError means the OCR engine crashed or timed out on a page.
// Recoverable: the page is recorded as ocr-failed with empty text.
type RecognitionError struct {
	PageIndex int
	Err       error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognize page %d: %v", e.PageIndex, e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }
