package domain

import (
	"strings"
	"time"
)

// ExtractionMethod classifies how a document's text body was obtained.
type ExtractionMethod string

const (
	// MethodDirect means every page yielded sufficient embedded text.
	MethodDirect ExtractionMethod = "direct"
	// MethodOCR means every page required OCR (including pages where OCR failed).
	MethodOCR ExtractionMethod = "ocr"
	// MethodHybrid means at least one page used direct extraction and at
	// least one page required OCR.
	MethodHybrid ExtractionMethod = "hybrid"
)

// TagOrigin distinguishes user-confirmed tags from pipeline suggestions.
type TagOrigin string

const (
	TagOriginManual    TagOrigin = "manual"
	TagOriginSuggested TagOrigin = "suggested"
)

// Tag is a descriptive label on a document. Suggested tags carry a
// relevance score in [0,1]; manual tags have a score of 0.
type Tag struct {
	Name   string    `json:"name"`
	Origin TagOrigin `json:"origin"`
	Score  float64   `json:"score,omitempty"`
}

// Document is the persistent record for one uploaded PDF.
// Suggested tags are ordered by relevance; manual tags keep insertion order.
type Document struct {
	ID          string           `json:"id"`
	Filename    string           `json:"filename"`
	StoragePath string           `json:"storage_path"`
	Text        string           `json:"text"`
	Method      ExtractionMethod `json:"extraction_method"`
	Tags        []Tag            `json:"tags"`
	UploadedAt  time.Time        `json:"uploaded_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NormalizeTagName lowercases and trims a tag name. Tag identity is
// case-insensitive everywhere in the system.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HasTag reports whether the document carries a tag with the given name,
// regardless of origin.
func (d *Document) HasTag(name string) bool {
	name = NormalizeTagName(name)
	for _, t := range d.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// ManualTagNames returns the normalized names of all manual tags.
func (d *Document) ManualTagNames() []string {
	var names []string
	for _, t := range d.Tags {
		if t.Origin == TagOriginManual {
			names = append(names, t.Name)
		}
	}
	return names
}

// ConfirmTag adds name as a manual tag. If a suggested tag with the same
// name exists it is promoted in place rather than duplicated. Returns true
// if the tag set changed (a new manual tag or a promotion).
func (d *Document) ConfirmTag(name string) bool {
	name = NormalizeTagName(name)
	if name == "" {
		return false
	}
	for i, t := range d.Tags {
		if t.Name != name {
			continue
		}
		if t.Origin == TagOriginManual {
			return false
		}
		d.Tags[i] = Tag{Name: name, Origin: TagOriginManual}
		return true
	}
	d.Tags = append(d.Tags, Tag{Name: name, Origin: TagOriginManual})
	return true
}

// RemoveTag removes a tag by name regardless of origin. Returns true if a
// tag was removed.
func (d *Document) RemoveTag(name string) bool {
	name = NormalizeTagName(name)
	for i, t := range d.Tags {
		if t.Name == name {
			d.Tags = append(d.Tags[:i], d.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceSuggestions swaps out the document's suggested tags while keeping
// manual tags untouched. Suggestions that collide with an existing manual
// tag are dropped.
func (d *Document) ReplaceSuggestions(suggestions []Tag) {
	kept := d.Tags[:0]
	for _, t := range d.Tags {
		if t.Origin == TagOriginManual {
			kept = append(kept, t)
		}
	}
	d.Tags = kept
	for _, s := range suggestions {
		s.Name = NormalizeTagName(s.Name)
		s.Origin = TagOriginSuggested
		if s.Name == "" || d.HasTag(s.Name) {
			continue
		}
		d.Tags = append(d.Tags, s)
	}
}

// SuggestedTags returns the suggested tags in their stored (relevance) order.
func (d *Document) SuggestedTags() []Tag {
	var out []Tag
	for _, t := range d.Tags {
		if t.Origin == TagOriginSuggested {
			out = append(out, t)
		}
	}
	return out
}

// DocumentFilter narrows a document listing.
type DocumentFilter struct {
	// Query matches as a case-insensitive substring of the filename or text.
	Query string
	// Tag requires an exact (normalized) tag name match.
	Tag string
	// Limit caps the number of results; Offset skips for pagination.
	Limit  int
	Offset int
}

// Matches reports whether the document satisfies the filter's query and
// tag criteria (pagination is the store's concern).
func (f DocumentFilter) Matches(d *Document) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(d.Filename), q) &&
			!strings.Contains(strings.ToLower(d.Text), q) {
			return false
		}
	}
	if f.Tag != "" && !d.HasTag(f.Tag) {
		return false
	}
	return true
}
