package services

import (
	"context"
	"log/slog"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driving"
)

// Ensure tagService implements TagService
var _ driving.TagService = (*tagService)(nil)

// tagService manages document tag sets and feeds confirmed terms back into
// the shared vocabulary.
type tagService struct {
	docStore   driven.DocumentStore
	vocabulary driven.VocabularyStore
	logger     *slog.Logger
}

// NewTagService creates a new TagService.
func NewTagService(docStore driven.DocumentStore, vocabulary driven.VocabularyStore, logger *slog.Logger) driving.TagService {
	if logger == nil {
		logger = slog.Default()
	}
	return &tagService{docStore: docStore, vocabulary: vocabulary, logger: logger}
}

// Confirm adds names as manual tags, promoting matching suggestions in
// place, then records newly confirmed terms in the vocabulary.
func (s *tagService) Confirm(ctx context.Context, documentID string, names []string) (*domain.Document, error) {
	doc, err := s.docStore.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	var confirmed []string
	for _, name := range names {
		if doc.ConfirmTag(name) {
			confirmed = append(confirmed, domain.NormalizeTagName(name))
		}
	}
	if len(confirmed) == 0 {
		return doc, nil
	}

	if err := s.docStore.Save(ctx, doc); err != nil {
		return nil, err
	}

	recordVocabulary(ctx, s.vocabulary, s.logger, confirmed)
	return doc, nil
}

// Remove deletes a tag from the document by name. The vocabulary is not
// decremented: its counters only grow.
func (s *tagService) Remove(ctx context.Context, documentID, name string) (*domain.Document, error) {
	doc, err := s.docStore.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if !doc.RemoveTag(name) {
		return nil, domain.ErrNotFound
	}

	if err := s.docStore.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
