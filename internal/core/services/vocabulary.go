package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
)

const (
	vocabularyRetries = 3
	vocabularyBackoff = 50 * time.Millisecond
)

// recordVocabulary increments the frequency counter for each confirmed
// term. Write contention is retried with a short backoff and never
// surfaced to the caller; a term that still fails is logged and skipped.
func recordVocabulary(ctx context.Context, vocab driven.VocabularyStore, logger *slog.Logger, terms []string) {
	for _, term := range terms {
		var err error
		backoff := vocabularyBackoff
		for attempt := 0; attempt < vocabularyRetries; attempt++ {
			if err = vocab.Record(ctx, term); err == nil {
				break
			}
			select {
			case <-ctx.Done():
				logger.Warn("vocabulary record aborted", "term", term, "error", ctx.Err())
				return
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if err != nil {
			logger.Warn("vocabulary record failed", "term", term, "error", err)
		}
	}
}
