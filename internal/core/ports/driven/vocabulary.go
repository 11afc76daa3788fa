package driven

import "context"

// VocabularyStore is the process-wide tag vocabulary: known tag terms with
// usage frequency counts, used to bias suggestion scoring. Updates are
// append-or-increment only; there is no removal. Reads during suggestion
// must be safe against concurrent writes from tag confirmation.
type VocabularyStore interface {
	// Lookup returns the recorded frequency for a normalized term, zero
	// when the term is unknown.
	Lookup(ctx context.Context, term string) (int64, error)

	// LookupBatch returns frequencies for many terms in one round trip.
	// Unknown terms are omitted from the result map.
	LookupBatch(ctx context.Context, terms []string) (map[string]int64, error)

	// Record increments the frequency of a normalized term, creating it at
	// one when unknown.
	Record(ctx context.Context, term string) error

	// Close releases backend resources.
	Close() error
}
