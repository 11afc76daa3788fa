package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
	"github.com/lib/pq"
)

// Verify interface compliance
var _ driven.VocabularyStore = (*VocabularyStore)(nil)

// VocabularyStore keeps per-term usage counters in the vocabulary table.
// Counters only ever grow; removing a tag from a document does not
// decrement its term.
type VocabularyStore struct {
	db *DB
}

// NewVocabularyStore creates a new VocabularyStore
func NewVocabularyStore(db *DB) *VocabularyStore {
	return &VocabularyStore{db: db}
}

// Lookup returns the usage count for a term, zero when unseen
func (s *VocabularyStore) Lookup(ctx context.Context, term string) (int64, error) {
	var freq int64
	err := s.db.QueryRowContext(ctx, `SELECT freq FROM vocabulary WHERE term = $1`, term).Scan(&freq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return freq, err
}

// LookupBatch returns usage counts for a set of terms. Unseen terms are
// absent from the result map.
func (s *VocabularyStore) LookupBatch(ctx context.Context, terms []string) (map[string]int64, error) {
	if len(terms) == 0 {
		return map[string]int64{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT term, freq FROM vocabulary WHERE term = ANY($1)`, pq.Array(terms))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	freqs := make(map[string]int64, len(terms))
	for rows.Next() {
		var term string
		var freq int64
		if err := rows.Scan(&term, &freq); err != nil {
			return nil, err
		}
		freqs[term] = freq
	}
	return freqs, rows.Err()
}

// Record increments the counter of a term, inserting it at one when unseen
func (s *VocabularyStore) Record(ctx context.Context, term string) error {
	term = domain.NormalizeTagName(term)
	if term == "" {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vocabulary (term, freq) VALUES ($1, 1)
		ON CONFLICT (term) DO UPDATE SET freq = vocabulary.freq + 1
	`, term)
	return err
}

// Close is a no-op; the shared DB pool is closed by its owner
func (s *VocabularyStore) Close() error { return nil }
