package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
)

const vocabularyKey = "archivo:vocabulary"

// Verify interface compliance
var _ driven.VocabularyStore = (*VocabularyStore)(nil)

// VocabularyStore keeps tag term counters in a Redis hash. HINCRBY is
// atomic, so concurrent confirmations never lose increments.
type VocabularyStore struct {
	client *redis.Client
}

// NewVocabularyStore creates a Redis-backed VocabularyStore
func NewVocabularyStore(client *redis.Client) *VocabularyStore {
	return &VocabularyStore{client: client}
}

// Lookup returns the usage count for a term, zero when unseen
func (s *VocabularyStore) Lookup(ctx context.Context, term string) (int64, error) {
	val, err := s.client.HGet(ctx, vocabularyKey, domain.NormalizeTagName(term)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up term: %w", err)
	}
	return strconv.ParseInt(val, 10, 64)
}

// LookupBatch returns usage counts for a set of terms in one round trip.
// Unseen terms are absent from the result map.
func (s *VocabularyStore) LookupBatch(ctx context.Context, terms []string) (map[string]int64, error) {
	if len(terms) == 0 {
		return map[string]int64{}, nil
	}

	fields := make([]string, len(terms))
	for i, term := range terms {
		fields[i] = domain.NormalizeTagName(term)
	}

	vals, err := s.client.HMGet(ctx, vocabularyKey, fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to look up terms: %w", err)
	}

	freqs := make(map[string]int64, len(terms))
	for i, val := range vals {
		raw, ok := val.(string)
		if !ok {
			continue
		}
		freq, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		freqs[fields[i]] = freq
	}
	return freqs, nil
}

// Record increments the counter of a term, creating it at one when unseen
func (s *VocabularyStore) Record(ctx context.Context, term string) error {
	term = domain.NormalizeTagName(term)
	if term == "" {
		return nil
	}
	if err := s.client.HIncrBy(ctx, vocabularyKey, term, 1).Err(); err != nil {
		return fmt.Errorf("failed to record term: %w", err)
	}
	return nil
}

// Close is a no-op; the Redis client is shared
func (s *VocabularyStore) Close() error { return nil }
