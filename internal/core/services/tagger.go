package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
)

// stopwords are excluded from tag candidates. The archive holds documents
// in English and Spanish, so both sets are covered.
var stopwords = map[string]struct{}{
	// English
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "any": {}, "can": {}, "had": {}, "has": {},
	"have": {}, "was": {}, "were": {}, "with": {}, "this": {}, "that": {},
	"from": {}, "they": {}, "will": {}, "would": {}, "there": {},
	"their": {}, "what": {}, "which": {}, "when": {}, "your": {},
	// Spanish
	"los": {}, "las": {}, "del": {}, "por": {}, "para": {}, "con": {},
	"una": {}, "uno": {}, "que": {}, "como": {}, "más": {}, "sus": {},
	"este": {}, "esta": {}, "entre": {}, "sobre": {}, "también": {},
	"pero": {}, "donde": {}, "cuando": {},
}

// Tagger is the tag suggestion engine. It scores term salience within a
// document against the shared vocabulary's historical frequency counts:
// terms frequent in the document but rare in the vocabulary rank highest.
// Output is deterministic for identical text and vocabulary state.
type Tagger struct {
	vocab  driven.VocabularyStore
	policy domain.ExtractionPolicy
}

// NewTagger creates a tag suggestion engine backed by the given vocabulary.
func NewTagger(vocab driven.VocabularyStore, policy domain.ExtractionPolicy) *Tagger {
	return &Tagger{vocab: vocab, policy: policy.Normalized()}
}

// Suggest produces a ranked list of candidate tags for the text, excluding
// any term in exclude (the document's manual tags). Empty text yields an
// empty list. Scores are in [0,1]. Ties break by shorter term, then
// lexicographic order.
func (t *Tagger) Suggest(ctx context.Context, text string, exclude []string) ([]domain.Tag, error) {
	counts := termCounts(text)
	if len(counts) == 0 {
		return nil, nil
	}

	for _, name := range exclude {
		delete(counts, domain.NormalizeTagName(name))
	}
	if len(counts) == 0 {
		return nil, nil
	}

	terms := make([]string, 0, len(counts))
	maxTF := 0
	for term, tf := range counts {
		terms = append(terms, term)
		if tf > maxTF {
			maxTF = tf
		}
	}
	sort.Strings(terms)

	// A vocabulary read failure degrades to unbiased scoring; suggestion
	// must never fail because the counter backend is unavailable.
	freqs, err := t.vocab.LookupBatch(ctx, terms)
	if err != nil {
		freqs = nil
	}

	tags := make([]domain.Tag, 0, len(terms))
	for _, term := range terms {
		tf := float64(counts[term]) / float64(maxTF)
		rarity := 1.0 / (1.0 + math.Log1p(float64(freqs[term])))
		tags = append(tags, domain.Tag{
			Name:   term,
			Origin: domain.TagOriginSuggested,
			Score:  tf * rarity,
		})
	}

	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].Score != tags[j].Score {
			return tags[i].Score > tags[j].Score
		}
		if len(tags[i].Name) != len(tags[j].Name) {
			return len(tags[i].Name) < len(tags[j].Name)
		}
		return tags[i].Name < tags[j].Name
	})

	if len(tags) > t.policy.MaxSuggestedTags {
		tags = tags[:t.policy.MaxSuggestedTags]
	}
	return tags, nil
}

// termCounts tokenizes text into normalized candidate terms with their
// in-document frequency. Tokens shorter than three runes, stopwords and
// bare numbers (except four-digit years) are dropped.
func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	var token strings.Builder
	hasLetter := false

	flush := func() {
		if token.Len() == 0 {
			return
		}
		term := token.String()
		token.Reset()
		letter := hasLetter
		hasLetter = false

		runes := len([]rune(term))
		if runes < 3 {
			return
		}
		if !letter && runes != 4 {
			return
		}
		if _, ok := stopwords[term]; ok {
			return
		}
		counts[term]++
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			token.WriteRune(unicode.ToLower(r))
			hasLetter = true
		case unicode.IsDigit(r):
			token.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return counts
}
