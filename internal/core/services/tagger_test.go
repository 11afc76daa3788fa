package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven/mocks"
)

func suggestNames(t *testing.T, tagger *Tagger, text string, exclude []string) []string {
	t.Helper()
	tags, err := tagger.Suggest(context.Background(), text, exclude)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}

func TestSuggest_EmptyTextYieldsEmptyList(t *testing.T) {
	tagger := NewTagger(mocks.NewMockVocabularyStore(), domain.ExtractionPolicy{})

	tags, err := tagger.Suggest(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("empty input must not error: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("expected no suggestions, got %d", len(tags))
	}
}

func TestSuggest_Deterministic(t *testing.T) {
	vocab := mocks.NewMockVocabularyStore()
	vocab.Seed("factura", 12)
	tagger := NewTagger(vocab, domain.ExtractionPolicy{})

	text := "factura subtotal iva factura folio proveedor subtotal factura"
	first := suggestNames(t, tagger, text, nil)
	for i := 0; i < 5; i++ {
		if got := suggestNames(t, tagger, text, nil); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed: %v vs %v", i, got, first)
		}
	}
}

func TestSuggest_ExcludesManualTags(t *testing.T) {
	tagger := NewTagger(mocks.NewMockVocabularyStore(), domain.ExtractionPolicy{})

	names := suggestNames(t, tagger, "contrato vigencia contrato obligaciones", []string{"Contrato"})
	for _, n := range names {
		if n == "contrato" {
			t.Error("manual tags must never be suggested")
		}
	}
	if len(names) == 0 {
		t.Error("other terms should still be suggested")
	}
}

func TestSuggest_FrequencyDrivesRank(t *testing.T) {
	tagger := NewTagger(mocks.NewMockVocabularyStore(), domain.ExtractionPolicy{})

	names := suggestNames(t, tagger, "invoice invoice invoice payment payment receipt", nil)
	want := []string{"invoice", "payment", "receipt"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ranked names = %v, want %v", names, want)
	}
}

func TestSuggest_VocabularyBiasDemotesCommonTerms(t *testing.T) {
	vocab := mocks.NewMockVocabularyStore()
	vocab.Seed("informe", 50)
	tagger := NewTagger(vocab, domain.ExtractionPolicy{})

	// Equal in-document frequency; the historically common term ranks lower.
	names := suggestNames(t, tagger, "informe presupuesto informe presupuesto", nil)
	want := []string{"presupuesto", "informe"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ranked names = %v, want %v", names, want)
	}
}

func TestSuggest_TieBreaksShorterThenLexicographic(t *testing.T) {
	tagger := NewTagger(mocks.NewMockVocabularyStore(), domain.ExtractionPolicy{})

	// All terms appear once with no vocabulary bias: identical scores.
	names := suggestNames(t, tagger, "zebra apple kiwi", nil)
	want := []string{"kiwi", "apple", "zebra"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("tie-broken names = %v, want %v", names, want)
	}
}

func TestSuggest_TruncatesToPolicyMax(t *testing.T) {
	tagger := NewTagger(mocks.NewMockVocabularyStore(), domain.ExtractionPolicy{MaxSuggestedTags: 2})

	names := suggestNames(t, tagger, "alpha bravo charlie delta echo", nil)
	if len(names) != 2 {
		t.Errorf("expected 2 suggestions, got %d: %v", len(names), names)
	}
}

func TestSuggest_ScoresWithinUnitInterval(t *testing.T) {
	vocab := mocks.NewMockVocabularyStore()
	vocab.Seed("archivo", 3)
	tagger := NewTagger(vocab, domain.ExtractionPolicy{})

	tags, err := tagger.Suggest(context.Background(), "archivo digital archivo nacional", nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, tag := range tags {
		if tag.Score <= 0 || tag.Score > 1 {
			t.Errorf("score for %s out of (0,1]: %f", tag.Name, tag.Score)
		}
	}
}

func TestTermCounts_Filtering(t *testing.T) {
	counts := termCounts("The la 42 2025 A1B2 sat, SAT. y de-identified")

	if _, ok := counts["the"]; ok {
		t.Error("stopwords must be dropped")
	}
	if _, ok := counts["42"]; ok {
		t.Error("short bare numbers must be dropped")
	}
	if counts["2025"] != 1 {
		t.Error("four-digit years are valid terms")
	}
	if counts["sat"] != 2 {
		t.Errorf("case folding failed: sat = %d", counts["sat"])
	}
	if counts["a1b2"] != 1 {
		t.Error("alphanumeric tokens are valid terms")
	}
}
