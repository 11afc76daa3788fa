package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven/mocks"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driving"
)

type pipelineFixture struct {
	direct    *mocks.MockDirectExtractor
	raster    *mocks.MockRasterizer
	ocr       *mocks.MockOCREngine
	docStore  *mocks.MockDocumentStore
	fileStore *mocks.MockFileStore
	vocab     *mocks.MockVocabularyStore
	svc       driving.IngestionService
}

func newPipelineFixture(policy domain.ExtractionPolicy) *pipelineFixture {
	f := &pipelineFixture{
		direct:    &mocks.MockDirectExtractor{},
		raster:    &mocks.MockRasterizer{},
		ocr:       &mocks.MockOCREngine{Texts: map[int]string{}},
		docStore:  mocks.NewMockDocumentStore(),
		fileStore: mocks.NewMockFileStore(),
		vocab:     mocks.NewMockVocabularyStore(),
	}
	f.svc = NewIngestionService(IngestionConfig{
		Direct:        f.direct,
		Rasterizer:    f.raster,
		OCR:           f.ocr,
		DocumentStore: f.docStore,
		FileStore:     f.fileStore,
		Vocabulary:    f.vocab,
		Policy:        policy,
	})
	return f
}

func ingest(t *testing.T, f *pipelineFixture, req driving.IngestRequest) *domain.Document {
	t.Helper()
	doc, err := f.svc.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected ingest error: %v", err)
	}
	return doc
}

func TestIngest_AllPagesDirect(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Pages = []string{
		"embedded text on the first page",
		"embedded text on the second page",
	}

	doc := ingest(t, f, driving.IngestRequest{
		DocumentID: "doc-1",
		Filename:   "report.pdf",
		Data:       []byte("%PDF-"),
	})

	if doc.Method != domain.MethodDirect {
		t.Errorf("expected method direct, got %s", doc.Method)
	}
	if f.ocr.CallCount() != 0 {
		t.Errorf("OCR must never be invoked for fully extractable PDFs, got %d calls", f.ocr.CallCount())
	}
	if len(f.raster.Calls) != 0 {
		t.Errorf("rasterizer must not run for direct documents, got %v", f.raster.Calls)
	}
	if !strings.Contains(doc.Text, "first page") || !strings.Contains(doc.Text, "second page") {
		t.Errorf("assembled text missing page content: %q", doc.Text)
	}
}

func TestIngest_AllPagesScanned(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Pages = []string{"", ""}
	f.ocr.Texts = map[int]string{0: "scanned page one", 1: "scanned page two"}

	doc := ingest(t, f, driving.IngestRequest{
		DocumentID: "doc-1",
		Filename:   "scan.pdf",
		Data:       []byte("%PDF-"),
	})

	if doc.Method != domain.MethodOCR {
		t.Errorf("expected method ocr, got %s", doc.Method)
	}
	if want := "scanned page one\n\nscanned page two"; doc.Text != want {
		t.Errorf("text = %q, want %q", doc.Text, want)
	}
}

func TestIngest_HybridPreservesPageOrder(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Pages = []string{
		"a full fifty words of embedded invoice header text for page one",
		"",
		"",
	}
	f.ocr.Texts = map[int]string{1: "invoice total 450", 2: "thank you"}

	doc := ingest(t, f, driving.IngestRequest{
		DocumentID: "doc-1",
		Filename:   "invoice.pdf",
		Data:       []byte("%PDF-"),
	})

	if doc.Method != domain.MethodHybrid {
		t.Errorf("expected method hybrid, got %s", doc.Method)
	}
	want := f.direct.Pages[0] + "\n\ninvoice total 450\n\nthank you"
	if doc.Text != want {
		t.Errorf("text = %q, want %q", doc.Text, want)
	}

	// "invoice" appears twice, "thank" once: relevance order must reflect it.
	var invoiceScore, thankScore float64
	for _, tag := range doc.SuggestedTags() {
		switch tag.Name {
		case "invoice":
			invoiceScore = tag.Score
		case "thank":
			thankScore = tag.Score
		}
	}
	if invoiceScore == 0 {
		t.Fatal("expected an invoice suggestion")
	}
	if invoiceScore <= thankScore {
		t.Errorf("invoice (%f) should outrank thank (%f)", invoiceScore, thankScore)
	}
}

func TestIngest_OCRFailureDegradesPageOnly(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Pages = []string{"embedded text on page one", "", ""}
	f.ocr.Texts = map[int]string{2: "recovered text"}
	f.ocr.FailPages = map[int]error{1: errors.New("engine crashed")}

	doc := ingest(t, f, driving.IngestRequest{
		DocumentID: "doc-1",
		Filename:   "partial.pdf",
		Data:       []byte("%PDF-"),
	})

	if doc.Method != domain.MethodHybrid {
		t.Errorf("expected method hybrid, got %s", doc.Method)
	}
	want := "embedded text on page one\n\nrecovered text"
	if doc.Text != want {
		t.Errorf("text = %q, want %q", doc.Text, want)
	}
	if len(doc.SuggestedTags()) == 0 {
		t.Error("suggestion must still run for the surviving pages")
	}
}

func TestIngest_RasterizationFailureDegradesPageOnly(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Pages = []string{"", "embedded text on page two"}
	f.raster.FailPages = map[int]error{0: errors.New("corrupt stream")}

	doc := ingest(t, f, driving.IngestRequest{
		DocumentID: "doc-1",
		Filename:   "corrupt-page.pdf",
		Data:       []byte("%PDF-"),
	})

	if doc.Method != domain.MethodHybrid {
		t.Errorf("expected method hybrid, got %s", doc.Method)
	}
	if doc.Text != "embedded text on page two" {
		t.Errorf("text = %q", doc.Text)
	}
	if f.ocr.CallCount() != 0 {
		t.Error("recognition must not run when rasterization fails")
	}
}

func TestIngest_EveryPageUnreadableCompletesEmpty(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Pages = []string{"", ""}
	f.ocr.FailPages = map[int]error{0: errors.New("boom"), 1: errors.New("boom")}

	doc := ingest(t, f, driving.IngestRequest{
		DocumentID: "doc-1",
		Filename:   "unreadable.pdf",
		Data:       []byte("%PDF-"),
	})

	if doc.Method != domain.MethodOCR {
		t.Errorf("expected method ocr for all-failed document, got %s", doc.Method)
	}
	if doc.Text != "" {
		t.Errorf("expected empty text, got %q", doc.Text)
	}
	if len(doc.SuggestedTags()) != 0 {
		t.Errorf("empty text must yield no suggestions, got %d", len(doc.SuggestedTags()))
	}
	// Degraded, not failed: the record must still be persisted.
	if _, err := f.docStore.Get(context.Background(), "doc-1"); err != nil {
		t.Errorf("expected persisted document, got %v", err)
	}
}

func TestIngest_MalformedDocumentCreatesNoRecord(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Err = &domain.MalformedDocumentError{Filename: "junk.pdf", Err: errors.New("not a pdf")}

	_, err := f.svc.Ingest(context.Background(), driving.IngestRequest{
		DocumentID: "doc-1",
		Filename:   "junk.pdf",
		Data:       []byte("garbage"),
	})

	var malformed *domain.MalformedDocumentError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedDocumentError, got %v", err)
	}
	if n, _ := f.docStore.Count(context.Background()); n != 0 {
		t.Errorf("no record may be created for malformed documents, found %d", n)
	}
}

func TestIngest_WrapsUntypedParserError(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Err = errors.New("unexpected EOF")

	_, err := f.svc.Ingest(context.Background(), driving.IngestRequest{
		DocumentID: "doc-1",
		Filename:   "truncated.pdf",
		Data:       []byte("garbage"),
	})

	var malformed *domain.MalformedDocumentError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedDocumentError wrapper, got %v", err)
	}
	if malformed.Filename != "truncated.pdf" {
		t.Errorf("expected filename on error, got %q", malformed.Filename)
	}
}

func TestIngest_OCRTimeoutDegradesPage(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{OCRTimeout: 20 * time.Millisecond})
	f.direct.Pages = []string{"embedded text stays intact", ""}
	f.ocr.Hang = true

	start := time.Now()
	doc := ingest(t, f, driving.IngestRequest{
		DocumentID: "doc-1",
		Filename:   "hang.pdf",
		Data:       []byte("%PDF-"),
	})

	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("pipeline blocked on a hung engine for %s", elapsed)
	}
	if doc.Method != domain.MethodHybrid {
		t.Errorf("expected method hybrid, got %s", doc.Method)
	}
	if doc.Text != "embedded text stays intact" {
		t.Errorf("text = %q", doc.Text)
	}
}

func TestIngest_ManualTagsConfirmedAndRecorded(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Pages = []string{"contract clause obligations and signatures"}

	doc := ingest(t, f, driving.IngestRequest{
		DocumentID: "doc-1",
		Filename:   "contract.pdf",
		Data:       []byte("%PDF-"),
		ManualTags: []string{"Legal", "2025"},
	})

	if !doc.HasTag("legal") || !doc.HasTag("2025") {
		t.Errorf("expected manual tags to be confirmed, got %+v", doc.Tags)
	}
	for _, tag := range doc.SuggestedTags() {
		if tag.Name == "legal" || tag.Name == "2025" {
			t.Errorf("suggestions must not duplicate manual tags: %+v", tag)
		}
	}
	if freq, _ := f.vocab.Lookup(context.Background(), "legal"); freq != 1 {
		t.Errorf("expected confirmed tag recorded in vocabulary, freq = %d", freq)
	}
}

func TestIngest_ReadsFromFileStoreWhenNoData(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Pages = []string{"stored bytes made it through"}
	path, _ := f.fileStore.Save(context.Background(), "stored.pdf", []byte("%PDF-stored"))

	doc := ingest(t, f, driving.IngestRequest{
		DocumentID:  "doc-1",
		Filename:    "stored.pdf",
		StoragePath: path,
	})

	if doc.Text != "stored bytes made it through" {
		t.Errorf("text = %q", doc.Text)
	}
	if doc.StoragePath != path {
		t.Errorf("storage path = %q, want %q", doc.StoragePath, path)
	}
}

func TestReprocess_KeepsManualTags(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Pages = []string{"updated revision of the quarterly budget numbers"}

	path, _ := f.fileStore.Save(context.Background(), "budget.pdf", []byte("%PDF-"))
	original := &domain.Document{
		ID:          "doc-1",
		Filename:    "budget.pdf",
		StoragePath: path,
		Text:        "old text",
		Method:      domain.MethodOCR,
		UploadedAt:  time.Now().Add(-time.Hour),
	}
	original.ConfirmTag("finanzas")
	if err := f.docStore.Save(context.Background(), original); err != nil {
		t.Fatal(err)
	}

	doc, err := f.svc.Reprocess(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Method != domain.MethodDirect {
		t.Errorf("expected method direct after reprocess, got %s", doc.Method)
	}
	if !doc.HasTag("finanzas") {
		t.Error("manual tags must survive reprocessing")
	}
	if !strings.Contains(doc.Text, "quarterly budget") {
		t.Errorf("expected refreshed text, got %q", doc.Text)
	}
}

func TestIngest_ConcurrentDocuments(t *testing.T) {
	f := newPipelineFixture(domain.ExtractionPolicy{})
	f.direct.Pages = []string{"shared extractor text body for concurrency"}

	done := make(chan error, 2)
	for _, id := range []string{"doc-a", "doc-b"} {
		go func(id string) {
			_, err := f.svc.Ingest(context.Background(), driving.IngestRequest{
				DocumentID: id,
				Filename:   id + ".pdf",
				Data:       []byte("%PDF-"),
			})
			done <- err
		}(id)
	}
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent ingest failed: %v", err)
		}
	}
	if n, _ := f.docStore.Count(context.Background()); n != 2 {
		t.Errorf("expected 2 documents, got %d", n)
	}
}
