package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driving"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

// ingestionService is the extraction strategy selector. For each document:
//  1. Pull embedded text for every page (direct extraction)
//  2. Pages below the sufficiency threshold fall back to OCR: rasterize,
//     recognize with a per-call timeout
//  3. Join all pages, assemble the text body in page order
//  4. Aggregate per-page methods into the document-level method
//  5. Suggest tags against the shared vocabulary
//  6. Persist the document record
//
// Page-level failures degrade that page to empty text. Only an unparsable
// container aborts ingestion, and then no record is created.
type ingestionService struct {
	direct     driven.DirectExtractor
	rasterizer driven.PageRasterizer
	ocr        driven.OCREngine
	docStore   driven.DocumentStore
	fileStore  driven.FileStore
	vocabulary driven.VocabularyStore
	tagger     *Tagger
	policy     domain.ExtractionPolicy
	logger     *slog.Logger
}

// IngestionConfig holds dependencies for the ingestion pipeline.
type IngestionConfig struct {
	Direct        driven.DirectExtractor
	Rasterizer    driven.PageRasterizer
	OCR           driven.OCREngine
	DocumentStore driven.DocumentStore
	FileStore     driven.FileStore
	Vocabulary    driven.VocabularyStore
	Tagger        *Tagger
	Policy        domain.ExtractionPolicy
	Logger        *slog.Logger
}

// NewIngestionService creates the document ingestion pipeline.
func NewIngestionService(cfg IngestionConfig) driving.IngestionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tagger := cfg.Tagger
	if tagger == nil {
		tagger = NewTagger(cfg.Vocabulary, cfg.Policy)
	}
	return &ingestionService{
		direct:     cfg.Direct,
		rasterizer: cfg.Rasterizer,
		ocr:        cfg.OCR,
		docStore:   cfg.DocumentStore,
		fileStore:  cfg.FileStore,
		vocabulary: cfg.Vocabulary,
		tagger:     tagger,
		policy:     cfg.Policy.Normalized(),
		logger:     logger,
	}
}

// Ingest runs the pipeline for a freshly uploaded document.
func (s *ingestionService) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.Document, error) {
	if req.DocumentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}

	data := req.Data
	if len(data) == 0 {
		var err error
		data, err = s.fileStore.Read(ctx, req.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("read stored file %s: %w", req.StoragePath, err)
		}
	}

	pages, err := s.extract(ctx, req.Filename, data)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &domain.Document{
		ID:          req.DocumentID,
		Filename:    req.Filename,
		StoragePath: req.StoragePath,
		Text:        domain.AssembleText(pages),
		Method:      domain.AggregateMethod(pages),
		UploadedAt:  now,
		UpdatedAt:   now,
	}

	var confirmed []string
	for _, name := range req.ManualTags {
		if doc.ConfirmTag(name) {
			confirmed = append(confirmed, domain.NormalizeTagName(name))
		}
	}

	s.suggest(ctx, doc)

	if err := s.docStore.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	recordVocabulary(ctx, s.vocabulary, s.logger, confirmed)

	s.logger.Info("document ingested",
		"document_id", doc.ID,
		"filename", doc.Filename,
		"pages", len(pages),
		"method", doc.Method,
		"suggested_tags", len(doc.SuggestedTags()),
	)
	return doc, nil
}

// Reprocess re-runs extraction and suggestion for an existing document
// from its stored file. Manual tags survive; suggestions are replaced.
func (s *ingestionService) Reprocess(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.docStore.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	data, err := s.fileStore.Read(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("read stored file %s: %w", doc.StoragePath, err)
	}

	pages, err := s.extract(ctx, doc.Filename, data)
	if err != nil {
		return nil, err
	}

	doc.Text = domain.AssembleText(pages)
	doc.Method = domain.AggregateMethod(pages)
	doc.UpdatedAt = time.Now()
	s.suggest(ctx, doc)

	if err := s.docStore.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return doc, nil
}

// extract runs the per-page state machine and returns the completed pages
// in document order.
func (s *ingestionService) extract(ctx context.Context, filename string, data []byte) ([]domain.Page, error) {
	pageTexts, err := s.direct.ExtractPages(ctx, data)
	if err != nil {
		var malformed *domain.MalformedDocumentError
		if errors.As(err, &malformed) {
			return nil, err
		}
		return nil, &domain.MalformedDocumentError{Filename: filename, Err: err}
	}

	pages := make([]domain.Page, len(pageTexts))
	needOCR := 0
	for i, pt := range pageTexts {
		pages[i] = domain.Page{Index: pt.Index, State: domain.PageStateDirectTried}
		if s.policy.PageSufficient(pt.Text) {
			pages[i].Text = pt.Text
			pages[i].WordCount = pt.WordCount
			pages[i].Method = domain.PageMethodDirect
			pages[i].Confidence = 1
			pages[i].State = domain.PageStateDone
		} else {
			pages[i].State = domain.PageStateNeedsOCR
			needOCR++
		}
	}

	if needOCR == 0 {
		return pages, nil
	}

	// Pages are independent; fan out up to the policy's concurrency limit
	// and rejoin before assembly. Workers never return errors: a failed
	// page degrades to empty text and the document continues.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.policy.PageConcurrency)
	for i := range pages {
		if pages[i].State != domain.PageStateNeedsOCR {
			continue
		}
		page := &pages[i]
		g.Go(func() error {
			s.ocrPage(gctx, data, page)
			return nil
		})
	}
	_ = g.Wait()

	return pages, nil
}

// ocrPage rasterizes and recognizes a single page, recording the outcome
// on the page itself.
func (s *ingestionService) ocrPage(ctx context.Context, data []byte, page *domain.Page) {
	defer func() { page.State = domain.PageStateDone }()

	img, err := s.rasterizer.Rasterize(ctx, data, page.Index, s.policy.OCRDPI)
	if err != nil {
		s.logger.Warn("page rasterization failed", "page", page.Index, "error", err)
		page.Method = domain.PageMethodOCRFailed
		return
	}

	page.State = domain.PageStateOCRTried
	rec, err := s.recognizeWithTimeout(ctx, img)
	if err != nil {
		s.logger.Warn("page recognition failed", "page", page.Index, "error", err)
		page.Method = domain.PageMethodOCRFailed
		return
	}

	page.Text = rec.Text
	page.WordCount = domain.CountWords(rec.Text)
	page.Method = domain.PageMethodOCR
	page.Confidence = rec.Confidence
}

// recognizeWithTimeout bounds one OCR call. Engines can hang on malformed
// images; expiry converts to a RecognitionError for that page only.
func (s *ingestionService) recognizeWithTimeout(ctx context.Context, img *driven.PageImage) (*driven.Recognition, error) {
	ctx, cancel := context.WithTimeout(ctx, s.policy.OCRTimeout)
	defer cancel()

	type outcome struct {
		rec *driven.Recognition
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		rec, err := s.ocr.Recognize(ctx, img)
		ch <- outcome{rec: rec, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			var recErr *domain.RecognitionError
			if errors.As(out.err, &recErr) {
				return nil, out.err
			}
			return nil, &domain.RecognitionError{PageIndex: img.PageIndex, Err: out.err}
		}
		return out.rec, nil
	case <-ctx.Done():
		return nil, &domain.RecognitionError{PageIndex: img.PageIndex, Err: ctx.Err()}
	}
}

// suggest refreshes the document's suggested tags from its current text.
func (s *ingestionService) suggest(ctx context.Context, doc *domain.Document) {
	suggestions, err := s.tagger.Suggest(ctx, doc.Text, doc.ManualTagNames())
	if err != nil {
		s.logger.Warn("tag suggestion failed", "document_id", doc.ID, "error", err)
		return
	}
	doc.ReplaceSuggestions(suggestions)
}
