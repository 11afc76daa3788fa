package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
)

// MockDirectExtractor returns scripted per-page embedded text.
type MockDirectExtractor struct {
	// Pages is the embedded text returned per page, in order.
	Pages []string
	// Err, when set, is returned instead (simulates an unparsable container).
	Err error
}

func (m *MockDirectExtractor) ExtractPages(ctx context.Context, data []byte) ([]driven.PageText, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]driven.PageText, len(m.Pages))
	for i, text := range m.Pages {
		out[i] = driven.PageText{Index: i, Text: text, WordCount: len(strings.Fields(text))}
	}
	return out, nil
}

// MockRasterizer hands out placeholder page images.
type MockRasterizer struct {
	mu sync.Mutex
	// FailPages maps page indexes to rasterization failures.
	FailPages map[int]error
	// Calls records the page indexes rasterized, in call order.
	Calls []int
}

func (m *MockRasterizer) Rasterize(ctx context.Context, data []byte, pageIndex, dpi int) (*driven.PageImage, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, pageIndex)
	m.mu.Unlock()
	if err, ok := m.FailPages[pageIndex]; ok {
		return nil, &domain.RasterizationError{PageIndex: pageIndex, Err: err}
	}
	return &driven.PageImage{
		PageIndex: pageIndex,
		Data:      []byte("raster"),
		Format:    "image/png",
		DPI:       dpi,
	}, nil
}

// MockOCREngine returns scripted recognition output per page index.
type MockOCREngine struct {
	mu sync.Mutex
	// Texts maps page index to recognized text.
	Texts map[int]string
	// Confidences maps page index to a confidence score; defaults to 0.9.
	Confidences map[int]float64
	// FailPages maps page indexes to recognition failures.
	FailPages map[int]error
	// Hang, when set, blocks until the context is cancelled to simulate a
	// wedged engine.
	Hang bool
	// Calls records the page indexes recognized, in call order.
	Calls []int
}

func (m *MockOCREngine) Recognize(ctx context.Context, img *driven.PageImage) (*driven.Recognition, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, img.PageIndex)
	m.mu.Unlock()

	if m.Hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err, ok := m.FailPages[img.PageIndex]; ok {
		return nil, &domain.RecognitionError{PageIndex: img.PageIndex, Err: err}
	}
	conf := 0.9
	if c, ok := m.Confidences[img.PageIndex]; ok {
		conf = c
	}
	return &driven.Recognition{Text: m.Texts[img.PageIndex], Confidence: conf}, nil
}

// CallCount returns how many recognitions ran.
func (m *MockOCREngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
