package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
)

// Ensure Engine implements OCREngine
var _ driven.OCREngine = (*Engine)(nil)

// Engine runs Tesseract recognition over page images. A fresh client is
// created per call; gosseract clients are not safe for concurrent use and
// the pipeline recognizes pages in parallel.
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewEngine creates a Tesseract engine. Languages are Tesseract codes
// (eng, spa); empty means the Tesseract default.
func NewEngine(languages ...string) *Engine {
	return &Engine{languages: languages, clientFactory: gosseract.NewClient}
}

// Recognize extracts text from a page image. Confidence is the mean of the
// per-word confidences reported by Tesseract, scaled to [0,1].
func (e *Engine) Recognize(ctx context.Context, img *driven.PageImage) (*driven.Recognition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := e.clientFactory()
	defer client.Close()

	if err := client.SetImageFromBytes(img.Data); err != nil {
		return nil, &domain.RecognitionError{PageIndex: img.PageIndex, Err: fmt.Errorf("set image: %w", err)}
	}
	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return nil, &domain.RecognitionError{PageIndex: img.PageIndex, Err: fmt.Errorf("set languages: %w", err)}
		}
	}
	if img.DPI > 0 {
		if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(img.DPI)); err != nil {
			return nil, &domain.RecognitionError{PageIndex: img.PageIndex, Err: fmt.Errorf("set dpi: %w", err)}
		}
	}

	text, err := client.Text()
	if err != nil {
		return nil, &domain.RecognitionError{PageIndex: img.PageIndex, Err: fmt.Errorf("recognize: %w", err)}
	}

	return &driven.Recognition{
		Text:       strings.TrimSpace(text),
		Confidence: wordConfidence(client),
	}, nil
}

// wordConfidence averages Tesseract's per-word confidences. Zero when the
// page produced no words.
func wordConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, box := range boxes {
		sum += box.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}
