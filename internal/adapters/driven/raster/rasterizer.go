package raster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
)

// Ensure Rasterizer implements PageRasterizer
var _ driven.PageRasterizer = (*Rasterizer)(nil)

// Rasterizer produces one image per requested page by extracting the page's
// embedded image objects. Scanned PDFs carry the page scan as a single
// full-page image, which is exactly the OCR input we need; when a page has
// several images the largest one is used.
type Rasterizer struct {
	conf *model.Configuration
}

// NewRasterizer creates a page rasterizer with relaxed validation, so
// slightly off-spec scans from office copiers still process.
func NewRasterizer() *Rasterizer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Rasterizer{conf: conf}
}

// Rasterize extracts the image content of a single zero-based page. The DPI
// is not applied here; it is forwarded on the PageImage as a recognition
// hint.
func (r *Rasterizer) Rasterize(ctx context.Context, data []byte, pageIndex, dpi int) (*driven.PageImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "archivo-raster-*")
	if err != nil {
		return nil, &domain.RasterizationError{PageIndex: pageIndex, Err: err}
	}
	defer os.RemoveAll(workDir)

	srcPath := filepath.Join(workDir, "page-src.pdf")
	if err := os.WriteFile(srcPath, data, 0o600); err != nil {
		return nil, &domain.RasterizationError{PageIndex: pageIndex, Err: err}
	}

	pageCount, err := api.PageCountFile(srcPath)
	if err != nil {
		return nil, &domain.RasterizationError{PageIndex: pageIndex, Err: fmt.Errorf("page count: %w", err)}
	}
	if pageIndex < 0 || pageIndex >= pageCount {
		return nil, &domain.UnsupportedPageError{PageIndex: pageIndex, PageCount: pageCount}
	}

	outDir := filepath.Join(workDir, "out")
	if err := os.Mkdir(outDir, 0o700); err != nil {
		return nil, &domain.RasterizationError{PageIndex: pageIndex, Err: err}
	}

	pageSel := []string{strconv.Itoa(pageIndex + 1)}
	if err := api.ExtractImagesFile(srcPath, outDir, pageSel, r.conf); err != nil {
		return nil, &domain.RasterizationError{PageIndex: pageIndex, Err: fmt.Errorf("extract images: %w", err)}
	}

	imgPath, err := largestImage(outDir)
	if err != nil {
		return nil, &domain.RasterizationError{PageIndex: pageIndex, Err: err}
	}

	imgData, err := os.ReadFile(imgPath)
	if err != nil {
		return nil, &domain.RasterizationError{PageIndex: pageIndex, Err: err}
	}

	return &driven.PageImage{
		PageIndex: pageIndex,
		Data:      imgData,
		Format:    formatFor(imgPath),
		DPI:       dpi,
	}, nil
}

// largestImage picks the biggest extracted file; incidental logos and
// stamps on a scanned page are always smaller than the page scan itself.
func largestImage(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var best string
	var bestSize int64 = -1
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			best = filepath.Join(dir, entry.Name())
			bestSize = info.Size()
		}
	}
	if best == "" {
		return "", errors.New("page contains no image content")
	}
	return best, nil
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
