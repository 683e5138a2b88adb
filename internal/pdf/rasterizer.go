package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/snaptext/snaptext/pkg/logger"
)

// ErrParse reports a malformed or unsupported PDF document.
var ErrParse = errors.New("malformed or unsupported PDF")

const (
	// RenderScale is applied to the page's intrinsic 72-DPI viewport. Fixed
	// quality/performance tradeoff, not user-configurable.
	RenderScale = 2.0

	baseDPI = 72
)

type Rasterizer struct {
	scale  float64
	logger *logger.Logger
}

func NewRasterizer(log *logger.Logger) *Rasterizer {
	return &Rasterizer{
		scale:  RenderScale,
		logger: log,
	}
}

// ExtractPages renders every page of a PDF document into a raster image, in
// page order. Extraction is atomic: any page failing to render fails the
// whole call.
func (r *Rasterizer) ExtractPages(ctx context.Context, data []byte) ([]image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer doc.Close()

	total := doc.NumPage()
	r.logger.Debug("Rasterizing %d PDF pages at %.1fx", total, r.scale)

	pages := make([]image.Image, 0, total)

	// Page numbers are zero indexed in the fitz package.
	for pageNum := 0; pageNum < total; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(pageNum, baseDPI*r.scale)
		if err != nil {
			return nil, fmt.Errorf("%w: render page %d: %v", ErrParse, pageNum+1, err)
		}

		r.logger.Trace("Page %d rendered at %dx%d", pageNum+1, img.Bounds().Dx(), img.Bounds().Dy())
		pages = append(pages, img)
	}

	return pages, nil
}

// PageCount reports the number of pages without rendering anything.
func PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return count, nil
}

// Validate checks that the bytes form a readable PDF.
func Validate(data []byte) error {
	_, err := PageCount(data)
	return err
}
