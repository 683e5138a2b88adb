package ingest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/snaptext/snaptext/internal/imgproc"
	"github.com/snaptext/snaptext/internal/pdf"
	"github.com/snaptext/snaptext/pkg/models"
)

// Kind tags an InputSource. The image-vs-PDF decision is made exactly once,
// at ingestion; everything downstream works on a uniform item pipeline.
type Kind int

const (
	KindImage Kind = iota
	KindPdf
)

var pdfMagic = []byte("%PDF-")

// InputSource is a resolved capture/upload: either a decoded raster image or
// raw PDF bytes awaiting rasterization.
type InputSource struct {
	Kind     Kind
	Image    image.Image
	Preview  string
	PdfBytes []byte
}

// Resolve sniffs raw upload bytes into a tagged InputSource. Anything that is
// neither a PDF nor a decodable image fails with the decode error.
func Resolve(data []byte) (InputSource, error) {
	if bytes.HasPrefix(data, pdfMagic) {
		return InputSource{Kind: KindPdf, PdfBytes: data}, nil
	}

	img, err := imgproc.DecodeBytes(data)
	if err != nil {
		return InputSource{}, err
	}

	return InputSource{
		Kind:    KindImage,
		Image:   img,
		Preview: imgproc.DataURL(http.DetectContentType(data), data),
	}, nil
}

// Items expands a source into batch items: one per PDF page (in page order,
// 1-based page numbers) or a single item for a plain image.
func Items(ctx context.Context, src InputSource, extractor pdf.PageExtractor) ([]models.BatchItem, error) {
	switch src.Kind {
	case KindPdf:
		pages, err := extractor.ExtractPages(ctx, src.PdfBytes)
		if err != nil {
			return nil, err
		}

		ts := time.Now().UnixMilli()
		items := make([]models.BatchItem, 0, len(pages))
		for i, page := range pages {
			preview, err := imgproc.EncodePNGDataURL(page)
			if err != nil {
				return nil, err
			}
			items = append(items, models.BatchItem{
				ID:         fmt.Sprintf("pdf-page-%d-%d", ts, i),
				Image:      page,
				Preview:    preview,
				IsPdfPage:  true,
				PageNumber: i + 1,
			})
		}
		return items, nil

	case KindImage:
		return []models.BatchItem{{
			ID:      uuid.NewString(),
			Image:   src.Image,
			Preview: src.Preview,
		}}, nil

	default:
		return nil, fmt.Errorf("unknown input kind %d", src.Kind)
	}
}
