package pdf

import (
	"context"
	"image"
)

type PageExtractor interface {
	ExtractPages(ctx context.Context, data []byte) ([]image.Image, error)
}
