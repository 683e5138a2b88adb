package imgproc

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

// Resize scales an image down so its width does not exceed maxWidth,
// preserving aspect ratio. Images at or below maxWidth are returned as-is;
// this never upscales.
func Resize(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}

// EncodeJPEG re-encodes an image as JPEG at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ResizeAndCompress downsamples to maxWidth and re-encodes as JPEG, the
// preparation step used before handing an image to the OCR engine.
func ResizeAndCompress(img image.Image, maxWidth, quality int) ([]byte, error) {
	return EncodeJPEG(Resize(img, maxWidth), quality)
}
