package imgproc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"
)

// ErrDecode reports malformed image input.
var ErrDecode = errors.New("malformed image input")

// DecodeBytes decodes raw image bytes (PNG, JPEG or GIF).
func DecodeBytes(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// DecodeDataURL decodes a base64 data URL ("data:image/...;base64,...") into
// an image.
func DecodeDataURL(dataURL string) (image.Image, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, fmt.Errorf("%w: missing data scheme", ErrDecode)
	}
	_, payload, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, fmt.Errorf("%w: missing payload", ErrDecode)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return DecodeBytes(raw)
}

// DataURL wraps already-encoded image bytes in a base64 data URL.
func DataURL(mimeType string, raw []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

// JPEGDataURL wraps JPEG bytes in a data URL.
func JPEGDataURL(raw []byte) string {
	return DataURL("image/jpeg", raw)
}

// EncodeJPEGDataURL encodes an image as a JPEG data URL at the given quality.
func EncodeJPEGDataURL(img image.Image, quality int) (string, error) {
	raw, err := EncodeJPEG(img, quality)
	if err != nil {
		return "", err
	}
	return JPEGDataURL(raw), nil
}

// EncodePNGDataURL encodes an image as a PNG data URL. Rasterized PDF pages
// use PNG previews so page content stays crisp.
func EncodePNGDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return DataURL("image/png", buf.Bytes()), nil
}
