package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguages is the dual language hint used when none is configured.
var DefaultLanguages = []string{"eng", "chi_sim"}

// Tesseract recognizes text through the gosseract Tesseract binding. A fresh
// client is created per call; gosseract clients are not safe for reuse across
// goroutines.
type Tesseract struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

func NewTesseract(languages ...string) *Tesseract {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &Tesseract{
		languages:     languages,
		clientFactory: gosseract.NewClient,
	}
}

func (t *Tesseract) Languages() []string {
	return append([]string(nil), t.languages...)
}

func (t *Tesseract) Recognize(ctx context.Context, imageData []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	client := t.clientFactory()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}

	return strings.TrimSpace(text), nil
}
