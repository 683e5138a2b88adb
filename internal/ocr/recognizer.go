package ocr

import (
	"context"
	"time"

	"github.com/snaptext/snaptext/pkg/logger"
)

// FailureText is returned in place of recognized text when the engine fails.
// Callers always receive a usable string from the fail-soft paths, never an
// error.
const FailureText = "Text recognition failed. Please try again later."

// DefaultTimeout guards interactive single-image recognition.
const DefaultTimeout = 10 * time.Second

// Recognizer wraps an Engine with the fail-soft contract.
type Recognizer struct {
	engine Engine
	logger *logger.Logger
}

func NewRecognizer(engine Engine, log *logger.Logger) *Recognizer {
	return &Recognizer{
		engine: engine,
		logger: log,
	}
}

// RecognizeText runs the engine and swallows any failure into FailureText.
func (r *Recognizer) RecognizeText(ctx context.Context, imageData []byte) string {
	text, err := r.engine.Recognize(ctx, imageData)
	if err != nil {
		r.logger.Warn("OCR failed: %v", err)
		return FailureText
	}
	return text
}

// RecognizeWithTimeout guards an interactive recognition with a deadline. The
// underlying engine call is not aborted when the deadline fires; its late
// result is discarded.
func (r *Recognizer) RecognizeWithTimeout(ctx context.Context, imageData []byte, timeout time.Duration) (string, bool) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	done := make(chan string, 1)
	go func() {
		done <- r.RecognizeText(ctx, imageData)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	// Cancellation is the engine's job: a canceled ctx makes the engine fail
	// fast and the fail-soft sentinel comes back through done.
	select {
	case text := <-done:
		return text, false
	case <-timer.C:
		r.logger.Warn("OCR timed out after %v, discarding late result", timeout)
		return "", true
	}
}
