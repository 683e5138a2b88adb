package ocr

import "context"

// Engine is the contract for an external text-recognition engine: encoded
// image bytes in, plain text out. Implementations give no latency or
// determinism guarantees.
type Engine interface {
	Recognize(ctx context.Context, imageData []byte) (string, error)
}
