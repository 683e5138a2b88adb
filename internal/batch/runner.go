package batch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/snaptext/snaptext/internal/history"
	"github.com/snaptext/snaptext/internal/imgproc"
	"github.com/snaptext/snaptext/internal/ocr"
	"github.com/snaptext/snaptext/pkg/logger"
	"github.com/snaptext/snaptext/pkg/models"
)

// ErrTimeout reports that an interactive recognition outlived its guard. The
// engine call itself is not aborted; its late result is discarded.
var ErrTimeout = errors.New("text recognition timed out")

// Runner drives batch items through prepare, recognize and history-save,
// strictly one at a time in input order. One item's failure never halts the
// run.
type Runner struct {
	engine     ocr.Engine
	recognizer *ocr.Recognizer
	store      *history.Store
	logger     *logger.Logger

	maxWidth   int
	quality    int
	ocrTimeout time.Duration
	onResult   func(models.BatchResult)

	mu     sync.Mutex
	status map[string]models.ProcessingStatus
}

type Option func(*Runner)

// WithResize overrides the pre-OCR downsampling parameters.
func WithResize(maxWidth, quality int) Option {
	return func(r *Runner) {
		if maxWidth > 0 {
			r.maxWidth = maxWidth
		}
		if quality > 0 {
			r.quality = quality
		}
	}
}

// WithOnResult registers a callback fired after each item completes, in input
// order. Used for incremental progress reporting.
func WithOnResult(fn func(models.BatchResult)) Option {
	return func(r *Runner) {
		r.onResult = fn
	}
}

// WithOCRTimeout overrides the interactive recognition guard.
func WithOCRTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.ocrTimeout = d
		}
	}
}

func New(engine ocr.Engine, store *history.Store, log *logger.Logger, options ...Option) *Runner {
	r := &Runner{
		engine:     engine,
		recognizer: ocr.NewRecognizer(engine, log),
		store:      store,
		logger:     log,
		maxWidth:   1000,
		quality:    80,
		ocrTimeout: ocr.DefaultTimeout,
		status:     make(map[string]models.ProcessingStatus),
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

// Run processes items sequentially and returns one result per item, in input
// order. Status transitions pending -> processing -> success|error are
// observable through StatusSnapshot while the run is in flight.
func (r *Runner) Run(ctx context.Context, items []models.BatchItem, opts models.ProcessingOptions) ([]models.BatchResult, error) {
	opts = opts.Clamped()

	r.mu.Lock()
	r.status = make(map[string]models.ProcessingStatus, len(items))
	for _, item := range items {
		r.status[item.ID] = models.StatusPending
	}
	r.mu.Unlock()

	// Per-run dedup: an item id is saved to history at most once even if the
	// pipeline is re-entered for it.
	saved := make(map[string]struct{})

	results := make([]models.BatchResult, 0, len(items))

	for _, item := range items {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		r.setStatus(item.ID, models.StatusProcessing)

		result := r.processItem(ctx, item, opts, saved)
		results = append(results, result)

		if r.onResult != nil {
			r.onResult(result)
		}
	}

	return results, nil
}

func (r *Runner) processItem(ctx context.Context, item models.BatchItem, opts models.ProcessingOptions, saved map[string]struct{}) models.BatchResult {
	result := models.BatchResult{
		ID:         item.ID,
		IsPdfPage:  item.IsPdfPage,
		PageNumber: item.PageNumber,
	}

	text, compressedURL, err := r.recognizeItem(ctx, item, opts)

	result.Image = item.Preview
	result.OriginalImage = item.Preview
	if result.Image == "" {
		result.Image = compressedURL
		result.OriginalImage = compressedURL
	}

	if err != nil {
		r.logger.Warn("Item %s failed: %v", item.ID, err)
		result.Text = ocr.FailureText
		r.setStatus(item.ID, models.StatusError)
		return result
	}

	result.Text = text

	if _, done := saved[item.ID]; !done {
		if _, saveErr := r.store.Save(compressedURL, text); saveErr != nil {
			r.logger.Warn("Saving item %s to history failed: %v", item.ID, saveErr)
			r.setStatus(item.ID, models.StatusError)
			return result
		}
		saved[item.ID] = struct{}{}
	}

	r.setStatus(item.ID, models.StatusSuccess)
	return result
}

func (r *Runner) recognizeItem(ctx context.Context, item models.BatchItem, opts models.ProcessingOptions) (text, compressedURL string, err error) {
	prepared := imgproc.Process(item.Image, opts)

	compressed, err := imgproc.ResizeAndCompress(prepared, r.maxWidth, r.quality)
	if err != nil {
		return "", "", err
	}
	compressedURL = imgproc.JPEGDataURL(compressed)

	text, err = r.engine.Recognize(ctx, compressed)
	if err != nil {
		return "", compressedURL, err
	}

	return text, compressedURL, nil
}

// RunSingle handles the interactive single-image path: full pre-processing,
// recognition under the timeout guard, then a history save. A timeout returns
// ErrTimeout and nothing is persisted.
func (r *Runner) RunSingle(ctx context.Context, img models.BatchItem, opts models.ProcessingOptions) (models.BatchResult, error) {
	opts = opts.Clamped()

	processed := imgproc.Process(img.Image, opts)
	data, err := imgproc.EncodeJPEG(processed, imgproc.ProcessQuality)
	if err != nil {
		return models.BatchResult{}, err
	}
	processedURL := imgproc.JPEGDataURL(data)

	text, timedOut := r.recognizer.RecognizeWithTimeout(ctx, data, r.ocrTimeout)
	if timedOut {
		return models.BatchResult{}, ErrTimeout
	}

	if _, err := r.store.Save(processedURL, text); err != nil {
		r.logger.Warn("Saving interactive result to history failed: %v", err)
	}

	return models.BatchResult{
		ID:            img.ID,
		Image:         processedURL,
		OriginalImage: img.Preview,
		Text:          text,
	}, nil
}

// StatusSnapshot returns an immutable copy of the per-item status map.
func (r *Runner) StatusSnapshot() map[string]models.ProcessingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]models.ProcessingStatus, len(r.status))
	for id, st := range r.status {
		snapshot[id] = st
	}
	return snapshot
}

func (r *Runner) setStatus(id string, st models.ProcessingStatus) {
	r.mu.Lock()
	r.status[id] = st
	r.mu.Unlock()
}
