package models

import (
	"image"
	"time"
)

// Documented ranges for ProcessingOptions.
const (
	MinContrast   = 0.8
	MaxContrast   = 1.8
	MinBrightness = -15
	MaxBrightness = 15
	MinSharpness  = 0
	MaxSharpness  = 10
)

// ProcessingOptions controls the image pre-processing applied before OCR.
type ProcessingOptions struct {
	Contrast   float64 `yaml:"contrast"`
	Brightness int     `yaml:"brightness"`
	Sharpness  int     `yaml:"sharpness"`
	Denoise    bool    `yaml:"denoise"`
	AutoRotate bool    `yaml:"auto_rotate"`
}

func DefaultProcessingOptions() ProcessingOptions {
	return ProcessingOptions{
		Contrast:   1.2,
		Brightness: 5,
		Sharpness:  0,
		Denoise:    false,
		AutoRotate: true,
	}
}

// Clamped returns a copy with every field forced into its documented range.
func (o ProcessingOptions) Clamped() ProcessingOptions {
	if o.Contrast < MinContrast {
		o.Contrast = MinContrast
	}
	if o.Contrast > MaxContrast {
		o.Contrast = MaxContrast
	}
	if o.Brightness < MinBrightness {
		o.Brightness = MinBrightness
	}
	if o.Brightness > MaxBrightness {
		o.Brightness = MaxBrightness
	}
	if o.Sharpness < MinSharpness {
		o.Sharpness = MinSharpness
	}
	if o.Sharpness > MaxSharpness {
		o.Sharpness = MaxSharpness
	}
	return o
}

// ProcessingStatus tracks a batch item as the orchestrator advances it.
// Success and error are terminal.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusSuccess    ProcessingStatus = "success"
	StatusError      ProcessingStatus = "error"
)

// BatchItem is one unit of work within a batch run: a captured/uploaded image
// or a single rasterized PDF page. Items live only for the duration of a run;
// only the derived HistoryRecord persists.
type BatchItem struct {
	ID         string
	Image      image.Image
	Preview    string // data URL of the source image, shown in results
	IsPdfPage  bool
	PageNumber int // 1-based, only meaningful when IsPdfPage
}

// BatchResult is the immutable per-item outcome of a run. Failure keeps the
// slot in the sequence with the recognition failure sentinel as text.
type BatchResult struct {
	ID            string `json:"id"`
	Image         string `json:"image"`
	OriginalImage string `json:"originalImage"`
	Text          string `json:"text"`
	IsPdfPage     bool   `json:"isPdfPage"`
	PageNumber    int    `json:"pageNumber,omitempty"`
}

// HistoryRecord is a persisted OCR result.
type HistoryRecord struct {
	ID          int64  `json:"id"`
	ImageURL    string `json:"image_url"`
	TextContent string `json:"text_content"`
	CreatedAt   string `json:"created_at"` // ISO-8601 / RFC 3339
}

// CreatedTime parses CreatedAt, returning the zero time on malformed input so
// sorting stays total.
func (r HistoryRecord) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
