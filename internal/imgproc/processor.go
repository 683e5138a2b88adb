package imgproc

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/snaptext/snaptext/pkg/models"
)

const (
	// MaxWorkingWidth bounds the cost of the pixel passes. Sources wider than
	// this are downscaled before any per-pixel work.
	MaxWorkingWidth = 1800

	// ProcessQuality is the fixed JPEG quality for processed output.
	ProcessQuality = 92
)

// Process applies the pre-OCR enhancement pipeline to an image. The stage
// order is fixed: brightness/contrast, then sharpen, then denoise, each stage
// reading the previous stage's output. The result is always a fresh buffer;
// the source image is never mutated.
//
// Auto-rotate is resolved at capture time by the camera layer, so the option
// is accepted but has no effect here.
func Process(src image.Image, opts models.ProcessingOptions) *image.NRGBA {
	opts = opts.Clamped()

	img := imaging.Clone(src)
	if img.Bounds().Dx() > MaxWorkingWidth {
		img = imaging.Resize(img, MaxWorkingWidth, 0, imaging.Lanczos)
	}

	adjustBrightnessContrast(img, opts.Contrast, opts.Brightness)

	if opts.Sharpness > 0 {
		sharpen(img, opts.Sharpness)
	}

	if opts.Denoise {
		denoise(img)
	}

	return img
}

// adjustBrightnessContrast applies the linear transform
// out = clamp((in-128)*contrast + 128 + brightness) to R, G and B.
// Alpha is untouched.
func adjustBrightnessContrast(img *image.NRGBA, contrast float64, brightness int) {
	b := float64(brightness)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[(y-bounds.Min.Y)*img.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			i := x * 4
			for c := 0; c < 3; c++ {
				row[i+c] = clamp8((float64(row[i+c])-128)*contrast + 128 + b)
			}
		}
	}
}

// sharpenKernel is the classic 3x3 unsharp kernel; its output is divided by
// 1 + sharpness/10 so higher sharpness settings bite harder.
var sharpenKernel = [9]float64{0, -1, 0, -1, 5, -1, 0, -1, 0}

func sharpen(img *image.NRGBA, sharpness int) {
	factor := 1 + float64(sharpness)/10
	convolve3x3(img, func(sum float64) float64 { return sum / factor }, sharpenKernel)
}

var meanKernel = [9]float64{1, 1, 1, 1, 1, 1, 1, 1, 1}

func denoise(img *image.NRGBA) {
	convolve3x3(img, func(sum float64) float64 { return sum / 9 }, meanKernel)
}

// convolve3x3 runs a 3x3 convolution per channel over the interior of the
// image. Reads come from a snapshot of the buffer so in-place writes cannot
// corrupt neighboring reads. The outermost 1-pixel border is left unmodified
// since the kernel needs a full neighborhood.
func convolve3x3(img *image.NRGBA, norm func(float64) float64, kernel [9]float64) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w < 3 || h < 3 {
		return
	}

	snapshot := make([]uint8, len(img.Pix))
	copy(snapshot, img.Pix)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			idx := y*img.Stride + x*4
			for c := 0; c < 3; c++ {
				var sum float64
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						k := kernel[(ky+1)*3+(kx+1)]
						sum += k * float64(snapshot[idx+ky*img.Stride+kx*4+c])
					}
				}
				img.Pix[idx+c] = clamp8(norm(sum))
			}
		}
	}
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
