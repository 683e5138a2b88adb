package ingest_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/snaptext/snaptext/internal/imgproc"
	"github.com/snaptext/snaptext/internal/ingest"
)

func pngBytes(w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{128, 128, 128, 255})
		}
	}
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

// fakeExtractor stands in for the go-fitz rasterizer.
type fakeExtractor struct {
	pages []image.Image
	err   error
}

func (f *fakeExtractor) ExtractPages(ctx context.Context, data []byte) ([]image.Image, error) {
	return f.pages, f.err
}

var _ = Describe("Input resolution", func() {
	It("should tag PDF bytes without decoding them", func() {
		src, err := ingest.Resolve([]byte("%PDF-1.4 pretend document"))
		Expect(err).NotTo(HaveOccurred())
		Expect(src.Kind).To(Equal(ingest.KindPdf))
		Expect(src.PdfBytes).NotTo(BeEmpty())
	})

	It("should decode images and keep an original preview", func() {
		src, err := ingest.Resolve(pngBytes(12, 8))
		Expect(err).NotTo(HaveOccurred())
		Expect(src.Kind).To(Equal(ingest.KindImage))
		Expect(src.Image.Bounds().Dx()).To(Equal(12))
		Expect(src.Preview).To(HavePrefix("data:image/png;base64,"))
	})

	It("should reject bytes that are neither image nor PDF", func() {
		_, err := ingest.Resolve([]byte("plain text file"))
		Expect(err).To(MatchError(imgproc.ErrDecode))
	})
})

var _ = Describe("Item creation", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("from an image source", func() {
		It("should produce a single item with a unique id", func() {
			src, err := ingest.Resolve(pngBytes(10, 10))
			Expect(err).NotTo(HaveOccurred())

			items, err := ingest.Items(ctx, src, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].ID).NotTo(BeEmpty())
			Expect(items[0].IsPdfPage).To(BeFalse())
			Expect(items[0].Preview).To(Equal(src.Preview))
		})
	})

	Context("from a PDF source", func() {
		It("should produce one item per page in page order", func() {
			pages := []image.Image{
				image.NewNRGBA(image.Rect(0, 0, 4, 4)),
				image.NewNRGBA(image.Rect(0, 0, 4, 4)),
				image.NewNRGBA(image.Rect(0, 0, 4, 4)),
			}
			src := ingest.InputSource{Kind: ingest.KindPdf, PdfBytes: []byte("%PDF-")}

			items, err := ingest.Items(ctx, src, &fakeExtractor{pages: pages})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(3))

			ids := map[string]bool{}
			for i, item := range items {
				Expect(item.IsPdfPage).To(BeTrue())
				Expect(item.PageNumber).To(Equal(i + 1))
				Expect(item.ID).To(HavePrefix("pdf-page-"))
				Expect(item.Preview).To(HavePrefix("data:image/png;base64,"))
				ids[item.ID] = true
			}
			Expect(ids).To(HaveLen(3))
		})

		It("should fail wholesale when extraction fails", func() {
			src := ingest.InputSource{Kind: ingest.KindPdf, PdfBytes: []byte("%PDF-")}
			boom := errors.New("render failed")

			_, err := ingest.Items(ctx, src, &fakeExtractor{err: boom})
			Expect(err).To(MatchError(boom))
		})
	})
})
