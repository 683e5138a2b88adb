package imgproc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/snaptext/snaptext/internal/imgproc"
)

var _ = Describe("Resizer", func() {
	DescribeTable("Resize",
		func(srcWidth, maxWidth, wantWidth int) {
			src := uniformImage(srcWidth, srcWidth/2, 128)
			out := imgproc.Resize(src, maxWidth)
			Expect(out.Bounds().Dx()).To(Equal(wantWidth))
		},
		Entry("downscales wide images", 2000, 1000, 1000),
		Entry("keeps images already at the limit", 1000, 1000, 1000),
		Entry("never upscales small images", 400, 1000, 400),
		Entry("ignores a zero limit", 400, 0, 400),
	)

	It("should preserve aspect ratio when downscaling", func() {
		src := uniformImage(2000, 500, 128)
		out := imgproc.Resize(src, 1000)
		Expect(out.Bounds().Dy()).To(Equal(250))
	})

	It("should produce a decodable JPEG", func() {
		src := checkerboard(64, 64)
		data, err := imgproc.ResizeAndCompress(src, 32, 80)
		Expect(err).NotTo(HaveOccurred())

		img, err := imgproc.DecodeBytes(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Bounds().Dx()).To(Equal(32))
	})
})
