package history_test

import (
	"encoding/json"
	"fmt"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/snaptext/snaptext/internal/history"
	"github.com/snaptext/snaptext/pkg/logger"
	"github.com/snaptext/snaptext/pkg/models"
)

func historyTestLogger() *logger.Logger {
	return logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[history-test] "),
		logger.WithFlags(0),
	)
}

var _ = Describe("History Store", func() {
	var store *history.Store

	BeforeEach(func() {
		var err error
		store, err = history.Open("", historyTestLogger())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	Context("saving records", func() {
		It("should assign unique, increasing ids", func() {
			first, err := store.Save("data:image/jpeg;base64,aaa", "one")
			Expect(err).NotTo(HaveOccurred())
			second, err := store.Save("data:image/jpeg;base64,bbb", "two")
			Expect(err).NotTo(HaveOccurred())

			Expect(second.ID).To(BeNumerically(">", first.ID))
		})

		It("should evict the oldest records beyond the limit", func() {
			for i := 0; i < 105; i++ {
				_, err := store.Save("data:image/jpeg;base64,img", fmt.Sprintf("text-%d", i))
				Expect(err).NotTo(HaveOccurred())
			}

			records, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(100))

			// Newest first; the oldest five (text-0..text-4) are gone.
			Expect(records[0].TextContent).To(Equal("text-104"))
			Expect(records[99].TextContent).To(Equal("text-5"))
		})
	})

	Context("listing records", func() {
		It("should return newest first", func() {
			for i := 0; i < 3; i++ {
				_, err := store.Save("url", fmt.Sprintf("text-%d", i))
				Expect(err).NotTo(HaveOccurred())
			}

			records, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))
			Expect(records[0].TextContent).To(Equal("text-2"))
			Expect(records[2].TextContent).To(Equal("text-0"))
		})

		It("should return an empty list for a fresh store", func() {
			records, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})
	})

	Context("deleting records", func() {
		It("should remove the matching record", func() {
			rec, err := store.Save("url", "to delete")
			Expect(err).NotTo(HaveOccurred())

			ok, err := store.Delete(rec.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			records, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})

		It("should succeed for a nonexistent id without altering the collection", func() {
			_, err := store.Save("url", "keep me")
			Expect(err).NotTo(HaveOccurred())

			ok, err := store.Delete(424242)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			records, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
		})
	})

	Context("clearing", func() {
		It("should remove everything", func() {
			for i := 0; i < 5; i++ {
				_, err := store.Save("url", "text")
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(store.Clear()).To(Succeed())

			records, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})
	})

	Context("with a custom limit", func() {
		It("should honor the configured cap", func() {
			small, err := history.Open("", historyTestLogger(), history.WithLimit(3))
			Expect(err).NotTo(HaveOccurred())
			defer small.Close()

			for i := 0; i < 5; i++ {
				_, err := small.Save("url", fmt.Sprintf("text-%d", i))
				Expect(err).NotTo(HaveOccurred())
			}

			records, err := small.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))
			Expect(records[0].TextContent).To(Equal("text-4"))
		})
	})

	Context("persistence across reopen", func() {
		It("should keep saved records on disk", func() {
			dir, err := os.MkdirTemp("", "snaptext-history-*")
			Expect(err).NotTo(HaveOccurred())
			defer os.RemoveAll(dir)

			onDisk, err := history.Open(dir, historyTestLogger())
			Expect(err).NotTo(HaveOccurred())
			saved, err := onDisk.Save("url", "durable")
			Expect(err).NotTo(HaveOccurred())
			Expect(onDisk.Close()).To(Succeed())

			reopened, err := history.Open(dir, historyTestLogger())
			Expect(err).NotTo(HaveOccurred())
			defer reopened.Close()

			records, err := reopened.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].ID).To(Equal(saved.ID))
			Expect(records[0].TextContent).To(Equal("durable"))
		})
	})
})

var _ = Describe("HistoryRecord serialization", func() {
	It("should use the documented storage field names", func() {
		rec := models.HistoryRecord{
			ID:          1700000000000,
			ImageURL:    "data:image/jpeg;base64,xyz",
			TextContent: "hello",
			CreatedAt:   "2026-08-30T00:00:00Z",
		}

		data, err := json.Marshal(rec)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(MatchJSON(`{
			"id": 1700000000000,
			"image_url": "data:image/jpeg;base64,xyz",
			"text_content": "hello",
			"created_at": "2026-08-30T00:00:00Z"
		}`))
	})
})
