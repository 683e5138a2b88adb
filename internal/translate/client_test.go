package translate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/snaptext/snaptext/internal/translate"
	"github.com/snaptext/snaptext/pkg/logger"
)

func translateTestLogger() *logger.Logger {
	return logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[translate-test] "),
		logger.WithFlags(0),
	)
}

var _ = Describe("Translation Client", func() {
	var (
		server   *httptest.Server
		requests int
		ctx      context.Context
	)

	BeforeEach(func() {
		requests = 0
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	newClient := func(handler http.HandlerFunc) *translate.Client {
		server = httptest.NewServer(handler)
		return translate.NewClient(translateTestLogger(), translate.WithEndpoint(server.URL))
	}

	Context("successful translation", func() {
		It("should post the documented payload and return the translation", func() {
			var gotBody map[string]string
			client := newClient(func(w http.ResponseWriter, r *http.Request) {
				requests++
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				json.NewEncoder(w).Encode(map[string]string{"translatedText": "hello"})
			})

			result := client.Translate(ctx, "你好", "en", "zh")

			Expect(result).To(Equal("hello"))
			Expect(requests).To(Equal(1))
			Expect(gotBody).To(Equal(map[string]string{
				"q":      "你好",
				"source": "zh",
				"target": "en",
				"format": "text",
			}))
		})
	})

	Context("empty input", func() {
		It("should return empty output without a network call", func() {
			client := newClient(func(w http.ResponseWriter, r *http.Request) {
				requests++
			})

			Expect(client.Translate(ctx, "   ", "en", "zh")).To(Equal(""))
			Expect(requests).To(BeZero())
		})
	})

	Context("endpoint failures", func() {
		It("should return the failure sentinel on a server error", func() {
			client := newClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			})

			Expect(client.Translate(ctx, "text", "en", "zh")).To(Equal(translate.FailureText))
		})

		It("should return the failure sentinel on malformed JSON", func() {
			client := newClient(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{not json"))
			})

			Expect(client.Translate(ctx, "text", "en", "zh")).To(Equal(translate.FailureText))
		})

		It("should return the failure sentinel when the endpoint is unreachable", func() {
			client := translate.NewClient(translateTestLogger(),
				translate.WithEndpoint("http://127.0.0.1:1/translate"))

			Expect(client.Translate(ctx, "text", "en", "zh")).To(Equal(translate.FailureText))
		})
	})
})
