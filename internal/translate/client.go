package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/snaptext/snaptext/pkg/logger"
)

const (
	DefaultEndpoint = "https://translate.astian.org/translate"

	requestTimeout = 15 * time.Second
)

// FailureText is returned in place of a translation when the endpoint fails.
// Same fail-soft contract as recognition: the caller always gets a string.
const FailureText = "Translation failed. Please try again later."

type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logger.Logger
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(log *logger.Logger, options ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: log,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate sends text to the translation endpoint. Blank input returns empty
// output without a network call. Failures come back as FailureText; this
// never returns an error and never retries.
func (c *Client) Translate(ctx context.Context, text, targetLang, sourceLang string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	translated, err := c.post(ctx, text, targetLang, sourceLang)
	if err != nil {
		c.logger.Warn("Translation failed: %v", err)
		return FailureText
	}
	return translated
}

func (c *Client) post(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	var parsed translateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return parsed.TranslatedText, nil
}
