package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"suraksha-api/pkg/logger"
)

// ErrNoReadableText is the terminal state for an artifact that produced no
// text. Callers return it to the user without invoking the fusion engine.
var ErrNoReadableText = errors.New("no readable text found")

// OCRClient extracts text from screenshots through a remote recognition
// service. The service returns recognized fragments; the client joins them
// with single spaces and trims the result.
type OCRClient struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     OCRConfig
}

// OCRConfig holds OCR client configuration
type OCRConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// NewOCRClient creates an OCR client
func NewOCRClient(cfg OCRConfig, log *logger.Logger) *OCRClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &OCRClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.WithComponent("ocr"),
		config:     cfg,
	}
}

type ocrRequest struct {
	Image    string `json:"image"`
	Encoding string `json:"encoding"`
}

type ocrResponse struct {
	Results []string `json:"results"`
}

// ExtractText runs recognition over the image bytes and returns the joined
// text. An image with no recognizable text yields ErrNoReadableText.
func (c *OCRClient) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	body, err := json.Marshal(ocrRequest{
		Image:    base64.StdEncoding.EncodeToString(imageData),
		Encoding: "base64",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr service error %d", resp.StatusCode)
	}

	var parsed ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}

	text := strings.TrimSpace(strings.Join(parsed.Results, " "))
	if text == "" {
		return "", ErrNoReadableText
	}

	c.logger.Debug().Int("fragments", len(parsed.Results)).Int("chars", len(text)).Msg("text extracted from image")
	return text, nil
}
