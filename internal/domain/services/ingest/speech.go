package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"suraksha-api/pkg/logger"
)

// Transcriber converts an audio artifact into plain text via a remote
// speech-to-text service. Segment transcripts are joined with single
// spaces; an empty transcript yields ErrNoReadableText, mirroring the OCR
// adapter so both ingestion paths short-circuit the same way.
type Transcriber struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     SpeechConfig
}

// SpeechConfig holds transcription configuration
type SpeechConfig struct {
	Provider        string // "openai" or "whisper"
	OpenAIAPIKey    string
	WhisperEndpoint string
	Timeout         time.Duration
}

// NewTranscriber creates a transcription client
func NewTranscriber(cfg SpeechConfig, log *logger.Logger) *Transcriber {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Transcriber{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.WithComponent("transcriber"),
		config:     cfg,
	}
}

// Transcribe converts audio bytes into joined transcript text
func (t *Transcriber) Transcribe(ctx context.Context, audioData []byte, mimeType string) (string, error) {
	var (
		text string
		err  error
	)

	switch t.config.Provider {
	case "whisper":
		text, err = t.transcribeWithWhisper(ctx, audioData)
	case "openai":
		text, err = t.transcribeWithOpenAI(ctx, audioData, mimeType)
	default:
		if t.config.OpenAIAPIKey != "" {
			text, err = t.transcribeWithOpenAI(ctx, audioData, mimeType)
		} else {
			return "", fmt.Errorf("no speech-to-text provider configured")
		}
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoReadableText
	}
	return text, nil
}

// transcribeWithOpenAI uses the hosted Whisper transcription API
func (t *Transcriber) transcribeWithOpenAI(ctx context.Context, audioData []byte, mimeType string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", fileNameFor(mimeType))
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(audioData); err != nil {
		return "", err
	}
	if err := mw.WriteField("model", "whisper-1"); err != nil {
		return "", err
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+t.config.OpenAIAPIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcription service error %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Text     string `json:"text"`
		Segments []struct {
			Text string `json:"text"`
		} `json:"segments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}

	if len(parsed.Segments) > 0 {
		parts := make([]string, 0, len(parsed.Segments))
		for _, seg := range parsed.Segments {
			parts = append(parts, strings.TrimSpace(seg.Text))
		}
		return strings.Join(parts, " "), nil
	}
	return parsed.Text, nil
}

// transcribeWithWhisper uses a self-hosted Whisper endpoint
func (t *Transcriber) transcribeWithWhisper(ctx context.Context, audioData []byte) (string, error) {
	endpoint := t.config.WhisperEndpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000/asr"
	}

	body, err := json.Marshal(map[string]any{
		"audio":    base64.StdEncoding.EncodeToString(audioData),
		"encoding": "base64",
		"task":     "transcribe",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription service error %d", resp.StatusCode)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	return parsed.Text, nil
}

func fileNameFor(mimeType string) string {
	switch mimeType {
	case "audio/wav", "audio/x-wav":
		return "audio.wav"
	case "audio/ogg":
		return "audio.ogg"
	case "audio/mp4", "audio/m4a":
		return "audio.m4a"
	default:
		return "audio.mp3"
	}
}
