package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"suraksha-api/pkg/logger"
)

// LLMClient is a chat-completions client for an OpenAI-compatible text
// generation service. It carries no conversation state; every call is a
// full message list.
type LLMClient struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     LLMConfig
}

// LLMConfig holds LLM client configuration
type LLMConfig struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewLLMClient creates a new LLM client
func NewLLMClient(cfg LLMConfig, log *logger.Logger) *LLMClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &LLMClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.WithComponent("llm-client"),
		config:     cfg,
	}
}

// Message is one role-tagged chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions tunes a single completion call
type ChatOptions struct {
	Temperature float64
	MaxTokens   int
}

// ChatCompleter is the surface consumed by the explanation, report and chat
// components; tests substitute a fake.
type ChatCompleter interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Chat sends the messages and returns the first completion's text
func (c *LLMClient) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion service error %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion service returned no choices")
	}

	c.logger.Debug().
		Int("prompt_tokens", parsed.Usage.PromptTokens).
		Int("completion_tokens", parsed.Usage.CompletionTokens).
		Msg("completion received")

	return parsed.Choices[0].Message.Content, nil
}
