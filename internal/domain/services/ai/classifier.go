package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"suraksha-api/internal/domain/models"
	"suraksha-api/pkg/logger"
)

// ZeroShotClassifier calls a remote zero-shot classification service that
// ranks an arbitrary candidate label list against a text. This is the
// mandatory probabilistic signal of the fusion pipeline: its failures are
// not recovered here and abort the current request.
type ZeroShotClassifier struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     ClassifierConfig
}

// ClassifierConfig holds classifier client configuration
type ClassifierConfig struct {
	APIURL   string
	APIToken string
	Timeout  time.Duration
}

// NewZeroShotClassifier creates a classifier client
func NewZeroShotClassifier(cfg ClassifierConfig, log *logger.Logger) *ZeroShotClassifier {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &ZeroShotClassifier{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.WithComponent("zero-shot-classifier"),
		config:     cfg,
	}
}

type classifyRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters classifyParameters `json:"parameters"`
}

type classifyParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

// Classify sends the text and candidate labels to the remote service and
// returns the ranked result. Labels and scores are aligned by index,
// descending by score.
func (c *ZeroShotClassifier) Classify(ctx context.Context, text string, candidateLabels []string) (models.ClassifierResult, error) {
	var result models.ClassifierResult

	body, err := json.Marshal(classifyRequest{
		Inputs:     text,
		Parameters: classifyParameters{CandidateLabels: candidateLabels},
	})
	if err != nil {
		return result, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, bytes.NewReader(body))
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("classification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return result, fmt.Errorf("classification service error %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("decode classification response: %w", err)
	}

	if len(result.Labels) != len(result.Scores) {
		return result, fmt.Errorf("classification response misaligned: %d labels, %d scores", len(result.Labels), len(result.Scores))
	}

	return result, nil
}
