package ai

import (
	"context"
	"fmt"

	"suraksha-api/internal/domain/models"
	"suraksha-api/pkg/logger"
)

// RiskAnalyst asks the text generation service for a rationale and next
// steps for a non-LOW verdict. The fusion engine invokes it only for
// MEDIUM and HIGH tiers and converts any error into a fallback message, so
// this component carries no retry or recovery logic of its own.
type RiskAnalyst struct {
	llm    ChatCompleter
	logger *logger.Logger
}

// NewRiskAnalyst creates a risk analyst backed by the given completer
func NewRiskAnalyst(llm ChatCompleter, log *logger.Logger) *RiskAnalyst {
	return &RiskAnalyst{
		llm:    llm,
		logger: log.WithComponent("risk-analyst"),
	}
}

const riskAnalystSystemPrompt = "You are a cybersecurity risk analyst."

// Explain returns a two-part analysis: a short explanation of the assigned
// risk level, then immediate safety steps.
func (a *RiskAnalyst) Explain(ctx context.Context, text string, label models.Label, level models.RiskLevel) (string, error) {
	prompt := fmt.Sprintf(`Analyze the following content flagged as a '%s' with a '%s' risk level.
CONTENT: "%s"

1. Provide a 2-sentence explanation of why this is labeled as HIGH, MEDIUM, or LOW risk.
2. Provide 3 immediate safety steps for the user if the risk is HIGH or MEDIUM.

Format:
Explanation: [Text]
Next Steps: [Bullet points]`, label, level, text)

	return a.llm.Chat(ctx, []Message{
		{Role: "system", Content: riskAnalystSystemPrompt},
		{Role: "user", Content: prompt},
	}, ChatOptions{Temperature: 0.2})
}
