package ai

import (
	"context"

	"suraksha-api/pkg/logger"
)

// SafetyChat is the conversational safety companion. Its scope is pinned by
// the system prompt: scams, cybercrime and online harassment only.
type SafetyChat struct {
	llm    ChatCompleter
	logger *logger.Logger
}

// NewSafetyChat creates a safety chat companion
func NewSafetyChat(llm ChatCompleter, log *logger.Logger) *SafetyChat {
	return &SafetyChat{
		llm:    llm,
		logger: log.WithComponent("safety-chat"),
	}
}

const safetyChatSystemPrompt = "You are a Digital Safety Companion. Your sole purpose is to help users " +
	"navigate scams, cybercrime, and online harassment. \n\n" +
	"RULES:\n" +
	"1. ONLY discuss safety, scams, harassment, or reporting fraud.\n" +
	"2. If asked about unrelated topics, politely refuse and redirect the user.\n" +
	"3. Provide actionable advice (e.g., block, report, secure accounts).\n" +
	"4. Keep responses concise and supportive.\n"

// Respond returns the companion's reply to one user message. Callers decide
// how to present a failure; the handler maps it to a canned reply.
func (s *SafetyChat) Respond(ctx context.Context, userInput string) (string, error) {
	return s.llm.Chat(ctx, []Message{
		{Role: "system", Content: safetyChatSystemPrompt},
		{Role: "user", Content: userInput},
	}, ChatOptions{Temperature: 0.4, MaxTokens: 500})
}
