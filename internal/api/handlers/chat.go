package handlers

import (
	"encoding/json"
	"net/http"

	"suraksha-api/internal/domain/services/ai"
	"suraksha-api/pkg/logger"
)

// chatUnavailableReply is returned when the safety engine cannot be
// reached. The chat surface never returns a server error for this.
const chatUnavailableReply = "The safety engine is temporarily unavailable. Please try again in a moment."

// ChatHandler handles the safety companion endpoint
type ChatHandler struct {
	chat   *ai.SafetyChat
	logger *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(c *ai.SafetyChat, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   c,
		logger: log.WithComponent("chat-handler"),
	}
}

// ChatRequest is the request body for the safety companion
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the companion's reply
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Respond handles POST /api/v1/chat
func (h *ChatHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.chat.Respond(r.Context(), req.Message)
	if err != nil {
		h.logger.Warn().Err(err).Msg("safety chat failed, returning canned reply")
		reply = chatUnavailableReply
	}

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}
