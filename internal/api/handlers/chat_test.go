package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suraksha-api/internal/api/handlers"
	"suraksha-api/internal/domain/services/ai"
	"suraksha-api/pkg/logger"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Chat(ctx context.Context, messages []ai.Message, opts ai.ChatOptions) (string, error) {
	return s.reply, s.err
}

func TestChat_Success(t *testing.T) {
	chat := ai.NewSafetyChat(&stubCompleter{reply: "Block the sender and report them."}, logger.NewDefault())
	h := handlers.NewChatHandler(chat, logger.NewDefault())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"someone is threatening me"}`))
	rec := httptest.NewRecorder()

	h.Respond(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Block the sender and report them.")
}

func TestChat_LLMFailureReturnsCannedReply(t *testing.T) {
	chat := ai.NewSafetyChat(&stubCompleter{err: errors.New("upstream down")}, logger.NewDefault())
	h := handlers.NewChatHandler(chat, logger.NewDefault())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"help"}`))
	rec := httptest.NewRecorder()

	h.Respond(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "temporarily unavailable")
}

func TestChat_MissingMessage(t *testing.T) {
	chat := ai.NewSafetyChat(&stubCompleter{reply: "x"}, logger.NewDefault())
	h := handlers.NewChatHandler(chat, logger.NewDefault())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Respond(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
