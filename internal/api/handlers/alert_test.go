package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suraksha-api/internal/api/handlers"
	apimiddleware "suraksha-api/internal/api/middleware"
	"suraksha-api/internal/domain/services/alert"
	"suraksha-api/internal/domain/services/auth"
	"suraksha-api/pkg/logger"
)

type stubVerifier struct {
	result auth.Result
	err    error
	token  string
}

func (s *stubVerifier) Verify(ctx context.Context, accessToken string) (auth.Result, error) {
	s.token = accessToken
	return s.result, s.err
}

func alertRequest(body string, token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alert/trigger", strings.NewReader(body))
	if token != "" {
		ctx := context.WithValue(req.Context(), apimiddleware.ContextKeyAccessToken, token)
		req = req.WithContext(ctx)
	}
	return req
}

func TestAlertTrigger_Success(t *testing.T) {
	dispatcher := alert.NewDispatcher(alert.NewNoopSender(logger.NewDefault()), nil, "+919999999999", logger.NewDefault())
	verifier := &stubVerifier{result: auth.Verified("user@example.com")}
	h := handlers.NewAlertHandler(dispatcher, verifier, logger.NewDefault())

	req := alertRequest(`{"incident_text":"extortion threats","emergency_contact":"+911234567890","location":"Pune"}`, "tok-123")
	rec := httptest.NewRecorder()

	h.Trigger(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-123", verifier.token)

	var status alert.DispatchStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Dispatched)
	assert.Equal(t, []string{"+911234567890", "+919999999999"}, status.Recipients)
}

func TestAlertTrigger_InvalidToken(t *testing.T) {
	dispatcher := alert.NewDispatcher(alert.NewNoopSender(logger.NewDefault()), nil, "+919999999999", logger.NewDefault())
	verifier := &stubVerifier{err: errors.New("invalid access token")}
	h := handlers.NewAlertHandler(dispatcher, verifier, logger.NewDefault())

	req := alertRequest(`{"incident_text":"threats"}`, "bad-token")
	rec := httptest.NewRecorder()

	h.Trigger(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAlertTrigger_MissingIncidentText(t *testing.T) {
	dispatcher := alert.NewDispatcher(alert.NewNoopSender(logger.NewDefault()), nil, "+919999999999", logger.NewDefault())
	verifier := &stubVerifier{result: auth.Unverified()}
	h := handlers.NewAlertHandler(dispatcher, verifier, logger.NewDefault())

	req := alertRequest(`{}`, "tok")
	rec := httptest.NewRecorder()

	h.Trigger(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
