package handlers

import (
	"encoding/json"
	"net/http"

	apimiddleware "suraksha-api/internal/api/middleware"
	"suraksha-api/internal/domain/services/alert"
	"suraksha-api/internal/domain/services/auth"
	"suraksha-api/pkg/logger"
)

// AlertHandler handles emergency alert endpoints
type AlertHandler struct {
	dispatcher *alert.Dispatcher
	verifier   auth.Verifier
	logger     *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(d *alert.Dispatcher, v auth.Verifier, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		dispatcher: d,
		verifier:   v,
		logger:     log.WithComponent("alert-handler"),
	}
}

// TriggerRequest is the request body for alert dispatch
type TriggerRequest struct {
	IncidentText     string `json:"incident_text"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	Location         string `json:"location,omitempty"`
}

// Trigger handles POST /api/v1/alert/trigger (authenticated)
func (h *AlertHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	token := apimiddleware.GetAccessToken(r.Context())
	identity, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		h.logger.Debug().Err(err).Msg("token verification failed")
		writeError(w, http.StatusUnauthorized, "invalid access token")
		return
	}

	var req TriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IncidentText == "" {
		writeError(w, http.StatusBadRequest, "incident_text is required")
		return
	}

	status := h.dispatcher.Trigger(r.Context(), identity, req.IncidentText, req.EmergencyContact, req.Location)
	writeJSON(w, http.StatusOK, status)
}
