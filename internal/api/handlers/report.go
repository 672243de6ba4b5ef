package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"suraksha-api/internal/domain/services/report"
	"suraksha-api/pkg/logger"
)

// ReportHandler handles formal report generation endpoints
type ReportHandler struct {
	generator *report.Generator
	logger    *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(g *report.Generator, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		generator: g,
		logger:    log.WithComponent("report-handler"),
	}
}

// GenerateRequest is the request body for report generation
type GenerateRequest struct {
	ComplaintType string `json:"complaint_type"`
	IncidentText  string `json:"incident_text"`
}

// GenerateResponse carries the generated report text
type GenerateResponse struct {
	Report string `json:"report"`
}

// Generate handles POST /api/v1/report/generate
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IncidentText == "" {
		writeError(w, http.StatusBadRequest, "incident_text is required")
		return
	}

	reportText, err := h.generator.Generate(r.Context(), req.ComplaintType, req.IncidentText)
	if err != nil {
		if errors.Is(err, report.ErrUnknownComplaintType) {
			writeError(w, http.StatusBadRequest, "unknown complaint type")
			return
		}
		h.logger.Error().Err(err).Str("complaint_type", req.ComplaintType).Msg("report generation failed")
		writeError(w, http.StatusBadGateway, "report generation service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Report: reportText})
}

// Types handles GET /api/v1/report/types
func (h *ReportHandler) Types(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		ComplaintTypes []string `json:"complaint_types"`
	}{ComplaintTypes: report.ComplaintTypes()})
}
