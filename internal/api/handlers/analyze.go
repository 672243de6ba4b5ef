package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"suraksha-api/internal/domain/services/detection"
	"suraksha-api/internal/domain/services/ingest"
	"suraksha-api/pkg/logger"
)

// maxUploadBytes bounds screenshot and voice uploads
const maxUploadBytes = 10 << 20

// AnalyzeHandler exposes the fusion pipeline over the three content
// surfaces: plain text, screenshots and voice notes.
type AnalyzeHandler struct {
	engine      *detection.Engine
	rules       *detection.RuleMatcher
	ocr         *ingest.OCRClient
	transcriber *ingest.Transcriber
	logger      *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(engine *detection.Engine, rules *detection.RuleMatcher, ocr *ingest.OCRClient, transcriber *ingest.Transcriber, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		engine:      engine,
		rules:       rules,
		ocr:         ocr,
		transcriber: transcriber,
		logger:      log.WithComponent("analyze-handler"),
	}
}

// TextRequest is the request body for text analysis
type TextRequest struct {
	Text string `json:"text"`
}

// Text handles POST /api/v1/analyze/text
func (h *AnalyzeHandler) Text(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	verdict, err := h.engine.Decide(r.Context(), req.Text)
	if err != nil {
		h.logger.Error().Err(err).Msg("text analysis failed")
		writeError(w, http.StatusBadGateway, "classification service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}

// Screenshot handles POST /api/v1/analyze/screenshot (multipart image upload)
func (h *AnalyzeHandler) Screenshot(w http.ResponseWriter, r *http.Request) {
	imageData, _, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	text, err := h.ocr.ExtractText(r.Context(), imageData)
	if err != nil {
		if errors.Is(err, ingest.ErrNoReadableText) {
			writeError(w, http.StatusUnprocessableEntity, "no readable text found in screenshot")
			return
		}
		h.logger.Error().Err(err).Msg("ocr extraction failed")
		writeError(w, http.StatusBadGateway, "text extraction service unavailable")
		return
	}

	verdict, err := h.engine.Decide(r.Context(), text)
	if err != nil {
		h.logger.Error().Err(err).Msg("screenshot analysis failed")
		writeError(w, http.StatusBadGateway, "classification service unavailable")
		return
	}

	verdict.ExtractedText = text
	writeJSON(w, http.StatusOK, verdict)
}

// Voice handles POST /api/v1/analyze/voice (multipart audio upload)
func (h *AnalyzeHandler) Voice(w http.ResponseWriter, r *http.Request) {
	audioData, mimeType, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	text, err := h.transcriber.Transcribe(r.Context(), audioData, mimeType)
	if err != nil {
		if errors.Is(err, ingest.ErrNoReadableText) {
			writeError(w, http.StatusUnprocessableEntity, "no speech detected in audio")
			return
		}
		h.logger.Error().Err(err).Msg("transcription failed")
		writeError(w, http.StatusBadGateway, "transcription service unavailable")
		return
	}

	verdict, err := h.engine.Decide(r.Context(), text)
	if err != nil {
		h.logger.Error().Err(err).Msg("voice analysis failed")
		writeError(w, http.StatusBadGateway, "classification service unavailable")
		return
	}

	verdict.TranscribedText = text
	writeJSON(w, http.StatusOK, verdict)
}

// Patterns handles GET /api/v1/patterns - the rule table grouped by label
func (h *AnalyzeHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Categories []detection.RuleCategory `json:"categories"`
	}{Categories: h.rules.Categories()})
}

// readUpload reads the "file" part of a multipart upload. On failure it
// writes the client error itself and reports ok=false.
func (h *AnalyzeHandler) readUpload(w http.ResponseWriter, r *http.Request) (data []byte, mimeType string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file upload is required")
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return nil, "", false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "uploaded file is empty")
		return nil, "", false
	}

	return data, header.Header.Get("Content-Type"), true
}
