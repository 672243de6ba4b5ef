package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suraksha-api/internal/api/handlers"
	"suraksha-api/internal/domain/services/report"
	"suraksha-api/pkg/logger"
)

func TestReportGenerate_Success(t *testing.T) {
	gen := report.NewGenerator(&stubCompleter{reply: "To, The Cyber Crime Cell..."}, nil, logger.NewDefault())
	h := handlers.NewReportHandler(gen, logger.NewDefault())

	body := strings.NewReader(`{"complaint_type":"cybercrime","incident_text":"I was scammed via a fake upi link"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/report/generate", body)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cyber Crime Cell")
}

func TestReportGenerate_UnknownType(t *testing.T) {
	gen := report.NewGenerator(&stubCompleter{reply: "x"}, nil, logger.NewDefault())
	h := handlers.NewReportHandler(gen, logger.NewDefault())

	body := strings.NewReader(`{"complaint_type":"parking","incident_text":"something"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/report/generate", body)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown complaint type")
}

func TestReportGenerate_LLMFailure(t *testing.T) {
	gen := report.NewGenerator(&stubCompleter{err: errors.New("timeout")}, nil, logger.NewDefault())
	h := handlers.NewReportHandler(gen, logger.NewDefault())

	body := strings.NewReader(`{"complaint_type":"fir","incident_text":"something"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/report/generate", body)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestReportGenerate_MissingIncidentText(t *testing.T) {
	gen := report.NewGenerator(&stubCompleter{reply: "x"}, nil, logger.NewDefault())
	h := handlers.NewReportHandler(gen, logger.NewDefault())

	body := strings.NewReader(`{"complaint_type":"fir"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/report/generate", body)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportTypes(t *testing.T) {
	gen := report.NewGenerator(&stubCompleter{reply: "x"}, nil, logger.NewDefault())
	h := handlers.NewReportHandler(gen, logger.NewDefault())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/types", nil)
	rec := httptest.NewRecorder()

	h.Types(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cybercrime")
	assert.Contains(t, rec.Body.String(), "fir")
	assert.Contains(t, rec.Body.String(), "platform")
}
