package ingest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suraksha-api/internal/domain/services/ingest"
	"suraksha-api/pkg/logger"
)

func TestTranscriber_SelfHostedWhisper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "base64", req["encoding"])
		assert.Equal(t, "transcribe", req["task"])

		json.NewEncoder(w).Encode(map[string]string{"text": "aapka account block ho jayega"})
	}))
	defer server.Close()

	tr := ingest.NewTranscriber(ingest.SpeechConfig{
		Provider:        "whisper",
		WhisperEndpoint: server.URL,
	}, logger.NewDefault())

	text, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/wav")

	require.NoError(t, err)
	assert.Equal(t, "aapka account block ho jayega", text)
}

func TestTranscriber_EmptyTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "   "})
	}))
	defer server.Close()

	tr := ingest.NewTranscriber(ingest.SpeechConfig{
		Provider:        "whisper",
		WhisperEndpoint: server.URL,
	}, logger.NewDefault())

	_, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/mp3")

	assert.ErrorIs(t, err, ingest.ErrNoReadableText)
}

func TestTranscriber_NoProviderConfigured(t *testing.T) {
	tr := ingest.NewTranscriber(ingest.SpeechConfig{}, logger.NewDefault())

	_, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/mp3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no speech-to-text provider")
}

func TestTranscriber_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	tr := ingest.NewTranscriber(ingest.SpeechConfig{
		Provider:        "whisper",
		WhisperEndpoint: server.URL,
	}, logger.NewDefault())

	_, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/mp3")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ingest.ErrNoReadableText)
}
