package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suraksha-api/internal/domain/models"
	"suraksha-api/internal/domain/services/ai"
	"suraksha-api/pkg/logger"
)

func TestZeroShotClassifier_Classify(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer hf-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(models.ClassifierResult{
			Labels: []string{"job scam", "bank impersonation scam"},
			Scores: []float64{0.81, 0.12},
		})
	}))
	defer server.Close()

	c := ai.NewZeroShotClassifier(ai.ClassifierConfig{APIURL: server.URL, APIToken: "hf-token"}, logger.NewDefault())

	result, err := c.Classify(context.Background(), "easy money work from home", models.TaxonomyStrings())

	require.NoError(t, err)
	top, score := result.Top()
	assert.Equal(t, "job scam", top)
	assert.Equal(t, 0.81, score)

	assert.Equal(t, "easy money work from home", gotBody["inputs"])
	params, ok := gotBody["parameters"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, params["candidate_labels"], len(models.Taxonomy()))
}

func TestZeroShotClassifier_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"model is loading"}`))
	}))
	defer server.Close()

	c := ai.NewZeroShotClassifier(ai.ClassifierConfig{APIURL: server.URL}, logger.NewDefault())

	_, err := c.Classify(context.Background(), "text", models.TaxonomyStrings())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestZeroShotClassifier_MisalignedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"labels":["a","b"],"scores":[0.5]}`))
	}))
	defer server.Close()

	c := ai.NewZeroShotClassifier(ai.ClassifierConfig{APIURL: server.URL}, logger.NewDefault())

	_, err := c.Classify(context.Background(), "text", models.TaxonomyStrings())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "misaligned")
}

func TestZeroShotClassifier_NoAuthHeaderWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(models.ClassifierResult{Labels: []string{"x"}, Scores: []float64{1}})
	}))
	defer server.Close()

	c := ai.NewZeroShotClassifier(ai.ClassifierConfig{APIURL: server.URL}, logger.NewDefault())

	_, err := c.Classify(context.Background(), "text", []string{"x"})

	assert.NoError(t, err)
}
