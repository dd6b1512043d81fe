package huggingface_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/config"
	"docintel/internal/provider"
	"docintel/internal/provider/huggingface"
)

func newTestClassifier(serverURL string) *huggingface.Classifier {
	return huggingface.NewClassifierWithEndpoint(&config.ProviderConfig{
		Provider:    "huggingface",
		APIKey:      "hf-test",
		Model:       "facebook/bart-large-mnli",
		TimeoutSecs: 5,
	}, serverURL)
}

func TestClassify_PairedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/facebook/bart-large-mnli", r.URL.Path)
		assert.Equal(t, "Bearer hf-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "INVOICE #1", body["inputs"])
		params := body["parameters"].(map[string]any)
		assert.Equal(t, "This document is a {}.", params["hypothesis_template"])
		assert.Len(t, params["candidate_labels"], 2)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"sequence": "INVOICE #1",
			"labels":   []string{"Invoice", "Resume"},
			"scores":   []float64{0.9, 0.1},
		})
	}))
	defer server.Close()

	out, err := newTestClassifier(server.URL).Classify(context.Background(), "INVOICE #1", []string{"Invoice", "Resume"}, "This document is a {}.")

	require.NoError(t, err)
	assert.Equal(t, []string{"Invoice", "Resume"}, out.Labels)
	assert.Equal(t, []float64{0.9, 0.1}, out.Scores)
}

func TestClassify_ListResponseIsSortedByScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"label":"Resume","score":0.2},{"label":"Invoice","score":0.7},{"label":"Other","score":0.1}]`))
	}))
	defer server.Close()

	out, err := newTestClassifier(server.URL).Classify(context.Background(), "x", []string{"Invoice", "Resume", "Other"}, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"Invoice", "Resume", "Other"}, out.Labels)
	assert.Equal(t, 0.7, out.Scores[0])
}

func TestClassify_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "x", []string{"Invoice"}, "")

	var rlErr *provider.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, 7*time.Second, rlErr.RetryAfter)
}

func TestClassify_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
	}))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "x", []string{"Invoice"}, "")

	assert.ErrorContains(t, err, "status 503")
}

func TestClassify_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"labels":["Invoice"],"scores":[]}`))
	}))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "x", []string{"Invoice"}, "")

	assert.ErrorContains(t, err, "malformed")
}
