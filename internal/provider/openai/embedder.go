// Package openai implements port.Embedder against any OpenAI-compatible
// /embeddings endpoint (OpenAI, OpenRouter, Ollama).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docintel/internal/config"
	"docintel/internal/port"
	"docintel/internal/provider"
)

const (
	providerName    = "openai"
	defaultEndpoint = "https://api.openai.com/v1"
	defaultModel    = "text-embedding-3-small"
)

func init() {
	provider.RegisterEmbedder(providerName, func(cfg *config.ProviderConfig) (port.Embedder, error) {
		return NewEmbedder(cfg), nil
	})
}

// Embedder returns unit-length embeddings so inner product equals cosine similarity.
type Embedder struct {
	apiKey  string
	model   string
	url     string
	client  *http.Client
	limiter *provider.RateLimiter
}

// NewEmbedder creates an embedder from a provider config.
func NewEmbedder(cfg *config.ProviderConfig) *Embedder {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return NewEmbedderWithEndpoint(cfg, endpoint)
}

// NewEmbedderWithEndpoint creates an embedder pointing at a custom API base URL (for testing).
func NewEmbedderWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Embedder {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Embedder{
		apiKey:  cfg.APIKey,
		model:   model,
		url:     strings.TrimRight(endpoint, "/") + "/embeddings",
		client:  &http.Client{Timeout: timeout},
		limiter: provider.NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Embed returns the normalized embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling embeddings API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		baseErr := fmt.Errorf("embeddings API error (status %d): %s", resp.StatusCode, msg)
		if resp.StatusCode == http.StatusTooManyRequests {
			rlErr := provider.NewRateLimitError(providerName, baseErr, provider.ParseRetryAfterHeader(resp.Header.Get("Retry-After")))
			e.limiter.Backoff(rlErr.RetryAfter)
			return nil, rlErr
		}
		return nil, baseErr
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}
	return provider.Normalize(parsed.Data[0].Embedding), nil
}
