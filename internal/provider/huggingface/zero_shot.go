// Package huggingface implements zero-shot classification against the
// Hugging Face inference API.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"docintel/internal/config"
	"docintel/internal/port"
	"docintel/internal/provider"
)

const (
	providerName    = "huggingface"
	defaultEndpoint = "https://api-inference.huggingface.co/models"
	defaultModel    = "facebook/bart-large-mnli"
)

func init() {
	provider.RegisterClassifier(providerName, func(cfg *config.ProviderConfig) (port.ZeroShotClassifier, error) {
		return NewClassifier(cfg), nil
	})
}

// Classifier implements port.ZeroShotClassifier.
type Classifier struct {
	apiKey  string
	url     string
	client  *http.Client
	limiter *provider.RateLimiter
}

// NewClassifier creates a classifier from a provider config.
func NewClassifier(cfg *config.ProviderConfig) *Classifier {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return NewClassifierWithEndpoint(cfg, endpoint)
}

// NewClassifierWithEndpoint creates a classifier pointing at a custom API endpoint (for testing).
func NewClassifierWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Classifier {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Classifier{
		apiKey:  cfg.APIKey,
		url:     strings.TrimRight(endpoint, "/") + "/" + model,
		client:  &http.Client{Timeout: timeout},
		limiter: provider.NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	CandidateLabels    []string `json:"candidate_labels"`
	HypothesisTemplate string   `json:"hypothesis_template,omitempty"`
}

// Classify scores text against candidateLabels. Labels in the result are
// ordered by descending score.
func (c *Classifier) Classify(ctx context.Context, text string, candidateLabels []string, hypothesisTemplate string) (*port.ZeroShotOutput, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(request{
		Inputs: text,
		Parameters: parameters{
			CandidateLabels:    candidateLabels,
			HypothesisTemplate: hypothesisTemplate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling huggingface API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("huggingface API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			rlErr := provider.NewRateLimitError(providerName, baseErr, provider.ParseRetryAfterHeader(resp.Header.Get("Retry-After")))
			c.limiter.Backoff(rlErr.RetryAfter)
			return nil, rlErr
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

// The API answers either with parallel label/score arrays or with a list of
// {label, score} objects depending on the deployment.
type pairedResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func parseResponse(body []byte) (*port.ZeroShotOutput, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []labelScore
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("unmarshaling response: %w", err)
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
		out := &port.ZeroShotOutput{}
		for _, it := range items {
			out.Labels = append(out.Labels, it.Label)
			out.Scores = append(out.Scores, it.Score)
		}
		return out, nil
	}

	var paired pairedResponse
	if err := json.Unmarshal(trimmed, &paired); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(paired.Labels) != len(paired.Scores) {
		return nil, fmt.Errorf("malformed response: %d labels, %d scores", len(paired.Labels), len(paired.Scores))
	}
	return &port.ZeroShotOutput{Labels: paired.Labels, Scores: paired.Scores}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
