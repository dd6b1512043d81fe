package provider_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/provider"
)

func TestRateLimitError_ErrorsAs(t *testing.T) {
	underlying := fmt.Errorf("rate limited")
	wrapped := fmt.Errorf("embed failed: %w", provider.NewRateLimitError("openai", underlying, 30))

	var target *provider.RateLimitError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "openai", target.Provider)
	assert.Equal(t, 30*time.Second, target.RetryAfter)
	assert.Equal(t, underlying, errors.Unwrap(target))
	assert.Contains(t, target.Error(), "30s")
}

func TestNewRateLimitError_DefaultRetryAfter(t *testing.T) {
	rlErr := provider.NewRateLimitError("huggingface", fmt.Errorf("err"), 0)

	assert.Equal(t, 60*time.Second, rlErr.RetryAfter)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, provider.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, provider.ParseRetryAfterHeader("soon"))
	assert.Equal(t, 12, provider.ParseRetryAfterHeader("12"))
}

func TestRateLimiter_BackoffHonoursContext(t *testing.T) {
	rl := provider.NewRateLimiter(0, 1)
	rl.Backoff(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_UnlimitedDoesNotBlock(t *testing.T) {
	rl := provider.NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
}

func TestNormalize(t *testing.T) {
	v := provider.Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := provider.Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)

	var sum float64
	for _, x := range provider.Normalize([]float32{1, 2, 3, 4}) {
		sum += float64(x * x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}
