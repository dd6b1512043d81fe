package port

import "context"

// Embedder turns text into a fixed-length, L2-normalized vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
