// Package hashing provides a deterministic, offline embedder based on the
// hashing trick over word unigrams and bigrams.
package hashing

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"docintel/internal/config"
	"docintel/internal/port"
	"docintel/internal/provider"
)

const (
	providerName      = "hashing"
	defaultDimensions = 384
)

func init() {
	provider.RegisterEmbedder(providerName, func(cfg *config.ProviderConfig) (port.Embedder, error) {
		return NewEmbedder(cfg.Dimensions), nil
	})
}

// Embedder maps text to a fixed-size unit vector.
type Embedder struct {
	dims int
}

// NewEmbedder creates an embedder producing vectors of length dims.
func NewEmbedder(dims int) *Embedder {
	if dims <= 0 {
		dims = defaultDimensions
	}
	return &Embedder{dims: dims}
}

// Dimensions returns the vector length.
func (e *Embedder) Dimensions() int { return e.dims }

// Embed never fails; empty text yields the zero vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := make([]float32, e.dims)
	tokens := tokenize(text)
	for i, tok := range tokens {
		e.add(v, tok)
		if i > 0 {
			e.add(v, tokens[i-1]+" "+tok)
		}
	}
	return provider.Normalize(v), nil
}

// add hashes s into a bucket with a hash-derived sign.
func (e *Embedder) add(v []float32, s string) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dims))
	if sum>>63 == 1 {
		v[idx]--
	} else {
		v[idx]++
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
