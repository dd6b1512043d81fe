package provider

import (
	"fmt"
	"sort"
	"sync"

	"docintel/internal/config"
	"docintel/internal/port"
)

// ClassifierFactory creates a ZeroShotClassifier from a provider config.
type ClassifierFactory func(cfg *config.ProviderConfig) (port.ZeroShotClassifier, error)

// EmbedderFactory creates an Embedder from a provider config.
type EmbedderFactory func(cfg *config.ProviderConfig) (port.Embedder, error)

// registries are populated by init() in each provider package.
var (
	mu          sync.RWMutex
	classifiers = map[string]ClassifierFactory{}
	embedders   = map[string]EmbedderFactory{}
)

// RegisterClassifier registers a zero-shot classifier provider by name.
func RegisterClassifier(name string, factory ClassifierFactory) {
	mu.Lock()
	defer mu.Unlock()
	classifiers[name] = factory
}

// RegisterEmbedder registers an embedding provider by name.
func RegisterEmbedder(name string, factory EmbedderFactory) {
	mu.Lock()
	defer mu.Unlock()
	embedders[name] = factory
}

// NewClassifier creates a ZeroShotClassifier using the registered factory.
func NewClassifier(cfg *config.ProviderConfig) (port.ZeroShotClassifier, error) {
	mu.RLock()
	factory, ok := classifiers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown classifier provider: %s (registered: %v)", cfg.Provider, names(classifiers))
	}
	return factory(cfg)
}

// NewEmbedder creates an Embedder using the registered factory.
func NewEmbedder(cfg *config.ProviderConfig) (port.Embedder, error) {
	mu.RLock()
	factory, ok := embedders[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown embedding provider: %s (registered: %v)", cfg.Provider, names(embedders))
	}
	return factory(cfg)
}

func names[F any](m map[string]F) []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
