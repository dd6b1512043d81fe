// Package index maintains named in-memory vector collections with durable
// JSON snapshots and exhaustive inner-product search.
package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docintel/internal/domain"
	"docintel/internal/port"
)

const (
	// MinTopK is the smallest accepted result count.
	MinTopK = 1
	// MaxTopK is the largest accepted result count.
	MaxTopK = 20
	// DefaultTopK is used when a search does not ask for a count.
	DefaultTopK = 5
	// SnippetChars is the number of runes kept in a hit's text snippet.
	SnippetChars = 300

	snippetMark = "..."
	scoreScale  = 1e4
)

var collectionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateCollectionID rejects ids that cannot be used as storage keys.
func ValidateCollectionID(id string) error {
	if !collectionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCollectionName, id)
	}
	return nil
}

// ClampTopK bounds k to [MinTopK, MaxTopK].
func ClampTopK(k int) int {
	if k < MinTopK {
		return MinTopK
	}
	if k > MaxTopK {
		return MaxTopK
	}
	return k
}

// collection is guarded by its own mutex; loaded is false until the persisted
// snapshot (if any) has been read.
type collection struct {
	mu      sync.RWMutex
	id      string
	loaded  bool
	dims    int
	entries []domain.IndexEntry
}

// Manager owns the registry of collections.
type Manager struct {
	embedder port.Embedder
	store    port.BlobStore
	log      *slog.Logger

	mu          sync.RWMutex
	collections map[string]*collection
}

// NewManager creates a Manager.
func NewManager(embedder port.Embedder, store port.BlobStore, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		embedder:    embedder,
		store:       store,
		log:         log,
		collections: make(map[string]*collection),
	}
}

// Add embeds text and appends it to the collection, creating the collection
// on first use. The collection is persisted before Add returns; persistence
// failures are logged and the in-memory entry is kept.
func (m *Manager) Add(ctx context.Context, collectionID, filename, text string) error {
	if err := ValidateCollectionID(collectionID); err != nil {
		return err
	}

	vec, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding %s: %w", filename, err)
	}
	if len(vec) == 0 {
		return fmt.Errorf("embedding %s: empty vector", filename)
	}

	c := m.register(collectionID)
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		if _, err := m.loadLocked(ctx, c); err != nil {
			return fmt.Errorf("loading collection %s: %w", collectionID, err)
		}
	}

	if c.dims == 0 {
		c.dims = len(vec)
	} else if len(vec) != c.dims {
		return fmt.Errorf("%w: got %d, collection %s has %d", domain.ErrDimensionMismatch, len(vec), collectionID, c.dims)
	}

	c.entries = append(c.entries, domain.IndexEntry{
		ID:       uuid.New(),
		Vector:   vec,
		Text:     text,
		Filename: filename,
		AddedAt:  time.Now().UTC(),
	})

	if err := m.persistLocked(ctx, c); err != nil {
		m.log.Error("persisting collection failed, in-memory entry kept",
			"collection", collectionID, "filename", filename, "error", err)
	}
	return nil
}

// Search returns up to topK hits ordered by descending similarity. Unknown
// collections and any embedding or storage failure yield an empty slice.
func (m *Manager) Search(ctx context.Context, collectionID, query string, topK int) []domain.SearchHit {
	hits := []domain.SearchHit{}
	topK = ClampTopK(topK)

	if strings.TrimSpace(query) == "" {
		return hits
	}
	if err := ValidateCollectionID(collectionID); err != nil {
		m.log.Debug("search on invalid collection id", "collection", collectionID)
		return hits
	}

	c, err := m.lookup(ctx, collectionID)
	if err != nil {
		m.log.Error("loading collection for search failed", "collection", collectionID, "error", err)
		return hits
	}
	if c == nil {
		return hits
	}

	vec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		m.log.Error("embedding query failed", "collection", collectionID, "error", err)
		return hits
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.entries) == 0 {
		return hits
	}
	if len(vec) != c.dims {
		m.log.Error("query dimension mismatch",
			"collection", collectionID, "query_dims", len(vec), "collection_dims", c.dims)
		return hits
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(c.entries))
	for i := range c.entries {
		scores[i] = scored{idx: i, score: dot(vec, c.entries[i].Vector)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if topK < len(scores) {
		scores = scores[:topK]
	}
	for rank, s := range scores {
		e := c.entries[s.idx]
		hits = append(hits, domain.SearchHit{
			Rank:            rank + 1,
			Filename:        e.Filename,
			SimilarityScore: round(s.score),
			TextSnippet:     Snippet(e.Text),
		})
	}
	return hits
}

// Persist writes the collection snapshot to the blob store.
func (m *Manager) Persist(ctx context.Context, collectionID string) error {
	m.mu.RLock()
	c, ok := m.collections[collectionID]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("collection %s: %w", collectionID, domain.ErrNotFound)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return fmt.Errorf("collection %s: %w", collectionID, domain.ErrNotFound)
	}
	return m.persistLocked(ctx, c)
}

// Load restores a collection from the blob store, replacing any in-memory
// state. It reports false when nothing has been persisted for the id.
func (m *Manager) Load(ctx context.Context, collectionID string) (bool, error) {
	if err := ValidateCollectionID(collectionID); err != nil {
		return false, err
	}

	c := m.register(collectionID)
	c.mu.Lock()
	defer c.mu.Unlock()
	return m.loadLocked(ctx, c)
}

// LoadAll restores every persisted collection and returns how many were loaded.
// Collections that fail to load are logged and skipped.
func (m *Manager) LoadAll(ctx context.Context) (int, error) {
	keys, err := m.store.List(ctx, snapshotPrefix)
	if err != nil {
		return 0, fmt.Errorf("listing snapshots: %w", err)
	}

	loaded := 0
	for _, key := range keys {
		id, ok := collectionIDFromKey(key)
		if !ok {
			continue
		}
		found, err := m.Load(ctx, id)
		if err != nil {
			m.log.Error("loading collection failed", "collection", id, "error", err)
			continue
		}
		if found {
			loaded++
		}
	}
	m.log.Info("collections loaded", "count", loaded)
	return loaded, nil
}

// Collections lists the non-empty in-memory collections sorted by name.
func (m *Manager) Collections() []domain.CollectionInfo {
	m.mu.RLock()
	cols := make([]*collection, 0, len(m.collections))
	for _, c := range m.collections {
		cols = append(cols, c)
	}
	m.mu.RUnlock()

	out := []domain.CollectionInfo{}
	for _, c := range cols {
		c.mu.RLock()
		if c.loaded && len(c.entries) > 0 {
			out = append(out, domain.CollectionInfo{Name: c.id, Entries: len(c.entries), Dimensions: c.dims})
		}
		c.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// register returns the registry entry for id, creating an unloaded one if needed.
func (m *Manager) register(id string) *collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[id]
	if !ok {
		c = &collection{id: id}
		m.collections[id] = c
	}
	return c
}

// lookup returns the collection for id, reading its snapshot on first
// access. A nil collection means none exists or it has no entries. Ids with
// no snapshot are not registered, so misses never grow the registry.
func (m *Manager) lookup(ctx context.Context, id string) (*collection, error) {
	m.mu.RLock()
	c, ok := m.collections[id]
	m.mu.RUnlock()

	var data []byte
	if !ok {
		var err error
		data, err = m.store.Get(ctx, snapshotKey(id))
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		c = m.register(id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		var err error
		if data != nil {
			err = applySnapshot(c, data)
		} else {
			_, err = m.loadLocked(ctx, c)
		}
		if err != nil {
			return nil, err
		}
	}
	if len(c.entries) == 0 {
		return nil, nil
	}
	return c, nil
}

func (m *Manager) loadLocked(ctx context.Context, c *collection) (bool, error) {
	data, err := m.store.Get(ctx, snapshotKey(c.id))
	if errors.Is(err, domain.ErrNotFound) {
		c.loaded = true
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := applySnapshot(c, data); err != nil {
		return false, err
	}
	return true, nil
}

func applySnapshot(c *collection, data []byte) error {
	snap, err := decodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("decoding snapshot %s: %w", c.id, err)
	}
	c.dims = snap.Dimensions
	c.entries = snap.Entries
	c.loaded = true
	return nil
}

func (m *Manager) persistLocked(ctx context.Context, c *collection) error {
	data, err := encodeSnapshot(c.id, c.dims, c.entries)
	if err != nil {
		return err
	}
	return m.store.Put(ctx, snapshotKey(c.id), data, "application/json")
}

// Snippet returns the first SnippetChars runes of text, with an ellipsis when truncated.
func Snippet(text string) string {
	r := []rune(text)
	if len(r) <= SnippetChars {
		return text
	}
	return string(r[:SnippetChars]) + snippetMark
}
