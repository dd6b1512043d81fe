package index_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docintel/internal/domain"
	"docintel/internal/index"
	"docintel/internal/provider/hashing"
	"docintel/internal/storage/local"
	"docintel/mocks"
)

func newManager(t *testing.T) (*index.Manager, *local.Store) {
	t.Helper()
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	return index.NewManager(hashing.NewEmbedder(128), store, nil), store
}

func TestSearch_UnknownCollectionIsEmpty(t *testing.T) {
	m, _ := newManager(t)

	hits := m.Search(context.Background(), "nothing-here", "anything", 5)

	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestSearch_MissDoesNotRegisterCollection(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Empty(t, m.Search(ctx, fmt.Sprintf("ghost-%d", i), "anything", 5))
	}

	assert.ErrorIs(t, m.Persist(ctx, "ghost-0"), domain.ErrNotFound)
	assert.Empty(t, m.Collections())
	keys, err := store.List(ctx, "indexes/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestAddSearch_TopOneWithSnippet(t *testing.T) {
	embedder := new(mocks.MockEmbedder)
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	m := index.NewManager(embedder, store, nil)
	ctx := context.Background()
	long := "electricity meter reading " + strings.Repeat("lorem ipsum ", 60)

	embedder.On("Embed", mock.Anything, long).Return([]float32{0.8, 0.6}, nil)
	embedder.On("Embed", mock.Anything, "resume").Return([]float32{0, 1}, nil)
	embedder.On("Embed", mock.Anything, "electricity").Return([]float32{1, 0}, nil)

	require.NoError(t, m.Add(ctx, "docs", "bill.pdf", long))
	require.NoError(t, m.Add(ctx, "docs", "cv.pdf", "resume"))

	hits := m.Search(ctx, "docs", "electricity", 1)

	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Rank)
	assert.Equal(t, "bill.pdf", hits[0].Filename)
	assert.InDelta(t, 0.8, hits[0].SimilarityScore, 1e-9)
	assert.LessOrEqual(t, utf8.RuneCountInString(hits[0].TextSnippet), 303)
	assert.Equal(t, long[:300]+"...", hits[0].TextSnippet)
}

func TestSearch_OrderedDenseRanks(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	docs := map[string]string{
		"a.pdf": "invoice total amount due acme",
		"b.pdf": "resume education skills experience",
		"c.pdf": "utility bill kwh meter reading",
	}
	for f, text := range docs {
		require.NoError(t, m.Add(ctx, "mixed", f, text))
	}

	hits := m.Search(ctx, "mixed", "invoice amount due", 20)

	require.Len(t, hits, 3)
	assert.Equal(t, "a.pdf", hits[0].Filename)
	for i, h := range hits {
		assert.Equal(t, i+1, h.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, hits[i-1].SimilarityScore, h.SimilarityScore)
		}
		assert.Equal(t, docs[h.Filename], h.TextSnippet)
	}
}

func TestSearch_ScoreRoundedToFourPlaces(t *testing.T) {
	embedder := new(mocks.MockEmbedder)
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	m := index.NewManager(embedder, store, nil)
	ctx := context.Background()

	embedder.On("Embed", mock.Anything, "doc").Return([]float32{0.6, 0.8}, nil)
	embedder.On("Embed", mock.Anything, "q").Return([]float32{0.123456, 0.5}, nil)
	require.NoError(t, m.Add(ctx, "docs", "d.pdf", "doc"))

	hits := m.Search(ctx, "docs", "q", 5)

	require.Len(t, hits, 1)
	// 0.6*0.123456 + 0.8*0.5 = 0.4740736
	assert.InDelta(t, 0.4741, hits[0].SimilarityScore, 1e-9)
}

func TestSearch_TopKClamped(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		require.NoError(t, m.Add(ctx, "many", fmt.Sprintf("%d.pdf", i), fmt.Sprintf("document number %d", i)))
	}

	assert.Len(t, m.Search(ctx, "many", "document", 100), index.MaxTopK)
	assert.Len(t, m.Search(ctx, "many", "document", 0), 1)
}

func TestSearch_EmbeddingFailureIsEmpty(t *testing.T) {
	embedder := new(mocks.MockEmbedder)
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	m := index.NewManager(embedder, store, nil)
	ctx := context.Background()

	embedder.On("Embed", mock.Anything, "doc").Return([]float32{1, 0}, nil)
	embedder.On("Embed", mock.Anything, "q").Return(nil, errors.New("service down"))
	require.NoError(t, m.Add(ctx, "docs", "d.pdf", "doc"))

	assert.Empty(t, m.Search(ctx, "docs", "q", 5))
}

func TestAdd_DimensionMismatchRejected(t *testing.T) {
	embedder := new(mocks.MockEmbedder)
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	m := index.NewManager(embedder, store, nil)
	ctx := context.Background()

	embedder.On("Embed", mock.Anything, "first").Return([]float32{1, 0}, nil)
	embedder.On("Embed", mock.Anything, "second").Return([]float32{1, 0, 0}, nil)

	require.NoError(t, m.Add(ctx, "docs", "a.pdf", "first"))
	err = m.Add(ctx, "docs", "b.pdf", "second")

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, []domain.CollectionInfo{{Name: "docs", Entries: 1, Dimensions: 2}}, m.Collections())
}

func TestAdd_InvalidCollectionName(t *testing.T) {
	m, _ := newManager(t)

	for _, id := range []string{"", "../etc", "a b", strings.Repeat("x", 65)} {
		assert.ErrorIs(t, m.Add(context.Background(), id, "a.pdf", "text"), domain.ErrInvalidCollectionName, id)
	}
}

func TestAdd_PersistFailureKeepsEntry(t *testing.T) {
	store := new(mocks.MockBlobStore)
	m := index.NewManager(hashing.NewEmbedder(16), store, nil)
	ctx := context.Background()

	store.On("Get", mock.Anything, "indexes/docs.json").Return(nil, domain.ErrNotFound)
	store.On("Put", mock.Anything, "indexes/docs.json", mock.Anything, "application/json").Return(errors.New("disk full"))

	require.NoError(t, m.Add(ctx, "docs", "a.pdf", "some text"))

	hits := m.Search(ctx, "docs", "some text", 5)
	require.Len(t, hits, 1)
	assert.Equal(t, "a.pdf", hits[0].Filename)
}

func TestAdd_StorageReadFailureAborts(t *testing.T) {
	store := new(mocks.MockBlobStore)
	m := index.NewManager(hashing.NewEmbedder(16), store, nil)

	store.On("Get", mock.Anything, "indexes/docs.json").Return(nil, errors.New("permission denied"))

	err := m.Add(context.Background(), "docs", "a.pdf", "some text")

	assert.Error(t, err)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	embedder := hashing.NewEmbedder(64)

	first := index.NewManager(embedder, store, nil)
	require.NoError(t, first.Add(ctx, "docs", "a.pdf", "invoice from acme"))
	require.NoError(t, first.Add(ctx, "docs", "b.pdf", "resume of jane"))

	second := index.NewManager(embedder, store, nil)
	found, err := second.Load(ctx, "docs")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, first.Search(ctx, "docs", "acme invoice", 2), second.Search(ctx, "docs", "acme invoice", 2))

	found, err = second.Load(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAdd_AfterRestartAppendsToPersisted(t *testing.T) {
	ctx := context.Background()
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	embedder := hashing.NewEmbedder(64)

	require.NoError(t, index.NewManager(embedder, store, nil).Add(ctx, "docs", "a.pdf", "first"))

	restarted := index.NewManager(embedder, store, nil)
	require.NoError(t, restarted.Add(ctx, "docs", "b.pdf", "second"))

	assert.Equal(t, []domain.CollectionInfo{{Name: "docs", Entries: 2, Dimensions: 64}}, restarted.Collections())
}

func TestSearch_LazilyLoadsPersisted(t *testing.T) {
	ctx := context.Background()
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	embedder := hashing.NewEmbedder(64)
	require.NoError(t, index.NewManager(embedder, store, nil).Add(ctx, "docs", "a.pdf", "hello world"))

	hits := index.NewManager(embedder, store, nil).Search(ctx, "docs", "hello", 5)

	assert.Len(t, hits, 1)
}

func TestLoadAll(t *testing.T) {
	ctx := context.Background()
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	embedder := hashing.NewEmbedder(32)
	seed := index.NewManager(embedder, store, nil)
	require.NoError(t, seed.Add(ctx, "alpha", "a.pdf", "one"))
	require.NoError(t, seed.Add(ctx, "beta", "b.pdf", "two"))
	require.NoError(t, seed.Add(ctx, "beta", "c.pdf", "three"))
	require.NoError(t, store.Put(ctx, "indexes/broken.json", []byte("{not json"), "application/json"))
	require.NoError(t, store.Put(ctx, "uploads/a.pdf", []byte("%PDF"), "application/pdf"))

	m := index.NewManager(embedder, store, nil)
	n, err := m.LoadAll(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []domain.CollectionInfo{
		{Name: "alpha", Entries: 1, Dimensions: 32},
		{Name: "beta", Entries: 2, Dimensions: 32},
	}, m.Collections())
}

func TestPersist_UnknownCollection(t *testing.T) {
	m, _ := newManager(t)

	assert.ErrorIs(t, m.Persist(context.Background(), "nope"), domain.ErrNotFound)
}

func TestAdd_ConcurrentSameCollection(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.Add(ctx, "shared", fmt.Sprintf("%d.pdf", i), fmt.Sprintf("text %d", i)))
		}(i)
	}
	wg.Wait()

	reloaded := index.NewManager(hashing.NewEmbedder(128), store, nil)
	found, err := reloaded.Load(ctx, "shared")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 20, reloaded.Collections()[0].Entries)
}

func TestSnippet(t *testing.T) {
	exact := strings.Repeat("é", index.SnippetChars)
	assert.Equal(t, exact, index.Snippet(exact))

	long := exact + "x"
	assert.Equal(t, exact+"...", index.Snippet(long))
}

func TestClampTopK(t *testing.T) {
	assert.Equal(t, 1, index.ClampTopK(-3))
	assert.Equal(t, 5, index.ClampTopK(5))
	assert.Equal(t, 20, index.ClampTopK(21))
}
