package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docintel/internal/domain"
	"docintel/internal/service"
	"docintel/mocks"
)

func intPtr(n int) *int { return &n }

func TestSearch_DefaultsTopKAndIndex(t *testing.T) {
	idx := new(mocks.MockIndexer)
	svc := service.NewSearchService(idx, "default")
	hits := []domain.SearchHit{{Rank: 1, Filename: "inv.pdf", SimilarityScore: 0.91, TextSnippet: "INVOICE #12345"}}
	idx.On("Search", mock.Anything, "default", "acme invoice", 5).Return(hits)

	resp, err := svc.Search(context.Background(), service.SearchRequest{Query: "acme invoice"})

	require.NoError(t, err)
	assert.Equal(t, "acme invoice", resp.Query)
	assert.Equal(t, 1, resp.TotalResults)
	assert.Equal(t, hits, resp.Results)
}

func TestSearch_UnknownCollectionIsEmptyNotNil(t *testing.T) {
	idx := new(mocks.MockIndexer)
	svc := service.NewSearchService(idx, "default")
	idx.On("Search", mock.Anything, "nothing", "q", 3).Return(nil)

	resp, err := svc.Search(context.Background(), service.SearchRequest{IndexName: "nothing", Query: "q", TopK: intPtr(3)})

	require.NoError(t, err)
	assert.NotNil(t, resp.Results)
	assert.Zero(t, resp.TotalResults)
}

func TestSearch_RejectsBadInput(t *testing.T) {
	idx := new(mocks.MockIndexer)
	svc := service.NewSearchService(idx, "default")
	cases := []struct {
		req  service.SearchRequest
		want error
	}{
		{service.SearchRequest{Query: "  "}, domain.ErrEmptyQuery},
		{service.SearchRequest{Query: "q", TopK: intPtr(21)}, domain.ErrInvalidTopK},
		{service.SearchRequest{Query: "q", TopK: intPtr(0)}, domain.ErrInvalidTopK},
		{service.SearchRequest{Query: "q", TopK: intPtr(-1)}, domain.ErrInvalidTopK},
		{service.SearchRequest{Query: "q", IndexName: "../x"}, domain.ErrInvalidCollectionName},
	}
	for _, tc := range cases {
		_, err := svc.Search(context.Background(), tc.req)
		assert.ErrorIs(t, err, tc.want)
	}
	idx.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCollections(t *testing.T) {
	idx := new(mocks.MockIndexer)
	svc := service.NewSearchService(idx, "")
	idx.On("Collections").Return(nil).Once()

	assert.Equal(t, []domain.CollectionInfo{}, svc.Collections())
}
