package service

import (
	"context"
	"strings"

	"docintel/internal/domain"
	"docintel/internal/index"
	"docintel/internal/port"
)

// SearchRequest is the DTO for a semantic search. A nil TopK means DefaultTopK.
type SearchRequest struct {
	IndexName string `json:"index_name"`
	Query     string `json:"query"`
	TopK      *int   `json:"top_k"`
}

// SearchResponse is the ranked result of a search.
type SearchResponse struct {
	Query        string             `json:"query"`
	Results      []domain.SearchHit `json:"results"`
	TotalResults int                `json:"total_results"`
}

// SearchService answers semantic queries against a named collection.
type SearchService interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	Collections() []domain.CollectionInfo
}

type searchService struct {
	indexer    port.Indexer
	defaultIdx string
}

// NewSearchService creates a new SearchService implementation.
func NewSearchService(indexer port.Indexer, defaultIndex string) SearchService {
	if defaultIndex == "" {
		defaultIndex = "default"
	}
	return &searchService{indexer: indexer, defaultIdx: defaultIndex}
}

func (s *searchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	topK := index.DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK < index.MinTopK || topK > index.MaxTopK {
		return nil, domain.ErrInvalidTopK
	}
	if strings.TrimSpace(req.IndexName) == "" {
		req.IndexName = s.defaultIdx
	}
	if err := index.ValidateCollectionID(req.IndexName); err != nil {
		return nil, err
	}

	hits := s.indexer.Search(ctx, req.IndexName, req.Query, topK)
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	return &SearchResponse{Query: req.Query, Results: hits, TotalResults: len(hits)}, nil
}

func (s *searchService) Collections() []domain.CollectionInfo {
	cols := s.indexer.Collections()
	if cols == nil {
		return []domain.CollectionInfo{}
	}
	return cols
}
