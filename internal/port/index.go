package port

import (
	"context"

	"docintel/internal/domain"
)

// Indexer is the per-collection semantic index used by the pipeline and search.
// Search never fails; unknown collections and backend errors yield no hits.
type Indexer interface {
	Add(ctx context.Context, collectionID, filename, text string) error
	Search(ctx context.Context, collectionID, query string, topK int) []domain.SearchHit
	Collections() []domain.CollectionInfo
}
