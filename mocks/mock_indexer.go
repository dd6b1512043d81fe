package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docintel/internal/domain"
)

// MockIndexer is a mock implementation of port.Indexer.
type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) Add(ctx context.Context, collectionID, filename, text string) error {
	args := m.Called(ctx, collectionID, filename, text)
	return args.Error(0)
}

func (m *MockIndexer) Search(ctx context.Context, collectionID, query string, topK int) []domain.SearchHit {
	args := m.Called(ctx, collectionID, query, topK)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.SearchHit)
}

func (m *MockIndexer) Collections() []domain.CollectionInfo {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.CollectionInfo)
}
