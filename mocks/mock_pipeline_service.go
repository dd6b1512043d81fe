package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docintel/internal/domain"
	"docintel/internal/service"
)

// MockPipelineService is a mock implementation of service.PipelineService.
type MockPipelineService struct {
	mock.Mock
}

func (m *MockPipelineService) Upload(ctx context.Context, input service.UploadInput) (*domain.Record, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockPipelineService) Process(ctx context.Context, doc domain.Document, indexName string) (*domain.Record, error) {
	args := m.Called(ctx, doc, indexName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockPipelineService) ProcessBatch(ctx context.Context, dir, indexName string) (*service.BatchResult, error) {
	args := m.Called(ctx, dir, indexName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchResult), args.Error(1)
}
