package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docintel/internal/domain"
)

// MockResultRepo is a mock implementation of port.ResultRepository.
type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) Save(ctx context.Context, rec *domain.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockResultRepo) GetByFilename(ctx context.Context, filename string) (*domain.Record, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockResultRepo) List(ctx context.Context) ([]domain.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockResultRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
