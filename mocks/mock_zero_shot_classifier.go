package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docintel/internal/port"
)

// MockZeroShotClassifier is a mock implementation of port.ZeroShotClassifier.
type MockZeroShotClassifier struct {
	mock.Mock
}

func (m *MockZeroShotClassifier) Classify(ctx context.Context, text string, candidateLabels []string, hypothesisTemplate string) (*port.ZeroShotOutput, error) {
	args := m.Called(ctx, text, candidateLabels, hypothesisTemplate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ZeroShotOutput), args.Error(1)
}
