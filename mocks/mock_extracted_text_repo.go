package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"smartconv/internal/domain"
)

// MockExtractedTextRepo is a mock implementation of port.ExtractedTextRepository.
type MockExtractedTextRepo struct {
	mock.Mock
}

func (m *MockExtractedTextRepo) Create(ctx context.Context, t *domain.ExtractedText) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockExtractedTextRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractedText, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedText), args.Error(1)
}
