package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"smartconv/internal/domain"
	"smartconv/internal/service"
)

// MockConvertService is a mock implementation of service.ConvertService.
type MockConvertService struct {
	mock.Mock
}

func (m *MockConvertService) Convert(ctx context.Context, in service.FileInput, targetFormat string) (*domain.Artifact, error) {
	args := m.Called(ctx, in, targetFormat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}
