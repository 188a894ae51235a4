package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"smartconv/internal/domain"
	"smartconv/internal/service"
)

// MockOCRService is a mock implementation of service.OCRService.
type MockOCRService struct {
	mock.Mock
}

func (m *MockOCRService) Extract(ctx context.Context, in service.FileInput) (*service.OCRResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OCRResult), args.Error(1)
}

func (m *MockOCRService) SaveText(ctx context.Context, text, originalFilename string) (*domain.Artifact, error) {
	args := m.Called(ctx, text, originalFilename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockOCRService) Backend() string {
	return m.Called().String(0)
}
