package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"smartconv/internal/domain"
	"smartconv/internal/service"
)

// MockPDFService is a mock implementation of service.PDFService.
type MockPDFService struct {
	mock.Mock
}

func (m *MockPDFService) Merge(ctx context.Context, files []service.FileInput) (*domain.Artifact, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockPDFService) Split(ctx context.Context, in service.FileInput) (*domain.Artifact, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockPDFService) Compress(ctx context.Context, in service.FileInput, level int) (*service.CompressOutput, error) {
	args := m.Called(ctx, in, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CompressOutput), args.Error(1)
}

func (m *MockPDFService) ToImages(ctx context.Context, in service.FileInput) (*domain.Artifact, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockPDFService) FromImages(ctx context.Context, files []service.FileInput) (*domain.Artifact, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}
