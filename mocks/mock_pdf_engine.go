package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"smartconv/internal/port"
)

// MockPDFEngine is a mock implementation of port.PDFEngine.
type MockPDFEngine struct {
	mock.Mock
}

func (m *MockPDFEngine) Merge(ctx context.Context, inputs []string, outputPath string) error {
	args := m.Called(ctx, inputs, outputPath)
	return args.Error(0)
}

func (m *MockPDFEngine) Split(ctx context.Context, inputPath, outDir string) ([]string, error) {
	args := m.Called(ctx, inputPath, outDir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPDFEngine) PageCount(ctx context.Context, path string) (int, error) {
	args := m.Called(ctx, path)
	return args.Int(0), args.Error(1)
}

func (m *MockPDFEngine) ImportImages(ctx context.Context, images []string, outputPath string) error {
	args := m.Called(ctx, images, outputPath)
	return args.Error(0)
}

func (m *MockPDFEngine) Optimize(ctx context.Context, inputPath, outputPath string) error {
	args := m.Called(ctx, inputPath, outputPath)
	return args.Error(0)
}

// Compile-time check.
var _ port.PDFEngine = (*MockPDFEngine)(nil)
