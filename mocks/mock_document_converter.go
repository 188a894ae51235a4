package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDocumentConverter is a mock implementation of port.DocumentConverter.
type MockDocumentConverter struct {
	mock.Mock
}

func (m *MockDocumentConverter) Convert(ctx context.Context, inputPath, targetFormat, outDir string) (string, error) {
	args := m.Called(ctx, inputPath, targetFormat, outDir)
	return args.String(0), args.Error(1)
}
