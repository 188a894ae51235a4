package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"smartconv/internal/port"
)

// MockRasterizer is a mock implementation of port.Rasterizer.
type MockRasterizer struct {
	mock.Mock
}

func (m *MockRasterizer) RenderPNG(ctx context.Context, inputPath, outDir string, dpi int) ([]port.PageImage, error) {
	args := m.Called(ctx, inputPath, outDir, dpi)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.PageImage), args.Error(1)
}

func (m *MockRasterizer) RenderJPEG(ctx context.Context, inputPath, outDir string, dpi, quality int) ([]port.PageImage, error) {
	args := m.Called(ctx, inputPath, outDir, dpi, quality)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.PageImage), args.Error(1)
}
