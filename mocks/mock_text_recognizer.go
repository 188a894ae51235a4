package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"smartconv/internal/port"
)

// MockTextRecognizer is a mock implementation of port.TextRecognizer.
type MockTextRecognizer struct {
	mock.Mock
}

func (m *MockTextRecognizer) Recognize(ctx context.Context, input port.RecognizeInput) (*port.RecognizeOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RecognizeOutput), args.Error(1)
}

func (m *MockTextRecognizer) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockTextRecognizer) Name() string {
	args := m.Called()
	return args.String(0)
}
