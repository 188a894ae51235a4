package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"smartconv/internal/domain"
)

// MockConversionRepo is a mock implementation of port.ConversionRepository.
type MockConversionRepo struct {
	mock.Mock
}

func (m *MockConversionRepo) Create(ctx context.Context, rec *domain.ConversionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockConversionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ConversionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionRecord), args.Error(1)
}

func (m *MockConversionRepo) List(ctx context.Context, offset, limit int) ([]domain.ConversionRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ConversionRecord), args.Int(1), args.Error(2)
}

func (m *MockConversionRepo) ListAll(ctx context.Context) ([]domain.ConversionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConversionRecord), args.Error(1)
}

func (m *MockConversionRepo) Stats(ctx context.Context, dayStart, dayEnd time.Time) (*domain.Stats, error) {
	args := m.Called(ctx, dayStart, dayEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}
