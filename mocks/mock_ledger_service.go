package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"smartconv/internal/domain"
	"smartconv/internal/service"
)

// MockLedgerService is a mock implementation of service.LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordCompleted(ctx context.Context, entry domain.LedgerEntry, artifactPath string) (*domain.ConversionRecord, error) {
	args := m.Called(ctx, entry, artifactPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionRecord), args.Error(1)
}

func (m *MockLedgerService) RecordFailed(ctx context.Context, entry domain.LedgerEntry, cause error) (*domain.ConversionRecord, error) {
	args := m.Called(ctx, entry, cause)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionRecord), args.Error(1)
}

func (m *MockLedgerService) Stats(ctx context.Context, asOf time.Time) (*domain.Stats, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

func (m *MockLedgerService) History(ctx context.Context, offset, limit int) ([]domain.ConversionRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ConversionRecord), args.Int(1), args.Error(2)
}

func (m *MockLedgerService) Export(ctx context.Context, format domain.ExportFormat) (*service.ExportFile, error) {
	args := m.Called(ctx, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockLedgerService) DownloadLink(ctx context.Context, id uuid.UUID) (*service.DownloadLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DownloadLink), args.Error(1)
}

func (m *MockLedgerService) ResolveDownload(ctx context.Context, token string) (*domain.Artifact, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}
