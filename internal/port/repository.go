package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"smartconv/internal/domain"
)

// ConversionRepository is the append-only ledger store.
type ConversionRepository interface {
	Create(ctx context.Context, rec *domain.ConversionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ConversionRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.ConversionRecord, int, error)
	ListAll(ctx context.Context) ([]domain.ConversionRecord, error)
	// Stats counts rows created in [dayStart, dayEnd), all rows, and completed rows.
	Stats(ctx context.Context, dayStart, dayEnd time.Time) (*domain.Stats, error)
}

// ExtractedTextRepository stores OCR results.
type ExtractedTextRepository interface {
	Create(ctx context.Context, t *domain.ExtractedText) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractedText, error)
}
