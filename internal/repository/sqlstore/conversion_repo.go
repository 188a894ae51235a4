package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"smartconv/internal/domain"
	"smartconv/internal/port"
)

type conversionRepo struct {
	db *sqlx.DB
}

// NewConversionRepo creates a sqlx-backed ConversionRepository.
func NewConversionRepo(db *sqlx.DB) port.ConversionRepository {
	return &conversionRepo{db: db}
}

func (r *conversionRepo) Create(ctx context.Context, rec *domain.ConversionRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	if rec.CompletedAt != nil {
		t := rec.CompletedAt.UTC()
		rec.CompletedAt = &t
	}

	query := r.db.Rebind(`INSERT INTO conversion_history
		(id, filename, original_filename, file_type, conversion_type, file_size,
		 status, storage_key, error_message, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Filename, rec.OriginalFilename, rec.FileType, rec.ConversionType,
		rec.FileSize, rec.Status, rec.StorageKey, rec.ErrorMessage, rec.CreatedAt, rec.CompletedAt)
	if err != nil {
		return fmt.Errorf("conversionRepo.Create: %w", err)
	}
	return nil
}

func (r *conversionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ConversionRecord, error) {
	var rec domain.ConversionRecord
	err := r.db.GetContext(ctx, &rec,
		r.db.Rebind("SELECT * FROM conversion_history WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("conversionRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *conversionRepo) List(ctx context.Context, offset, limit int) ([]domain.ConversionRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM conversion_history"); err != nil {
		return nil, 0, fmt.Errorf("conversionRepo.List count: %w", err)
	}

	var records []domain.ConversionRecord
	err := r.db.SelectContext(ctx, &records,
		r.db.Rebind(`SELECT * FROM conversion_history
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`),
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("conversionRepo.List: %w", err)
	}
	return records, total, nil
}

func (r *conversionRepo) ListAll(ctx context.Context) ([]domain.ConversionRecord, error) {
	var records []domain.ConversionRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM conversion_history ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("conversionRepo.ListAll: %w", err)
	}
	return records, nil
}

const statsQuery = `SELECT
	COUNT(CASE WHEN created_at >= ? AND created_at < ? THEN 1 END) AS today,
	COUNT(*) AS total,
	COUNT(CASE WHEN status = 'completed' THEN 1 END) AS saved
FROM conversion_history`

func (r *conversionRepo) Stats(ctx context.Context, dayStart, dayEnd time.Time) (*domain.Stats, error) {
	var stats domain.Stats
	if err := r.db.GetContext(ctx, &stats, r.db.Rebind(statsQuery), dayStart.UTC(), dayEnd.UTC()); err != nil {
		return nil, fmt.Errorf("conversionRepo.Stats: %w", err)
	}
	return &stats, nil
}
