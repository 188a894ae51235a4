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

type extractedTextRepo struct {
	db *sqlx.DB
}

// NewExtractedTextRepo creates a sqlx-backed ExtractedTextRepository.
func NewExtractedTextRepo(db *sqlx.DB) port.ExtractedTextRepository {
	return &extractedTextRepo{db: db}
}

func (r *extractedTextRepo) Create(ctx context.Context, t *domain.ExtractedText) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now().UTC()

	query := r.db.Rebind(`INSERT INTO extracted_text
		(id, filename, original_filename, extracted_text, confidence_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Filename, t.OriginalFilename, t.Text, t.Confidence, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("extractedTextRepo.Create: %w", err)
	}
	return nil
}

func (r *extractedTextRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractedText, error) {
	var t domain.ExtractedText
	err := r.db.GetContext(ctx, &t,
		r.db.Rebind("SELECT * FROM extracted_text WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("extractedTextRepo.GetByID: %w", err)
	}
	return &t, nil
}
