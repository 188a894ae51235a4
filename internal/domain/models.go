package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConversionRecord is one append-only ledger row describing an operation.
type ConversionRecord struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	Filename         string        `db:"filename" json:"filename"`
	OriginalFilename string        `db:"original_filename" json:"original_filename"`
	FileType         string        `db:"file_type" json:"file_type"`
	ConversionType   OperationKind `db:"conversion_type" json:"conversion_type"`
	FileSize         int64         `db:"file_size" json:"file_size"`
	Status           RecordStatus  `db:"status" json:"status"`
	StorageKey       string        `db:"storage_key" json:"storage_key,omitempty"`
	ErrorMessage     string        `db:"error_message" json:"error_message,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	CompletedAt      *time.Time    `db:"completed_at" json:"completed_at,omitempty"`
}

// ExtractedText holds the output of one successful OCR operation.
type ExtractedText struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Filename         string    `db:"filename" json:"filename"`
	OriginalFilename string    `db:"original_filename" json:"original_filename"`
	Text             string    `db:"extracted_text" json:"extracted_text"`
	Confidence       float64   `db:"confidence_score" json:"confidence_score"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Stats are the ledger counters shown on the dashboard.
type Stats struct {
	Today int64 `json:"today" db:"today"`
	Total int64 `json:"total" db:"total"`
	Saved int64 `json:"saved" db:"saved"`
}

// Artifact is a produced output file ready for delivery.
type Artifact struct {
	Path         string
	DownloadName string
	ContentType  string
	Size         int64
}

// LedgerEntry describes an operation to be appended to the ledger.
type LedgerEntry struct {
	Filename         string
	OriginalFilename string
	FileType         string
	Kind             OperationKind
	StorageKey       string
}
