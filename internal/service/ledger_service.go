package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smartconv/internal/config"
	"smartconv/internal/domain"
	"smartconv/internal/export"
	"smartconv/internal/linktoken"
	"smartconv/internal/port"
)

const maxErrorMessage = 1000

// DownloadLink points at a record's artifact.
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Cloud     bool      `json:"cloud"`
}

// ExportFile is an encoded history export.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// LedgerService appends to and reads from the conversion ledger.
type LedgerService interface {
	// RecordCompleted appends a completed row after confirming the artifact
	// exists and is non-empty.
	RecordCompleted(ctx context.Context, entry domain.LedgerEntry, artifactPath string) (*domain.ConversionRecord, error)
	// RecordFailed appends a failed row carrying cause's message.
	RecordFailed(ctx context.Context, entry domain.LedgerEntry, cause error) (*domain.ConversionRecord, error)
	Stats(ctx context.Context, asOf time.Time) (*domain.Stats, error)
	History(ctx context.Context, offset, limit int) ([]domain.ConversionRecord, int, error)
	Export(ctx context.Context, format domain.ExportFormat) (*ExportFile, error)
	DownloadLink(ctx context.Context, id uuid.UUID) (*DownloadLink, error)
	ResolveDownload(ctx context.Context, token string) (*domain.Artifact, error)
}

type ledgerService struct {
	repo    port.ConversionRepository
	storage port.ObjectStorage
	signer  linktoken.Signer
	files   config.FilesConfig
	bucket  config.StorageConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewLedgerService creates a new LedgerService implementation.
func NewLedgerService(
	repo port.ConversionRepository,
	storage port.ObjectStorage,
	signer linktoken.Signer,
	files config.FilesConfig,
	storageCfg config.StorageConfig,
	logger *zap.Logger,
) LedgerService {
	return &ledgerService{
		repo:    repo,
		storage: storage,
		signer:  signer,
		files:   files,
		bucket:  storageCfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *ledgerService) RecordCompleted(ctx context.Context, entry domain.LedgerEntry, artifactPath string) (*domain.ConversionRecord, error) {
	info, err := os.Stat(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("%w: artifact %s: %v", domain.ErrPersistence, filepath.Base(artifactPath), err)
	}
	if info.IsDir() || info.Size() == 0 {
		return nil, fmt.Errorf("%w: artifact %s is empty", domain.ErrPersistence, filepath.Base(artifactPath))
	}

	now := s.now().UTC()
	rec := &domain.ConversionRecord{
		Filename:         entry.Filename,
		OriginalFilename: entry.OriginalFilename,
		FileType:         entry.FileType,
		ConversionType:   entry.Kind,
		FileSize:         info.Size(),
		Status:           domain.StatusCompleted,
		StorageKey:       entry.StorageKey,
		CreatedAt:        now,
		CompletedAt:      &now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return rec, nil
}

func (s *ledgerService) RecordFailed(ctx context.Context, entry domain.LedgerEntry, cause error) (*domain.ConversionRecord, error) {
	rec := &domain.ConversionRecord{
		Filename:         entry.Filename,
		OriginalFilename: entry.OriginalFilename,
		FileType:         entry.FileType,
		ConversionType:   entry.Kind,
		Status:           domain.StatusFailed,
		ErrorMessage:     failureMessage(cause),
		CreatedAt:        s.now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return rec, nil
}

func failureMessage(cause error) string {
	msg := "operation failed"
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	if len(msg) > maxErrorMessage {
		// Cut on a rune boundary so the column stays valid UTF-8.
		n := maxErrorMessage
		for n > 0 && !utf8.RuneStart(msg[n]) {
			n--
		}
		msg = msg[:n]
	}
	return msg
}

func (s *ledgerService) Stats(ctx context.Context, asOf time.Time) (*domain.Stats, error) {
	asOf = asOf.UTC()
	dayStart := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.Stats(ctx, dayStart, dayStart.Add(24*time.Hour))
}

func (s *ledgerService) History(ctx context.Context, offset, limit int) ([]domain.ConversionRecord, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *ledgerService) Export(ctx context.Context, format domain.ExportFormat) (*ExportFile, error) {
	enc, err := export.New(format)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, records); err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}
	return &ExportFile{
		Filename:    export.BuildFilename("conversion_history", enc, s.now()),
		ContentType: enc.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (s *ledgerService) DownloadLink(ctx context.Context, id uuid.UUID) (*DownloadLink, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != domain.StatusCompleted {
		return nil, domain.ErrNotFound
	}

	if rec.StorageKey != "" && s.storage.IsConfigured() {
		url, err := s.storage.GetPresignedURL(ctx, s.bucket.Bucket, rec.StorageKey, s.bucket.PresignExpiry)
		if err == nil {
			return &DownloadLink{
				URL:       url,
				ExpiresAt: s.now().Add(time.Duration(s.bucket.PresignExpiry) * time.Second),
				Cloud:     true,
			}, nil
		}
		// The local copy is kept for cloud uploads, so a local link still works.
		s.logger.Warn("ledgerService.DownloadLink: presign failed, using local copy",
			zap.String("record_id", id.String()), zap.Error(err))
	}

	loc := artifactLocation(rec.ConversionType)
	if _, err := os.Stat(filepath.Join(s.dirFor(loc), filepath.Base(rec.Filename))); err != nil {
		return nil, domain.ErrNotFound
	}
	link, err := s.signer.Issue(rec.ID, loc, rec.Filename)
	if err != nil {
		return nil, err
	}
	return &DownloadLink{URL: "/api/v1/downloads/" + link.Token, ExpiresAt: link.ExpiresAt}, nil
}

func (s *ledgerService) ResolveDownload(_ context.Context, token string) (*domain.Artifact, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(s.dirFor(claims.Location), claims.Filename)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resolving download: %w", err)
	}
	return &domain.Artifact{
		Path:         path,
		DownloadName: claims.Filename,
		ContentType:  domain.ContentTypeFor(claims.Filename),
		Size:         info.Size(),
	}, nil
}

// artifactLocation reports where the file named by a record of kind lives.
func artifactLocation(kind domain.OperationKind) linktoken.Location {
	switch kind {
	case domain.OpUpload, domain.OpCloudUpload, domain.OpLocalUpload, domain.OpOCRExtraction:
		return linktoken.LocationUploads
	default:
		return linktoken.LocationProcessed
	}
}

func (s *ledgerService) dirFor(loc linktoken.Location) string {
	if loc == linktoken.LocationUploads {
		return s.files.UploadDir
	}
	return s.files.ProcessedDir
}

// recordCompleted appends a completed row; ledger failures are logged and
// never change the operation's outcome.
func recordCompleted(ctx context.Context, ledger LedgerService, logger *zap.Logger, entry domain.LedgerEntry, path string) {
	if _, err := ledger.RecordCompleted(ctx, entry, path); err != nil {
		logger.Error("ledger: recording completed operation failed",
			zap.String("kind", string(entry.Kind)), zap.String("filename", entry.Filename), zap.Error(err))
	}
}

func recordFailed(ctx context.Context, ledger LedgerService, logger *zap.Logger, entry domain.LedgerEntry, cause error) {
	if _, err := ledger.RecordFailed(ctx, entry, cause); err != nil {
		logger.Error("ledger: recording failed operation failed",
			zap.String("kind", string(entry.Kind)), zap.String("filename", entry.Filename), zap.Error(err))
	}
}
