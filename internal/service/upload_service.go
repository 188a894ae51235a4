package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"smartconv/internal/config"
	"smartconv/internal/domain"
	"smartconv/internal/port"
)

// UploadResult describes a stored upload.
type UploadResult struct {
	Filename         string               `json:"filename"`
	OriginalFilename string               `json:"original_filename"`
	Kind             domain.OperationKind `json:"kind"`
	Size             int64                `json:"size"`
	StorageKey       string               `json:"storage_key,omitempty"`
	Warning          string               `json:"warning,omitempty"`
}

// UploadService stores uploads locally and, when configured, in object storage.
type UploadService interface {
	Upload(ctx context.Context, in FileInput) (*UploadResult, error)
}

type uploadService struct {
	ledger     LedgerService
	storage    port.ObjectStorage
	files      config.FilesConfig
	storageCfg config.StorageConfig
	logger     *zap.Logger
}

// NewUploadService creates a new UploadService implementation.
func NewUploadService(
	ledger LedgerService,
	storage port.ObjectStorage,
	files config.FilesConfig,
	storageCfg config.StorageConfig,
	logger *zap.Logger,
) UploadService {
	return &uploadService{
		ledger:     ledger,
		storage:    storage,
		files:      files,
		storageCfg: storageCfg,
		logger:     logger,
	}
}

func (s *uploadService) Upload(ctx context.Context, in FileInput) (*UploadResult, error) {
	ext, err := requireExt(in.Filename, domain.AllowedExtensions)
	if err != nil {
		return nil, err
	}
	if in.Size > s.files.MaxUploadBytes() {
		return nil, domain.ErrFileTooLarge
	}

	path, err := saveUpload(s.files.UploadDir, in)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)

	entry := domain.LedgerEntry{
		Filename:         name,
		OriginalFilename: in.Filename,
		FileType:         ext,
		Kind:             domain.OpUpload,
	}
	result := &UploadResult{
		Filename:         name,
		OriginalFilename: in.Filename,
		Kind:             domain.OpUpload,
		Size:             fileSize(path),
	}

	if s.storageCfg.Enabled() {
		if err := s.uploadToCloud(ctx, path, name); err != nil {
			s.logger.Warn("uploadService.Upload: cloud upload unavailable, kept local copy",
				zap.String("filename", name), zap.Error(err))
			entry.Kind = domain.OpLocalUpload
			result.Warning = "Cloud storage is unavailable. The file was saved locally."
		} else {
			entry.Kind = domain.OpCloudUpload
			entry.StorageKey = name
			result.StorageKey = name
		}
		result.Kind = entry.Kind
	}

	s.logger.Info("uploadService.Upload: stored upload",
		zap.String("filename", name), zap.String("kind", string(entry.Kind)), zap.Int64("size", result.Size))
	if _, err := s.ledger.RecordCompleted(ctx, entry, path); err != nil {
		s.logger.Error("ledger: recording completed operation failed",
			zap.String("kind", string(entry.Kind)), zap.String("filename", name), zap.Error(err))
		// The bucket must not hold objects the ledger cannot account for.
		if entry.Kind == domain.OpCloudUpload && s.removeFromCloud(ctx, name) {
			result.Kind = domain.OpLocalUpload
			result.StorageKey = ""
			result.Warning = "Cloud storage is unavailable. The file was saved locally."
		}
	}
	return result, nil
}

// removeFromCloud deletes an uploaded object and reports whether it is gone.
func (s *uploadService) removeFromCloud(ctx context.Context, key string) bool {
	if err := s.storage.Delete(ctx, s.storageCfg.Bucket, key); err != nil {
		s.logger.Warn("uploadService.removeFromCloud: object left in bucket",
			zap.String("bucket", s.storageCfg.Bucket), zap.String("key", key), zap.Error(err))
		return false
	}
	s.logger.Info("uploadService.removeFromCloud: removed unrecorded object",
		zap.String("bucket", s.storageCfg.Bucket), zap.String("key", key))
	return true
}

func (s *uploadService) uploadToCloud(ctx context.Context, path, key string) error {
	if !s.storage.IsConfigured() {
		return domain.ErrStorageUnavailable
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.storageCfg.Bucket,
		Key:         key,
		Body:        f,
		ContentType: domain.ContentTypeFor(key),
		Size:        fileSize(path),
	}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return nil
}

// saveUpload writes in to dir under a unique stored name.
func saveUpload(dir string, in FileInput) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	return writeFile(filepath.Join(dir, storedName(in.Filename)), in.Content)
}
