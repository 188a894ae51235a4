// Package storage selects the cloud object store for uploads.
package storage

import (
	"context"
	"fmt"

	"smartconv/internal/config"
	"smartconv/internal/domain"
	"smartconv/internal/port"
	"smartconv/internal/storage/gcs"
	"smartconv/internal/storage/minio"
	"smartconv/internal/storage/s3"
)

// New builds the configured ObjectStorage. Provider "none" returns an
// Unconfigured store and no error. A provider that cannot be constructed
// returns an Unconfigured store together with the reason.
func New(ctx context.Context, cfg *config.StorageConfig) (port.ObjectStorage, error) {
	var (
		store port.ObjectStorage
		err   error
	)
	switch cfg.Provider {
	case "", "none":
		return &Unconfigured{}, nil
	case "s3":
		store, err = s3.NewS3Client(ctx, cfg)
	case "gcs":
		store, err = gcs.NewGCSClient(ctx, cfg)
	case "minio":
		store, err = minio.NewMinioClient(ctx, cfg)
	default:
		err = fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
	if err != nil {
		return &Unconfigured{Provider: cfg.Provider}, fmt.Errorf("storage.New: %w", err)
	}
	return store, nil
}

// Unconfigured is the placeholder used when no usable cloud store exists.
type Unconfigured struct {
	Provider string
}

func (u *Unconfigured) IsConfigured() bool { return false }

func (u *Unconfigured) Upload(context.Context, port.UploadInput) (*port.UploadOutput, error) {
	return nil, domain.ErrStorageUnavailable
}

func (u *Unconfigured) Delete(context.Context, string, string) error {
	return domain.ErrStorageUnavailable
}

func (u *Unconfigured) GetPresignedURL(context.Context, string, string, int64) (string, error) {
	return "", domain.ErrStorageUnavailable
}
