package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartconv/internal/config"
	"smartconv/internal/domain"
	"smartconv/internal/port"
	"smartconv/internal/storage"
)

func TestNew_NoneIsUnconfigured(t *testing.T) {
	s, err := storage.New(context.Background(), &config.StorageConfig{Provider: "none"})

	require.NoError(t, err)
	assert.False(t, s.IsConfigured())
	_, err = s.Upload(context.Background(), port.UploadInput{})
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
}

func TestNew_UnknownProviderDegrades(t *testing.T) {
	s, err := storage.New(context.Background(), &config.StorageConfig{Provider: "ftp"})

	assert.Error(t, err)
	require.NotNil(t, s)
	assert.False(t, s.IsConfigured())
}

func TestNew_MinioWithoutEndpointDegrades(t *testing.T) {
	s, err := storage.New(context.Background(), &config.StorageConfig{Provider: "minio", Bucket: "b"})

	assert.ErrorContains(t, err, "endpoint is required")
	assert.False(t, s.IsConfigured())
}

func TestNew_S3StaticCredentials(t *testing.T) {
	s, err := storage.New(context.Background(), &config.StorageConfig{
		Provider:  "s3",
		Bucket:    "uploads",
		Region:    "us-east-1",
		AccessKey: "AKIATEST",
		SecretKey: "secret",
		Endpoint:  "http://localhost:9000",
	})

	require.NoError(t, err)
	assert.True(t, s.IsConfigured())
}

func TestUnconfigured_AllOperationsFail(t *testing.T) {
	u := &storage.Unconfigured{}
	ctx := context.Background()

	assert.ErrorIs(t, u.Delete(ctx, "b", "k"), domain.ErrStorageUnavailable)
	_, err := u.GetPresignedURL(ctx, "b", "k", 60)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
