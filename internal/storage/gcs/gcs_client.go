package gcs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"smartconv/internal/config"
	"smartconv/internal/port"
)

type gcsClient struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a Google Cloud Storage backed ObjectStorage.
func NewGCSClient(ctx context.Context, cfg *config.StorageConfig) (port.ObjectStorage, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", err)
	}
	return &gcsClient{client: client, bucket: cfg.Bucket}, nil
}

func (c *gcsClient) IsConfigured() bool {
	return c.client != nil && c.bucket != ""
}

func (c *gcsClient) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	obj := c.client.Bucket(input.Bucket).Object(input.Key)
	w := obj.NewWriter(ctx)
	w.ContentType = input.ContentType

	if _, err := io.Copy(w, input.Body); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("gcs upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gcs upload finalize: %w", err)
	}

	attrs := w.Attrs()
	etag := ""
	if attrs != nil {
		etag = attrs.Etag
	}
	return &port.UploadOutput{
		Location: fmt.Sprintf("gs://%s/%s", input.Bucket, input.Key),
		ETag:     etag,
	}, nil
}

func (c *gcsClient) Delete(ctx context.Context, bucket, key string) error {
	if err := c.client.Bucket(bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("gcs delete: %w", err)
	}
	return nil
}

func (c *gcsClient) GetPresignedURL(_ context.Context, bucket, key string, expirySeconds int64) (string, error) {
	url, err := c.client.Bucket(bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(time.Duration(expirySeconds) * time.Second),
	})
	if err != nil {
		return "", fmt.Errorf("gcs sign url: %w", err)
	}
	return url, nil
}
