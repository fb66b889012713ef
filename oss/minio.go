package oss

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioAdapter struct {
	client  *minio.Client
	bucket  string
	timeout time.Duration
}

// NewMinioAdapter connects to cfg.Endpoint, which may carry an http:// or
// https:// scheme selecting TLS.
func NewMinioAdapter(cfg *Config) (*MinioAdapter, error) {
	endpoint, secure := splitEndpoint(cfg.Endpoint)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ID, cfg.Secret, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinioAdapter{
		client:  client,
		bucket:  cfg.Bucket,
		timeout: cfg.Timeout,
	}, nil
}

func splitEndpoint(endpoint string) (host string, secure bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), false
	default:
		return strings.TrimSuffix(endpoint, "/"), false
	}
}

func (a *MinioAdapter) Put(ctx context.Context, key string, r io.Reader, size int64, ct string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	_, err := a.client.PutObject(ctx, a.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType(key, ct),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// Get stats the object first so that a missing key is reported before any
// bytes are streamed.
func (a *MinioAdapter) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)

	object, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	if _, err := object.Stat(); err != nil {
		_ = object.Close()
		cancel()
		if isMinioNotFound(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return &cancelOnClose{ReadCloser: object, cancel: cancel}, nil
}

func (a *MinioAdapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.client.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (a *MinioAdapter) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	_, err := a.client.StatObject(ctx, a.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isMinioNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

func (a *MinioAdapter) Endpoint() string {
	return a.client.EndpointURL().String()
}

func isMinioNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

type minioDriver struct{}

func (d *minioDriver) Name() string {
	return "minio"
}

func (d *minioDriver) Connect(_ context.Context, cfg *Config) (Interface, error) {
	return NewMinioAdapter(cfg)
}

func init() {
	RegisterDriver(&minioDriver{})
}
