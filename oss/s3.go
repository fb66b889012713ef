package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Adapter implements the Interface for AWS S3 storage.
// Supports both AWS S3 and S3-compatible services with custom endpoints.
type S3Adapter struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
	timeout  time.Duration
}

// NewS3Adapter creates a new S3 storage adapter.
// For S3-compatible services, set cfg.Endpoint; path-style addressing is used.
func NewS3Adapter(ctx context.Context, cfg *Config) (*S3Adapter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.ID,
			cfg.Secret,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Adapter{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
	}, nil
}

// Put uploads an object to S3 from the given reader.
func (a *S3Adapter) Put(ctx context.Context, key string, r io.Reader, size int64, ct string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType(key, ct)),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := a.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// Get returns a readable stream for the S3 object.
func (a *S3Adapter) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)

	resp, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		cancel()
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

// Delete removes an object from the S3 bucket.
func (a *S3Adapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists checks if an object exists in the S3 bucket.
func (a *S3Adapter) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NotFound
		if errors.As(err, &nsk) {
			return false, nil
		}
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// Endpoint returns the S3 endpoint URL.
func (a *S3Adapter) Endpoint() string {
	if a.endpoint != "" {
		return a.endpoint
	}
	return fmt.Sprintf("https://s3.%s.amazonaws.com", a.region)
}

type s3Driver struct{}

func (d *s3Driver) Name() string {
	return "s3"
}

func (d *s3Driver) Connect(ctx context.Context, cfg *Config) (Interface, error) {
	return NewS3Adapter(ctx, cfg)
}

func init() {
	RegisterDriver(&s3Driver{})
}
