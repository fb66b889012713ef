// Package oss provides the object storage abstraction holding file
// contents. Providers: local filesystem, AWS S3 (and S3-compatible
// services), MinIO, and a plain HTTP bucket API.
//
// Drivers register themselves via init() and are selected by
// Config.Provider at runtime. Remote providers are wrapped in a circuit
// breaker when Config.Breaker is set.
package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ErrObjectNotFound is returned by Get when the key holds no object.
var ErrObjectNotFound = errors.New("object not found")

// Interface defines unified object storage operations.
type Interface interface {
	// Put uploads size bytes from r under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get returns a stream of the object. Caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Endpoint returns the storage service endpoint.
	Endpoint() string
}

// Config holds configuration for object storage providers.
type Config struct {
	// Provider is one of filesystem, s3, minio, http.
	Provider string `json:"provider" yaml:"provider"`
	ID       string `json:"id" yaml:"id"`
	Secret   string `json:"secret" yaml:"secret"`
	Region   string `json:"region" yaml:"region"`

	// Bucket is the bucket name, or the base folder for filesystem.
	Bucket string `json:"bucket" yaml:"bucket"`

	// Endpoint is required for minio and http.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Timeout bounds each request of a remote provider.
	Timeout time.Duration  `json:"timeout" yaml:"timeout"`
	Breaker *BreakerConfig `json:"breaker,omitempty" yaml:"breaker,omitempty"`
}

// Validate checks if the configuration is valid and sets default values where applicable.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return errors.New("storage provider is required")
	}

	switch c.Provider {
	case "filesystem", "local":
		if c.Bucket == "" {
			c.Bucket = "./uploads"
		}
	case "s3", "aws-s3", "aws":
		if c.ID == "" || c.Secret == "" || c.Bucket == "" {
			return errors.New("id, secret, and bucket are required for AWS S3")
		}
		if c.Region == "" {
			c.Region = "us-east-1"
		}
	case "minio":
		if c.ID == "" || c.Secret == "" || c.Bucket == "" || c.Endpoint == "" {
			return errors.New("id, secret, bucket, and endpoint are required for MinIO")
		}
	case "http":
		if c.Bucket == "" || c.Endpoint == "" {
			return errors.New("bucket and endpoint are required for the HTTP provider")
		}
	default:
		return fmt.Errorf("unsupported storage provider: %s", c.Provider)
	}

	return nil
}

// Driver defines the storage driver interface.
type Driver interface {
	// Name returns the driver name.
	Name() string

	// Connect establishes a connection to the storage service.
	Connect(ctx context.Context, cfg *Config) (Interface, error)
}

var (
	driverRegistry   = make(map[string]Driver)
	driverRegistryMu sync.RWMutex

	aliases = map[string]string{"local": "filesystem", "aws-s3": "s3", "aws": "s3"}
)

// RegisterDriver registers a storage driver.
// Typically called in the driver's init function.
func RegisterDriver(driver Driver) {
	driverRegistryMu.Lock()
	defer driverRegistryMu.Unlock()

	name := driver.Name()
	if _, exists := driverRegistry[name]; exists {
		panic(fmt.Sprintf("oss driver %s already registered", name))
	}
	driverRegistry[name] = driver
}

// GetDriver retrieves a driver by name or alias.
func GetDriver(name string) (Driver, error) {
	driverRegistryMu.RLock()
	defer driverRegistryMu.RUnlock()

	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	driver, ok := driverRegistry[name]
	if !ok {
		return nil, fmt.Errorf("oss driver %s not found", name)
	}
	return driver, nil
}

// Drivers returns the registered driver names.
func Drivers() []string {
	driverRegistryMu.RLock()
	defer driverRegistryMu.RUnlock()

	names := make([]string, 0, len(driverRegistry))
	for name := range driverRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStorage creates a storage instance based on the provided configuration.
func NewStorage(ctx context.Context, c *Config) (Interface, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}

	driver, err := GetDriver(c.Provider)
	if err != nil {
		return nil, err
	}

	storage, err := driver.Connect(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect with %s driver: %w", c.Provider, err)
	}

	if c.Breaker != nil && driver.Name() != "filesystem" {
		storage = WithBreaker(storage, driver.Name(), c.Breaker)
	}
	return storage, nil
}

// contentType guesses the MIME type of key from its extension.
func contentType(key, given string) string {
	if given != "" {
		return given
	}
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// withTimeout bounds ctx by d when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// cancelOnClose releases a request context once the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
