package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("storage unavailable")

// BreakerConfig tunes the circuit breaker around a remote provider.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `json:"max_requests" yaml:"max_requests"`
	// Interval clears the closed-state counts; zero never clears.
	Interval time.Duration `json:"interval" yaml:"interval"`
	// Timeout is how long the breaker stays open.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// Failures is the number of consecutive failures that opens the breaker.
	Failures uint32 `json:"failures" yaml:"failures"`
}

type breakerStorage struct {
	next Interface
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps s so that consecutive failures open a circuit and fail
// fast with ErrUnavailable. A missing object counts as success.
func WithBreaker(s Interface, name string, cfg *BreakerConfig) Interface {
	failures := cfg.Failures
	if failures == 0 {
		failures = 5
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "oss:" + name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
	})
	return &breakerStorage{next: s, cb: cb}
}

func (b *breakerStorage) run(fn func() error) error {
	var passthrough error
	_, err := b.cb.Execute(func() (interface{}, error) {
		err := fn()
		if errors.Is(err, ErrObjectNotFound) {
			passthrough = err
			return nil, nil
		}
		return nil, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err != nil {
		return err
	}
	return passthrough
}

func (b *breakerStorage) Put(ctx context.Context, key string, r io.Reader, size int64, ct string) error {
	return b.run(func() error { return b.next.Put(ctx, key, r, size, ct) })
}

func (b *breakerStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	err := b.run(func() error {
		var err error
		rc, err = b.next.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (b *breakerStorage) Delete(ctx context.Context, key string) error {
	return b.run(func() error { return b.next.Delete(ctx, key) })
}

func (b *breakerStorage) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	err := b.run(func() error {
		var err error
		ok, err = b.next.Exists(ctx, key)
		return err
	})
	return ok, err
}

func (b *breakerStorage) Endpoint() string { return b.next.Endpoint() }

// State reports the breaker state ("closed", "half-open", "open").
func (b *breakerStorage) State() string { return b.cb.State().String() }
