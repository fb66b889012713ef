// Package concurrency bounds how many operations of one kind run at once.
package concurrency

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrLimited is returned by Acquire when no slot freed up in time.
var ErrLimited = errors.New("concurrency limit reached")

// Limiter is a counting semaphore with usage counters.
type Limiter struct {
	max       int32
	current   atomic.Int32
	semaphore chan struct{}

	total    atomic.Int64
	rejected atomic.Int64
}

// NewLimiter creates a limiter allowing up to max concurrent holders.
//
// Usage:
//
//	l, err := concurrency.NewLimiter(16)
//	if err != nil {
//	    return err
//	}
//	if err := l.Acquire(ctx); err != nil {
//	    return err
//	}
//	defer l.Release()
func NewLimiter(max int32) (*Limiter, error) {
	if max <= 0 {
		return nil, fmt.Errorf("max concurrent must be positive, got: %d", max)
	}
	return &Limiter{
		max:       max,
		semaphore: make(chan struct{}, max),
	}, nil
}

// Acquire waits for a slot until ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.semaphore <- struct{}{}:
		l.current.Add(1)
		l.total.Add(1)
		return nil
	case <-ctx.Done():
		l.rejected.Add(1)
		return fmt.Errorf("%w: %w", ErrLimited, ctx.Err())
	}
}

// TryAcquire takes a slot without blocking.
func (l *Limiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.current.Add(1)
		l.total.Add(1)
		return true
	default:
		l.rejected.Add(1)
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *Limiter) Release() {
	select {
	case <-l.semaphore:
		l.current.Add(-1)
	default:
		panic("concurrency: release without acquire")
	}
}

// Available returns the number of free slots.
func (l *Limiter) Available() int32 {
	return l.max - l.current.Load()
}

// Stats returns usage counters.
func (l *Limiter) Stats() map[string]int64 {
	return map[string]int64{
		"current":  int64(l.current.Load()),
		"total":    l.total.Load(),
		"rejected": l.rejected.Load(),
	}
}
