// Package worker runs background tasks on a fixed set of goroutines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrQueueFull = errors.New("task queue is full")
	ErrStopped   = errors.New("worker pool stopped")
)

// Task is one unit of background work. ctx carries the task timeout.
type Task func(ctx context.Context) error

// Config represents pool configuration
type Config struct {
	MaxWorkers  int           // number of worker goroutines
	QueueSize   int           // buffered tasks before Submit fails
	TaskTimeout time.Duration // timeout for a single task, 0 for none
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxWorkers:  4,
		QueueSize:   1024,
		TaskTimeout: 5 * time.Second,
	}
}

// Validate validates configuration
func (cfg *Config) Validate() error {
	if cfg.MaxWorkers < 1 {
		return errors.New("max workers must be greater than 0")
	}
	if cfg.QueueSize < 1 {
		return errors.New("queue size must be greater than 0")
	}
	if cfg.TaskTimeout < 0 {
		return errors.New("task timeout must be greater than or equal to 0")
	}
	return nil
}

// Metrics tracks pool's operational metrics
type Metrics struct {
	ActiveWorkers  atomic.Int64
	PendingTasks   atomic.Int64
	CompletedTasks atomic.Int64
	FailedTasks    atomic.Int64
}

// Pool executes submitted tasks. Stop drains what was queued before it.
type Pool struct {
	cfg     Config
	onError func(error)

	mu      sync.RWMutex
	stopped bool
	tasks   chan Task
	wg      sync.WaitGroup

	metrics Metrics
}

// NewPool creates and starts a pool. onError, if set, receives every task
// failure including recovered panics.
func NewPool(cfg *Config, onError func(error)) (*Pool, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pool{
		cfg:     *cfg,
		onError: onError,
		tasks:   make(chan Task, cfg.QueueSize),
	}
	for i := 0; i < cfg.MaxWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p, nil
}

// Submit queues a task without blocking.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.tasks <- task:
		p.metrics.PendingTasks.Add(1)
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new tasks and waits for queued ones until ctx is done.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker pool: %d tasks abandoned: %w", p.metrics.PendingTasks.Load(), ctx.Err())
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	p.metrics.PendingTasks.Add(-1)
	p.metrics.ActiveWorkers.Add(1)
	defer p.metrics.ActiveWorkers.Add(-1)

	ctx := context.Background()
	if p.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.TaskTimeout)
		defer cancel()
	}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("worker: task panicked: %v", r)
			}
		}()
		return task(ctx)
	}()

	if err != nil {
		p.metrics.FailedTasks.Add(1)
		if p.onError != nil {
			p.onError(err)
		}
		return
	}
	p.metrics.CompletedTasks.Add(1)
}

// GetMetrics returns the current metrics
func (p *Pool) GetMetrics() map[string]int64 {
	return map[string]int64{
		"active_workers":  p.metrics.ActiveWorkers.Load(),
		"pending_tasks":   p.metrics.PendingTasks.Load(),
		"completed_tasks": p.metrics.CompletedTasks.Load(),
		"failed_tasks":    p.metrics.FailedTasks.Load(),
	}
}

// IsIdle returns whether no task is queued or running
func (p *Pool) IsIdle() bool {
	return p.metrics.ActiveWorkers.Load() == 0 && p.metrics.PendingTasks.Load() == 0
}
