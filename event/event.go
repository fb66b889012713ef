// Package event publishes file and link lifecycle events.
package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/cargohold/concurrency/worker"
	"github.com/ncobase/cargohold/ctxutil"
	"github.com/ncobase/cargohold/logging/logger"
)

// Type is the event name, also used as the routing key.
type Type string

const (
	FileCreated Type = "file.created"
	FileUpdated Type = "file.updated"
	FileDeleted Type = "file.deleted"
	LinkCreated Type = "link.created"
	LinkDeleted Type = "link.deleted"
)

// Event is a lifecycle notification about one resource.
type Event struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	ResourceID string         `json:"resource_id"`
	TenantID   string         `json:"tenant_id,omitempty"`
	TraceID    string         `json:"trace_id,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// New builds an event stamped with a fresh id, the current time and the
// trace id carried by ctx.
func New(ctx context.Context, typ Type, resourceID, tenantID string, payload map[string]any) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       typ,
		ResourceID: resourceID,
		TenantID:   tenantID,
		TraceID:    ctxutil.GetTraceID(ctx),
		Payload:    payload,
		Timestamp:  time.Now().UTC(),
	}
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, e *Event) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, *Event) error { return nil }
func (Noop) Close() error                          { return nil }

// Memory records published events. Useful in tests and local runs.
type Memory struct {
	mu     sync.Mutex
	events []*Event
}

func (m *Memory) Publish(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) Close() error { return nil }

// Events returns a copy of the recorded events.
func (m *Memory) Events() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Event(nil), m.events...)
}

// Dispatcher publishes on behalf of request handlers. Failures are logged
// and never returned; the request that caused the event has already
// committed.
type Dispatcher struct {
	pub     Publisher
	logger  *logger.Logger
	pool    *worker.Pool
	timeout time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPool publishes on p instead of the caller's goroutine. When the queue
// is full the event is published inline.
func WithPool(p *worker.Pool) Option {
	return func(d *Dispatcher) { d.pool = p }
}

// WithTimeout bounds a single publish.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

// NewDispatcher wraps pub. A nil pub behaves as Noop.
func NewDispatcher(pub Publisher, log *logger.Logger, opts ...Option) *Dispatcher {
	if pub == nil {
		pub = Noop{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	d := &Dispatcher{pub: pub, logger: log}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Emit publishes e detached from ctx's cancellation.
func (d *Dispatcher) Emit(ctx context.Context, e *Event) {
	if d.pool != nil {
		err := d.pool.Submit(func(context.Context) error { return d.publish(ctx, e) })
		if err == nil {
			return
		}
		d.logger.Warn(ctx, "event queue rejected event, publishing inline", "type", e.Type, "error", err)
	}
	_ = d.publish(ctx, e)
}

func (d *Dispatcher) publish(ctx context.Context, e *Event) error {
	actx, cancel := ctxutil.WithAsyncContext(ctx, d.timeout)
	defer cancel()

	if err := d.pub.Publish(actx, e); err != nil {
		d.logger.Warn(ctx, "failed to publish event", "type", e.Type, "resource_id", e.ResourceID, "error", err)
		return err
	}
	return nil
}

// Close drains queued events, then closes the underlying publisher.
func (d *Dispatcher) Close() error {
	var errs []error
	if d.pool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := d.pool.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := d.pub.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

const drainTimeout = 10 * time.Second
