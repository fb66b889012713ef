package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ncobase/cargohold/concurrency/worker"
	"github.com/ncobase/cargohold/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(ctx context.Context, _ *Event) error {
	f.calls++
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errors.New("broker down")
}

func (f *failingPublisher) Close() error { return nil }

func TestNewCarriesTraceID(t *testing.T) {
	ctx := ctxutil.SetTraceID(context.Background(), "trace-9")
	e := New(ctx, FileCreated, "file_1", "tenant_1", map[string]any{"bytes": 3})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "trace-9", e.TraceID)
	assert.Equal(t, FileCreated, e.Type)
	assert.WithinDuration(t, time.Now(), e.Timestamp, time.Second)
}

func TestDispatcherRecords(t *testing.T) {
	mem := &Memory{}
	d := NewDispatcher(mem, nil)

	d.Emit(context.Background(), New(context.Background(), FileDeleted, "file_1", "", nil))
	d.Emit(context.Background(), New(context.Background(), LinkCreated, "link_1", "", nil))

	events := mem.Events()
	require.Len(t, events, 2)
	assert.Equal(t, FileDeleted, events[0].Type)
	assert.Equal(t, LinkCreated, events[1].Type)
}

func TestDispatcherSwallowsFailuresAndIgnoresCancellation(t *testing.T) {
	pub := &failingPublisher{}
	d := NewDispatcher(pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Emit(ctx, New(ctx, FileCreated, "file_1", "", nil))

	assert.Equal(t, 1, pub.calls)
}

func TestNilPublisherIsNoop(t *testing.T) {
	d := NewDispatcher(nil, nil)
	d.Emit(context.Background(), New(context.Background(), FileCreated, "file_1", "", nil))
	assert.NoError(t, d.Close())
}

func TestDispatcherWithPoolDrainsOnClose(t *testing.T) {
	pool, err := worker.NewPool(&worker.Config{MaxWorkers: 2, QueueSize: 64}, nil)
	require.NoError(t, err)
	mem := &Memory{}
	d := NewDispatcher(mem, nil, WithPool(pool), WithTimeout(time.Second))

	ctx := ctxutil.SetTraceID(context.Background(), "trace-pool")
	for i := 0; i < 20; i++ {
		d.Emit(ctx, New(ctx, FileCreated, "file_1", "", nil))
	}
	require.NoError(t, d.Close())

	events := mem.Events()
	require.Len(t, events, 20)
	assert.Equal(t, "trace-pool", events[0].TraceID)
}

func TestDispatcherStoppedPoolPublishesInline(t *testing.T) {
	pool, err := worker.NewPool(&worker.Config{MaxWorkers: 1, QueueSize: 1}, nil)
	require.NoError(t, err)
	require.NoError(t, pool.Stop(context.Background()))

	mem := &Memory{}
	d := NewDispatcher(mem, nil, WithPool(pool))
	d.Emit(context.Background(), New(context.Background(), LinkDeleted, "link_1", "", nil))

	assert.Len(t, mem.Events(), 1)
}

func TestRabbitMQWithoutConnection(t *testing.T) {
	r := NewRabbitMQ(nil, "cargohold.events")
	assert.False(t, r.IsConnected())
	err := r.Publish(context.Background(), New(context.Background(), FileCreated, "file_1", "", nil))
	assert.Error(t, err)
	assert.NoError(t, r.Close())
}
