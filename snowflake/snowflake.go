package snowflake

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// Epoch is the custom epoch in Unix milliseconds (2022-01-01T00:00:00Z).
	Epoch int64 = 1640995200000

	WorkerIDBits     = 5
	DatacenterIDBits = 5
	SequenceBits     = 12

	MaxWorkerID     int64 = (1 << WorkerIDBits) - 1
	MaxDatacenterID int64 = (1 << DatacenterIDBits) - 1
	MaxSequence     int64 = (1 << SequenceBits) - 1

	workerIDShift     = SequenceBits
	datacenterIDShift = SequenceBits + WorkerIDBits
	timestampShift    = SequenceBits + WorkerIDBits + DatacenterIDBits
)

var (
	// ErrConfig is returned by New for out-of-range worker or datacenter ids.
	ErrConfig = errors.New("snowflake: invalid configuration")
	// ErrClockRegression is returned when the clock is behind the last issued key.
	ErrClockRegression = errors.New("snowflake: clock moved backwards")
)

// NowMs returns current time in milliseconds since Unix epoch.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Generator mints keys for one (worker, datacenter) pair. It is safe for
// concurrent use; one generation runs at a time.
type Generator struct {
	workerID     int64
	datacenterID int64

	mu            sync.Mutex
	sequence      int64
	lastTimestamp int64
}

// New creates a Generator for the given worker and datacenter.
func New(workerID, datacenterID int64) (*Generator, error) {
	if workerID < 0 || workerID > MaxWorkerID {
		return nil, fmt.Errorf("%w: worker id must be between 0 and %d, got %d", ErrConfig, MaxWorkerID, workerID)
	}
	if datacenterID < 0 || datacenterID > MaxDatacenterID {
		return nil, fmt.Errorf("%w: datacenter id must be between 0 and %d, got %d", ErrConfig, MaxDatacenterID, datacenterID)
	}
	return &Generator{workerID: workerID, datacenterID: datacenterID}, nil
}

// WorkerID returns the configured worker id.
func (g *Generator) WorkerID() int64 { return g.workerID }

// DatacenterID returns the configured datacenter id.
func (g *Generator) DatacenterID() int64 { return g.datacenterID }

// Generate returns the next key.
func (g *Generator) Generate() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next()
}

// GenerateBatch returns n successive keys minted without releasing the lock.
func (g *Generator) GenerateBatch(n int) ([]int64, error) {
	if n <= 0 {
		return nil, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	keys := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		key, err := g.next()
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// next must be called with g.mu held.
func (g *Generator) next() (int64, error) {
	ts := NowMs()
	if ts < g.lastTimestamp {
		return 0, fmt.Errorf("%w: refusing to generate id for %dms", ErrClockRegression, g.lastTimestamp-ts)
	}

	if ts == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & MaxSequence
		if g.sequence == 0 {
			ts = waitNextMillis(g.lastTimestamp)
		}
	} else {
		g.sequence = 0
	}

	g.lastTimestamp = ts
	return compose(ts, g.datacenterID, g.workerID, g.sequence), nil
}

// waitNextMillis spins until the clock passes last.
func waitNextMillis(last int64) int64 {
	ts := NowMs()
	for ts <= last {
		ts = NowMs()
	}
	return ts
}

func compose(ts, datacenterID, workerID, sequence int64) int64 {
	return (ts-Epoch)<<timestampShift |
		datacenterID<<datacenterIDShift |
		workerID<<workerIDShift |
		sequence
}

// ID is a decomposed key.
type ID struct {
	Key          int64 `json:"key"`
	Timestamp    int64 `json:"timestamp"` // Unix ms
	DatacenterID int64 `json:"datacenter_id"`
	WorkerID     int64 `json:"worker_id"`
	Sequence     int64 `json:"sequence"`
}

// Time returns the key's timestamp.
func (id ID) Time() time.Time { return time.UnixMilli(id.Timestamp) }

// Decompose splits a key into its fields.
func Decompose(key int64) ID {
	return ID{
		Key:          key,
		Timestamp:    (key >> timestampShift) + Epoch,
		DatacenterID: (key >> datacenterIDShift) & MaxDatacenterID,
		WorkerID:     (key >> workerIDShift) & MaxWorkerID,
		Sequence:     key & MaxSequence,
	}
}
