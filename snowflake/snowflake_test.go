package snowflake

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ncobase/cargohold/consts"
	"github.com/ncobase/cargohold/nanoid"
)

func restoreClock() { NowMs = func() int64 { return time.Now().UnixMilli() } }

func TestNewBounds(t *testing.T) {
	if _, err := New(31, 31); err != nil {
		t.Fatalf("New(31, 31) unexpected error: %v", err)
	}
	if _, err := New(0, 0); err != nil {
		t.Fatalf("New(0, 0) unexpected error: %v", err)
	}
	for _, tc := range []struct{ worker, dc int64 }{{32, 0}, {0, 32}, {-1, 0}, {0, -1}} {
		if _, err := New(tc.worker, tc.dc); !errors.Is(err, ErrConfig) {
			t.Errorf("New(%d, %d) error = %v, want ErrConfig", tc.worker, tc.dc, err)
		}
	}
}

func TestGenerateUniqueAndMonotonic(t *testing.T) {
	g, err := New(1, 1)
	if err != nil {
		t.Fatal(err)
	}

	const n = 50000
	seen := make(map[int64]struct{}, n)
	var prev int64
	for i := 0; i < n; i++ {
		key, err := g.Generate()
		if err != nil {
			t.Fatalf("generate #%d: %v", i, err)
		}
		if key <= 0 {
			t.Fatalf("generated non-positive key %d", key)
		}
		if key <= prev {
			t.Fatalf("key %d not greater than previous %d", key, prev)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key %d", key)
		}
		seen[key] = struct{}{}
		prev = key
	}
}

func TestGenerateConcurrentUnique(t *testing.T) {
	g, err := New(3, 7)
	if err != nil {
		t.Fatal(err)
	}

	const workers, perWorker = 16, 2000
	results := make([][]int64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			keys := make([]int64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				key, err := g.Generate()
				if err != nil {
					t.Errorf("worker %d: %v", w, err)
					return
				}
				keys = append(keys, key)
			}
			results[w] = keys
		}(w)
	}
	wg.Wait()

	all := make(map[int64]struct{}, workers*perWorker)
	for _, keys := range results {
		for i, key := range keys {
			if i > 0 && key <= keys[i-1] {
				t.Fatalf("per-caller order violated: %d after %d", key, keys[i-1])
			}
			all[key] = struct{}{}
		}
	}
	if len(all) != workers*perWorker {
		t.Fatalf("expected %d distinct keys, got %d", workers*perWorker, len(all))
	}
}

func TestDecomposeRecoversFields(t *testing.T) {
	g, err := New(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	before := time.Now().UnixMilli()
	for i := 0; i < 100; i++ {
		key, err := g.Generate()
		if err != nil {
			t.Fatal(err)
		}
		if w := (key >> SequenceBits) & MaxWorkerID; w != 1 {
			t.Fatalf("worker bits = %d, want 1", w)
		}
		if dc := (key >> (SequenceBits + WorkerIDBits)) & MaxDatacenterID; dc != 1 {
			t.Fatalf("datacenter bits = %d, want 1", dc)
		}
		id := Decompose(key)
		if id.WorkerID != 1 || id.DatacenterID != 1 {
			t.Fatalf("Decompose(%d) = %+v", key, id)
		}
		if id.Timestamp < before || id.Timestamp > time.Now().UnixMilli() {
			t.Fatalf("decomposed timestamp %d outside [%d, now]", id.Timestamp, before)
		}
	}
}

func TestComposeLayout(t *testing.T) {
	key := compose(Epoch+5, 2, 3, 4)
	want := int64(5)<<22 | 2<<17 | 3<<12 | 4
	if key != want {
		t.Fatalf("compose = %d, want %d", key, want)
	}
	id := Decompose(key)
	if id.Timestamp != Epoch+5 || id.DatacenterID != 2 || id.WorkerID != 3 || id.Sequence != 4 {
		t.Fatalf("Decompose(%d) = %+v", key, id)
	}
}

func TestClockRegression(t *testing.T) {
	defer restoreClock()
	now := Epoch + 10_000
	NowMs = func() int64 { return now }

	g, _ := New(0, 0)
	first, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}

	now -= 5
	if _, err := g.Generate(); !errors.Is(err, ErrClockRegression) {
		t.Fatalf("expected ErrClockRegression, got %v", err)
	}

	// No correction: once the clock catches up, keys continue above the last one.
	now += 5
	next, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if next <= first {
		t.Fatalf("key %d not greater than %d after recovery", next, first)
	}
}

func TestSameMillisecondIncrementsSequence(t *testing.T) {
	defer restoreClock()
	NowMs = func() int64 { return Epoch + 1000 }

	g, _ := New(0, 0)
	a, _ := g.Generate()
	b, _ := g.Generate()
	if Decompose(a).Sequence != 0 || Decompose(b).Sequence != 1 {
		t.Fatalf("sequences = %d, %d; want 0, 1", Decompose(a).Sequence, Decompose(b).Sequence)
	}
}

func TestSequenceExhaustionWaitsNextMs(t *testing.T) {
	defer restoreClock()
	var mu sync.Mutex
	now := Epoch + 2000
	NowMs = func() int64 {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	g, _ := New(0, 0)
	g.lastTimestamp = Epoch + 2000
	g.sequence = MaxSequence

	done := make(chan int64)
	go func() {
		key, err := g.Generate()
		if err != nil {
			t.Errorf("generate: %v", err)
		}
		done <- key
	}()

	time.AfterFunc(10*time.Millisecond, func() {
		mu.Lock()
		now++
		mu.Unlock()
	})

	select {
	case key := <-done:
		id := Decompose(key)
		if id.Timestamp != Epoch+2001 || id.Sequence != 0 {
			t.Fatalf("after exhaustion got %+v, want timestamp %d sequence 0", id, Epoch+2001)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for sequence exhaustion handling")
	}
}

func TestGenerateBatch(t *testing.T) {
	g, _ := New(2, 2)
	keys, err := g.GenerateBatch(5000)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 5000 {
		t.Fatalf("expected 5000 keys, got %d", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] <= keys[i-1] {
			t.Fatalf("batch not increasing at %d", i)
		}
	}
	if keys, _ := g.GenerateBatch(0); keys != nil {
		t.Fatalf("expected nil for empty batch, got %v", keys)
	}
}

func TestGeneratePrefixedIDShape(t *testing.T) {
	id := GeneratePrefixedID("file", 123)
	if !strings.HasPrefix(id, "file_7b") {
		t.Fatalf("id %q does not start with file_7b", id)
	}
	if len(id) != len("file_7b")+consts.ExternalIDSuffixSize {
		t.Fatalf("id %q has length %d", id, len(id))
	}
	if !nanoid.IsAlphanumeric(strings.TrimPrefix(id, "file_7b")) {
		t.Fatalf("suffix of %q is not alphanumeric", id)
	}
	if !HasPrefix(id, "file") || HasPrefix(id, "link") {
		t.Fatalf("HasPrefix mismatch for %q", id)
	}
}

func TestGeneratePrefixedIDUnique(t *testing.T) {
	ids := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		ids[GeneratePrefixedID("file", 1)] = struct{}{}
	}
	if len(ids) != 1000 {
		t.Fatalf("expected 1000 distinct ids, got %d", len(ids))
	}
}

func TestEncodeKey(t *testing.T) {
	cases := map[int64]string{0: "0", 15: "f", 123: "7b", 4096: "1000"}
	for in, want := range cases {
		if got := EncodeKey(in); got != want {
			t.Errorf("EncodeKey(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseExternalID(t *testing.T) {
	g, _ := New(4, 9)
	key, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}
	prefix, got, err := ParseExternalID(GeneratePrefixedID("link", key))
	if err != nil {
		t.Fatalf("ParseExternalID: %v", err)
	}
	if prefix != "link" || got != key {
		t.Fatalf("ParseExternalID = (%q, %d), want (link, %d)", prefix, got, key)
	}

	for _, bad := range []string{"", "nounderscore", "_7b" + strings.Repeat("a", 20), "file_" + strings.Repeat("a", 20), "file_zz" + strings.Repeat("a", 20)} {
		if _, _, err := ParseExternalID(bad); !errors.Is(err, ErrMalformedID) {
			t.Errorf("ParseExternalID(%q) error = %v, want ErrMalformedID", bad, err)
		}
	}
}
