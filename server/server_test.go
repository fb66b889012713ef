package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ncobase/cargohold/config"
	"github.com/ncobase/cargohold/logging/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf(`
run_mode: test
server:
  public:
    host: 127.0.0.1
    port: 0
  private:
    host: 127.0.0.1
    port: 0
  shutdown_timeout: 2s
data:
  database:
    driver: sqlite
    source: "file:%s"
    migrate: true
storage:
  provider: filesystem
  bucket: %s
files:
  allowed_purposes: [document, "User Upload"]
`, filepath.Join(dir, "cargohold.db"), filepath.Join(dir, "blobs"))

	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	cfg, err := config.LoadConfig(p)
	require.NoError(t, err)
	return cfg
}

func TestAppLifecycle(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	app, err := New(ctx, cfg, logger.NewNop())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer app.Close()

	purposes, err := app.Service().Purpose.List(ctx)
	require.NoError(t, err)
	assert.Len(t, purposes, 2)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- app.Run(runCtx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Database.Driver = "oracle"

	_, err := New(context.Background(), cfg, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init data")
}
