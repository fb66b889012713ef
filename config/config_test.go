package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "app_name: cargohold\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Public.Addr() != "0.0.0.0:8080" || cfg.Server.Private.Addr() != "0.0.0.0:8081" {
		t.Errorf("listeners = %s, %s", cfg.Server.Public.Addr(), cfg.Server.Private.Addr())
	}
	if cfg.Snowflake.WorkerID != 1 || cfg.Snowflake.DatacenterID != 1 {
		t.Errorf("snowflake = %+v", cfg.Snowflake)
	}
	if cfg.Files.MaxFileSizeBytes != 104857600 {
		t.Errorf("max file size = %d", cfg.Files.MaxFileSizeBytes)
	}
	if len(cfg.Files.AllowedPurposes) != 4 {
		t.Errorf("purposes = %v", cfg.Files.AllowedPurposes)
	}
	if cfg.Paging.DefaultLimit != 10 || cfg.Paging.MaxLimit != 100 {
		t.Errorf("paging = %+v", cfg.Paging)
	}
	if cfg.Storage.Provider != "filesystem" || cfg.Storage.Breaker.Failures != 5 {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Events.Workers != 4 || cfg.Events.QueueSize != 1024 || cfg.Events.PublishTimeout != 5*time.Second {
		t.Errorf("events = %+v", cfg.Events)
	}
	if cfg.Files.MaxConcurrentUploads != 64 || cfg.Files.UploadWait != 5*time.Second {
		t.Errorf("upload limits = %+v", cfg.Files)
	}
	if cfg.Logger.Sentry.Dsn != "" || cfg.Logger.Sentry.Environment != "release" || cfg.Logger.Elasticsearch != nil {
		t.Errorf("error reporting should be off by default: %+v %+v", cfg.Logger.Sentry, cfg.Logger.Elasticsearch)
	}
}

func TestValidateRejectsNegativeEventWorkers(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "events:\n  workers: -1\n")); err == nil {
		t.Fatal("expected error for negative workers")
	}
}

func TestLoadConfigFile(t *testing.T) {
	p := writeConfig(t, `
server:
  public:
    port: 9090
snowflake:
  worker_id: 7
  datacenter_id: 3
storage:
  provider: http
  endpoint: http://storage:9000
  timeout: 5s
files:
  allowed_purposes: [avatar]
paging:
  default_limit: 20
  max_limit: 50
logger:
  sentry:
    dsn: https://public@sentry.example.com/1
    sample_rate: 0.5
  elasticsearch:
    addresses: [http://es:9200]
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Public.Port != 9090 {
		t.Errorf("public port = %d", cfg.Server.Public.Port)
	}
	if cfg.Snowflake.WorkerID != 7 || cfg.Snowflake.DatacenterID != 3 {
		t.Errorf("snowflake = %+v", cfg.Snowflake)
	}
	if cfg.Storage.Provider != "http" || cfg.Storage.Timeout != 5*time.Second {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if len(cfg.Files.AllowedPurposes) != 1 || cfg.Files.AllowedPurposes[0] != "avatar" {
		t.Errorf("purposes = %v", cfg.Files.AllowedPurposes)
	}
	if p := cfg.Paging.Paginator(); p.DefaultLimit != 20 || p.MaxLimit != 50 {
		t.Errorf("paginator = %+v", p)
	}
	if s := cfg.Logger.Sentry; s.Dsn != "https://public@sentry.example.com/1" || s.SampleRate != 0.5 || s.Release != "dev" {
		t.Errorf("sentry = %+v", s)
	}
	if es := cfg.Logger.Elasticsearch; es == nil || len(es.Addresses) != 1 || es.IndexName != "cargohold-release-log" {
		t.Errorf("elasticsearch = %+v", es)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("CARGOHOLD_SERVER_PRIVATE_PORT", "9191")
	t.Setenv("WORKER_ID", "4")
	t.Setenv("ALLOWED_PURPOSES", "document, image")

	cfg, err := LoadConfig(writeConfig(t, "app_name: cargohold\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Private.Port != 9191 {
		t.Errorf("private port = %d", cfg.Server.Private.Port)
	}
	if cfg.Snowflake.WorkerID != 4 {
		t.Errorf("worker id = %d", cfg.Snowflake.WorkerID)
	}
	if len(cfg.Files.AllowedPurposes) != 2 || cfg.Files.AllowedPurposes[1] != "image" {
		t.Errorf("purposes = %v", cfg.Files.AllowedPurposes)
	}
}

func TestValidateRejectsBadSnowflake(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "snowflake:\n  worker_id: 32\n")); err == nil {
		t.Fatal("expected error for worker_id 32")
	}
	if _, err := LoadConfig(writeConfig(t, "snowflake:\n  datacenter_id: 32\n")); err == nil {
		t.Fatal("expected error for datacenter_id 32")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
