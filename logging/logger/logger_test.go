package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ncobase/cargohold/ctxutil"
	"github.com/ncobase/cargohold/logging/logger/config"
	"github.com/sirupsen/logrus"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := &Logger{Logger: logrus.New()}
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	return l
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return m
}

func TestLogCarriesTraceAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetVersion("1.2.3")

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	l.Error(ctx, "failed to put object", "key", "t/f", "error", errors.New("boom"))

	m := decode(t, &buf)
	if m["msg"] != "failed to put object" || m["level"] != "error" {
		t.Fatalf("unexpected entry %v", m)
	}
	if m[traceKey] != "trace-1" || m[VersionKey] != "1.2.3" {
		t.Fatalf("missing context fields in %v", m)
	}
	if m["key"] != "t/f" || m["error"] != "boom" {
		t.Fatalf("missing kv fields in %v", m)
	}
}

func TestOddKeyvals(t *testing.T) {
	f := kvFields([]any{"a", 1, "dangling"})
	if f["a"] != 1 || f["extra"] != "dangling" {
		t.Fatalf("kvFields = %v", f)
	}
}

func TestDesensitizeHookMasksLinkKey(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.AddHook(NewDesensitizeHook(config.DefaultDesensitization()))

	l.Info(context.Background(), "link created", "link_key", "AbCdEf0123456789", "link_id", "link_1")

	m := decode(t, &buf)
	if m["link_key"] != "******" {
		t.Fatalf("link_key not masked: %v", m["link_key"])
	}
	if m["link_id"] != "link_1" {
		t.Fatalf("link_id should be kept: %v", m["link_id"])
	}
}

func TestDesensitizerPatterns(t *testing.T) {
	d := NewDesensitizer(&config.Desensitization{
		Enabled:         true,
		CustomPatterns:  []string{`postgres://[^ ]+`},
		MaskChar:        "#",
		FixedMaskLength: 3,
	})
	out := d.DesensitizeFields(logrus.Fields{"msg": "dial postgres://u:p@h/db failed"})
	if out["msg"] != "dial ### failed" {
		t.Fatalf("got %v", out["msg"])
	}
}

func TestFileRotator(t *testing.T) {
	dir := t.TempDir()
	r, err := newFileRotator(filepath.Join(dir, "logs", "app.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := r.Write([]byte("line\n")); err != nil {
		t.Fatal(err)
	}
	day := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(dir, "logs", "app."+day+".log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "line") {
		t.Fatalf("log file content %q", data)
	}

	if err := r.rotate(time.Now().Add(48 * time.Hour)); err != nil {
		t.Fatal(err)
	}
	if r.day == day {
		t.Fatal("rotator did not switch day")
	}
}

func TestInitFileOutputRequiresPath(t *testing.T) {
	l := NewNop()
	if _, err := l.Init(&config.Config{Output: "file"}); err == nil {
		t.Fatal("expected error for empty output_file")
	}
}
