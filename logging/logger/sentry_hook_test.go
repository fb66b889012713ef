package logger

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/ncobase/cargohold/ctxutil"
	"github.com/ncobase/cargohold/logging/logger/config"
	"github.com/sirupsen/logrus"
)

type capturedEvents struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (c *capturedEvents) beforeSend(e *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *capturedEvents) all() []*sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*sentry.Event(nil), c.events...)
}

func TestSentryHookReportsErrorEntries(t *testing.T) {
	var captured capturedEvents
	hook, err := NewSentryHook(sentry.ClientOptions{
		Dsn:        "https://public@sentry.example.com/1",
		BeforeSend: captured.beforeSend,
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetVersion("1.2.3")
	l.AddHook(NewDesensitizeHook(config.DefaultDesensitization()))
	l.AddHook(hook)

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	l.Warn(ctx, "upload rejected", "error", errors.New("too large"))
	l.Error(ctx, "failed to mint id", "link_key", "AbCdEf0123456789", "error", errors.New("clock moved backwards"))

	events := captured.all()
	if len(events) != 1 {
		t.Fatalf("captured %d events, want 1", len(events))
	}
	e := events[0]
	if e.Message != "failed to mint id" || e.Level != sentry.LevelError {
		t.Fatalf("unexpected event %q at %q", e.Message, e.Level)
	}
	if e.Tags[traceKey] != "trace-1" || e.Tags[VersionKey] != "1.2.3" {
		t.Fatalf("missing tags in %v", e.Tags)
	}
	if e.Extra["error"] != "clock moved backwards" {
		t.Fatalf("missing error in %v", e.Extra)
	}
	if e.Extra["link_key"] != "******" {
		t.Fatalf("link_key reported unmasked: %v", e.Extra["link_key"])
	}
}

func TestSentryHookLevels(t *testing.T) {
	hook, err := NewSentryHook(sentry.ClientOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for _, lv := range hook.Levels() {
		if lv > logrus.ErrorLevel {
			t.Fatalf("level %s should not be reported", lv)
		}
	}
	if sentryLevel(logrus.InfoLevel) != sentry.LevelInfo || sentryLevel(logrus.PanicLevel) != sentry.LevelFatal {
		t.Fatal("unexpected level mapping")
	}
}

func TestInitSkipsSentryWithoutDsn(t *testing.T) {
	l := NewNop()
	cleanup, err := l.Init(&config.Config{Sentry: &config.Sentry{Environment: "test"}})
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()
	for _, hooks := range l.Hooks {
		for _, h := range hooks {
			if _, ok := h.(*SentryHook); ok {
				t.Fatal("sentry hook added without a dsn")
			}
		}
	}
}

func TestInitRejectsMalformedSentryDsn(t *testing.T) {
	l := NewNop()
	if _, err := l.Init(&config.Config{Sentry: &config.Sentry{Dsn: "::not a dsn"}}); err == nil {
		t.Fatal("expected error for malformed dsn")
	}
}
