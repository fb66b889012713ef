package logger

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/ncobase/cargohold/logging/logger/config"
	"github.com/sirupsen/logrus"
)

const sentryFlushTimeout = 2 * time.Second

// SentryHook reports error, fatal and panic entries to Sentry.
type SentryHook struct {
	hub *sentry.Hub
}

// NewSentryHook creates a hook backed by its own client, leaving the global
// Sentry hub untouched.
func NewSentryHook(opts sentry.ClientOptions) (*SentryHook, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create sentry client: %w", err)
	}
	return &SentryHook{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func sentryOptions(c *config.Sentry) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:              c.Dsn,
		Environment:      c.Environment,
		Release:          c.Release,
		SampleRate:       c.SampleRate,
		AttachStacktrace: true,
	}
}

// Levels returns the levels reported to Sentry
func (h *SentryHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
}

// Fire captures the entry as a Sentry event. The trace id and version become
// tags, every other field goes to extra.
func (h *SentryHook) Fire(entry *logrus.Entry) error {
	event := sentry.NewEvent()
	event.Level = sentryLevel(entry.Level)
	event.Message = entry.Message
	event.Timestamp = entry.Time
	for k, v := range entry.Data {
		switch k {
		case traceKey, VersionKey:
			event.Tags[k] = fmt.Sprint(v)
		default:
			event.Extra[k] = v
		}
	}
	h.hub.CaptureEvent(event)
	return nil
}

// Flush waits for buffered events to be sent.
func (h *SentryHook) Flush() bool {
	return h.hub.Flush(sentryFlushTimeout)
}

func sentryLevel(level logrus.Level) sentry.Level {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return sentry.LevelFatal
	case logrus.WarnLevel:
		return sentry.LevelWarning
	case logrus.InfoLevel:
		return sentry.LevelInfo
	case logrus.DebugLevel, logrus.TraceLevel:
		return sentry.LevelDebug
	default:
		return sentry.LevelError
	}
}
