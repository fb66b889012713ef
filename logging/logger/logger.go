package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ncobase/cargohold/logging/logger/config"
	"github.com/sirupsen/logrus"
)

// Key constants
const (
	VersionKey = "version"
	ErrorKey   = "error"
)

// Logger is a logrus logger whose methods take the request context first and
// a message followed by alternating key/value pairs.
type Logger struct {
	*logrus.Logger
	version string
	rotator *fileRotator
}

var (
	standardLogger *Logger
	once           sync.Once
)

// StdLogger returns the process-wide logger.
func StdLogger() *Logger {
	once.Do(func() {
		standardLogger = &Logger{Logger: logrus.New()}
		standardLogger.SetFormatter(&logrus.JSONFormatter{})
	})
	return standardLogger
}

// New configures the process-wide logger and returns it with a cleanup func.
func New(c *config.Config) (*Logger, func(), error) {
	l := StdLogger()
	cleanup, err := l.Init(c)
	return l, cleanup, err
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *Logger {
	l := &Logger{Logger: logrus.New()}
	l.Logger.SetOutput(io.Discard)
	return l
}

// SetVersion sets the version for logging
func (l *Logger) SetVersion(v string) {
	l.version = v
}

// Init initializes the logger with the given configuration
func (l *Logger) Init(c *config.Config) (func(), error) {
	if c == nil {
		return func() {}, nil
	}

	if c.Level > 0 {
		l.SetLevel(logrus.Level(c.Level))
	}

	switch c.Format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	switch c.Output {
	case "stderr":
		l.Logger.SetOutput(os.Stderr)
	case "file":
		if c.OutputFile == "" {
			return nil, fmt.Errorf("logger output is file but output_file is empty")
		}
		r, err := newFileRotator(c.OutputFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.rotator = r
		l.Logger.SetOutput(r)
		go r.run(func(err error) { l.Logger.Errorf("Error rotating log: %v", err) })
	default:
		l.Logger.SetOutput(os.Stdout)
	}

	if c.Desensitization != nil && c.Desensitization.Enabled {
		l.AddHook(NewDesensitizeHook(c.Desensitization))
	}

	var sentryHook *SentryHook
	if c.Sentry != nil && c.Sentry.Dsn != "" {
		h, err := NewSentryHook(sentryOptions(c.Sentry))
		if err != nil {
			return nil, err
		}
		sentryHook = h
		l.AddHook(h)
	}

	if err := l.initSearchHooks(c); err != nil {
		return nil, err
	}

	return func() {
		if sentryHook != nil {
			sentryHook.Flush()
		}
		if l.rotator != nil {
			_ = l.rotator.Close()
		}
	}, nil
}

// entryFromContext creates a new log entry with fields from context
func (l *Logger) entryFromContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}

	if traceID := getTraceID(ctx); traceID != "" {
		fields[traceKey] = traceID
	}
	if l.version != "" {
		fields[VersionKey] = l.version
	}

	return l.WithFields(fields)
}

// kvFields turns alternating key/value pairs into fields. A trailing key
// without value is kept under "extra".
func kvFields(keyvals []any) logrus.Fields {
	fields := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 >= len(keyvals) {
			fields["extra"] = keyvals[i]
			break
		}
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		val := keyvals[i+1]
		if err, ok := val.(error); ok && err != nil {
			val = err.Error()
		}
		fields[key] = val
	}
	return fields
}

func (l *Logger) log(ctx context.Context, level logrus.Level, msg string, keyvals ...any) {
	if !l.IsLevelEnabled(level) {
		return
	}
	l.entryFromContext(ctx).WithFields(kvFields(keyvals)).Log(level, msg)
}

func (l *Logger) logf(ctx context.Context, level logrus.Level, format string, args ...any) {
	l.entryFromContext(ctx).Logf(level, format, args...)
}

func (l *Logger) Debug(ctx context.Context, msg string, keyvals ...any) {
	l.log(ctx, logrus.DebugLevel, msg, keyvals...)
}
func (l *Logger) Info(ctx context.Context, msg string, keyvals ...any) {
	l.log(ctx, logrus.InfoLevel, msg, keyvals...)
}
func (l *Logger) Warn(ctx context.Context, msg string, keyvals ...any) {
	l.log(ctx, logrus.WarnLevel, msg, keyvals...)
}
func (l *Logger) Error(ctx context.Context, msg string, keyvals ...any) {
	l.log(ctx, logrus.ErrorLevel, msg, keyvals...)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(ctx context.Context, msg string, keyvals ...any) {
	l.log(ctx, logrus.FatalLevel, msg, keyvals...)
	l.Exit(1)
}

func (l *Logger) Debugf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.DebugLevel, format, args...)
}
func (l *Logger) Infof(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.InfoLevel, format, args...)
}
func (l *Logger) Warnf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.WarnLevel, format, args...)
}
func (l *Logger) Errorf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.ErrorLevel, format, args...)
}

// SetOutput sets the output destination for the logger
func (l *Logger) SetOutput(out io.Writer) {
	l.Logger.SetOutput(out)
}
