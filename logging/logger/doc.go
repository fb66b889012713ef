// Package logger wraps logrus with a context-first API.
//
//	log.Info(ctx, "file uploaded", "file_id", f.ID, "bytes", f.Bytes)
//	log.Error(ctx, "failed to put object", "key", key, "error", err)
//
// Every entry carries the trace id found in ctx and the configured version.
// Fields named in the desensitization settings (link keys, secrets, DSNs) are
// masked by a hook. When logger.sentry.dsn is set, error entries are also
// reported to Sentry after masking. logger.elasticsearch, logger.opensearch
// and logger.meilisearch each ship every entry to a log index.
package logger
