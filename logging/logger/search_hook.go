package logger

import (
	"fmt"
	"time"

	"github.com/ncobase/cargohold/logging/logger/config"
	"github.com/sirupsen/logrus"
)

const indexTimeout = 5 * time.Second

// initSearchHooks adds a hook for every configured log search sink.
func (l *Logger) initSearchHooks(c *config.Config) error {
	if c.Elasticsearch != nil && len(c.Elasticsearch.Addresses) > 0 {
		h, err := NewElasticsearchHook(c.Elasticsearch)
		if err != nil {
			return err
		}
		l.AddHook(h)
	}
	if c.OpenSearch != nil && len(c.OpenSearch.Addresses) > 0 {
		h, err := NewOpenSearchHook(c.OpenSearch)
		if err != nil {
			return err
		}
		l.AddHook(h)
	}
	if c.Meilisearch != nil && c.Meilisearch.Host != "" {
		h, err := NewMeilisearchHook(c.Meilisearch)
		if err != nil {
			return err
		}
		l.AddHook(h)
	}
	return nil
}

// logDocument flattens an entry into an indexable document. The entry's own
// fields cannot shadow the timestamp, level or message.
func logDocument(entry *logrus.Entry, timeKey string) map[string]any {
	doc := make(map[string]any, len(entry.Data)+3)
	for k, v := range entry.Data {
		doc[k] = v
	}
	doc[timeKey] = entry.Time.UTC().Format(time.RFC3339Nano)
	doc["level"] = entry.Level.String()
	doc["message"] = entry.Message
	return doc
}

// indexName appends the UTC day of t when rotateDaily is set.
func indexName(base string, rotateDaily bool, t time.Time) string {
	if !rotateDaily {
		return base
	}
	return fmt.Sprintf("%s-%s", base, t.UTC().Format("2006.01.02"))
}
