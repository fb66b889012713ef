package logger

import (
	"fmt"
	"strconv"

	"github.com/meilisearch/meilisearch-go"
	"github.com/ncobase/cargohold/logging/logger/config"
	"github.com/sirupsen/logrus"
)

const meilisearchPrimaryKey = "id"

// MeilisearchHook adds every entry to an index. Entries are keyed by their
// timestamp in nanoseconds.
type MeilisearchHook struct {
	client      meilisearch.ServiceManager
	indexName   string
	rotateDaily bool
}

// NewMeilisearchHook connects to the server and checks it is healthy.
func NewMeilisearchHook(c *config.Meilisearch) (*MeilisearchHook, error) {
	client := meilisearch.New(c.Host, meilisearch.WithAPIKey(c.APIKey))
	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("failed to connect to meilisearch: %w", err)
	}
	return &MeilisearchHook{client: client, indexName: c.IndexName, rotateDaily: c.RotateDaily}, nil
}

// Levels returns the log levels this hook fires for
func (h *MeilisearchHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire sends the log entry to Meilisearch
func (h *MeilisearchHook) Fire(entry *logrus.Entry) error {
	doc := logDocument(entry, "timestamp")
	doc[meilisearchPrimaryKey] = strconv.FormatInt(entry.Time.UnixNano(), 10)

	pk := meilisearchPrimaryKey
	index := h.client.Index(indexName(h.indexName, h.rotateDaily, entry.Time))
	if _, err := index.AddDocuments([]map[string]any{doc}, &meilisearch.DocumentOptions{PrimaryKey: &pk}); err != nil {
		return fmt.Errorf("failed to index log entry: %w", err)
	}
	return nil
}
