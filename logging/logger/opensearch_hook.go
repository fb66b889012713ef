package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ncobase/cargohold/logging/logger/config"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"github.com/sirupsen/logrus"
)

// OpenSearchHook indexes every entry as a document.
type OpenSearchHook struct {
	client      *opensearchapi.Client
	indexName   string
	rotateDaily bool
}

// NewOpenSearchHook connects to the cluster and checks it answers.
func NewOpenSearchHook(c *config.OpenSearch) (*OpenSearchHook, error) {
	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: c.Addresses,
			Username:  c.Username,
			Password:  c.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	if _, err := client.Info(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to connect to opensearch: %w", err)
	}

	return &OpenSearchHook{client: client, indexName: c.IndexName, rotateDaily: c.RotateDaily}, nil
}

// Levels returns the log levels this hook fires for
func (h *OpenSearchHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire sends the log entry to OpenSearch
func (h *OpenSearchHook) Fire(entry *logrus.Entry) error {
	body, err := json.Marshal(logDocument(entry, "@timestamp"))
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	_, err = h.client.Index(ctx, opensearchapi.IndexReq{
		Index: indexName(h.indexName, h.rotateDaily, entry.Time),
		Body:  bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("failed to index log entry: %w", err)
	}
	return nil
}
