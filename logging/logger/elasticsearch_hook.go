package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/ncobase/cargohold/logging/logger/config"
	"github.com/sirupsen/logrus"
)

// ElasticsearchHook indexes every entry as a document.
type ElasticsearchHook struct {
	client      *elasticsearch.Client
	indexName   string
	rotateDaily bool
}

// NewElasticsearchHook connects to the cluster and checks it answers.
func NewElasticsearchHook(c *config.Elasticsearch) (*ElasticsearchHook, error) {
	esCfg := elasticsearch.Config{Addresses: c.Addresses}
	if c.Username != "" {
		esCfg.Username = c.Username
		esCfg.Password = c.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch connection error: %s", res.Status())
	}

	return &ElasticsearchHook{client: client, indexName: c.IndexName, rotateDaily: c.RotateDaily}, nil
}

// Levels returns the log levels this hook fires for
func (h *ElasticsearchHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire sends the log entry to Elasticsearch
func (h *ElasticsearchHook) Fire(entry *logrus.Entry) error {
	body, err := json.Marshal(logDocument(entry, "@timestamp"))
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	res, err := h.client.Index(
		indexName(h.indexName, h.rotateDaily, entry.Time),
		bytes.NewReader(body),
		h.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index log entry: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch index error: %s", res.Status())
	}
	return nil
}
