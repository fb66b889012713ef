package config

import (
	"github.com/spf13/viper"
)

// Config configuration struct
type Config struct {
	Level           int              `json:"level" yaml:"level"`
	Format          string           `json:"format" yaml:"format"`
	Output          string           `json:"output" yaml:"output"`
	OutputFile      string           `json:"output_file" yaml:"output_file"`
	Desensitization *Desensitization `json:"desensitization" yaml:"desensitization"`
	Sentry          *Sentry          `json:"sentry" yaml:"sentry"`
	Elasticsearch   *Elasticsearch   `json:"elasticsearch" yaml:"elasticsearch"`
	OpenSearch      *OpenSearch      `json:"opensearch" yaml:"opensearch"`
	Meilisearch     *Meilisearch     `json:"meilisearch" yaml:"meilisearch"`
}

// GetConfig returns the logger configuration
func GetConfig(v *viper.Viper) *Config {
	v.SetDefault("logger.level", 4)
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")

	return &Config{
		Level:           v.GetInt("logger.level"),
		Format:          v.GetString("logger.format"),
		Output:          v.GetString("logger.output"),
		OutputFile:      v.GetString("logger.output_file"),
		Desensitization: getDesensitizationConfigs(v),
		Sentry:          getSentryConfig(v),
		Elasticsearch:   getElasticsearchConfigs(v),
		OpenSearch:      getOpenSearchConfigs(v),
		Meilisearch:     getMeilisearchConfigs(v),
	}
}
