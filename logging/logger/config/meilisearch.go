package config

import "github.com/spf13/viper"

// Meilisearch meilisearch config struct
type Meilisearch struct {
	Host        string `json:"host" yaml:"host"`
	APIKey      string `json:"api_key" yaml:"api_key"`
	IndexName   string `json:"index_name" yaml:"index_name"`
	RotateDaily bool   `json:"rotate_daily" yaml:"rotate_daily"`
}

// getMeilisearchConfigs reads Meilisearch configurations
func getMeilisearchConfigs(v *viper.Viper) *Meilisearch {
	if !v.IsSet("logger.meilisearch") {
		return nil
	}
	c := &Meilisearch{
		Host:        v.GetString("logger.meilisearch.host"),
		APIKey:      v.GetString("logger.meilisearch.api_key"),
		IndexName:   v.GetString("logger.meilisearch.index_name"),
		RotateDaily: v.GetBool("logger.meilisearch.rotate_daily"),
	}
	if c.IndexName == "" {
		c.IndexName = defaultIndexName(v)
	}
	return c
}
