package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Elasticsearch holds log shipping settings. Shipping is off without addresses.
type Elasticsearch struct {
	Addresses   []string `json:"addresses" yaml:"addresses"`
	Username    string   `json:"username" yaml:"username"`
	Password    string   `json:"password" yaml:"password"`
	IndexName   string   `json:"index_name" yaml:"index_name"`
	RotateDaily bool     `json:"rotate_daily" yaml:"rotate_daily"`
}

// getElasticsearchConfigs reads Elasticsearch configurations
func getElasticsearchConfigs(v *viper.Viper) *Elasticsearch {
	if !v.IsSet("logger.elasticsearch") {
		return nil
	}
	c := &Elasticsearch{
		Addresses:   v.GetStringSlice("logger.elasticsearch.addresses"),
		Username:    v.GetString("logger.elasticsearch.username"),
		Password:    v.GetString("logger.elasticsearch.password"),
		IndexName:   v.GetString("logger.elasticsearch.index_name"),
		RotateDaily: v.GetBool("logger.elasticsearch.rotate_daily"),
	}
	if c.IndexName == "" {
		c.IndexName = defaultIndexName(v)
	}
	return c
}

// defaultIndexName names log indexes after the app and run mode.
func defaultIndexName(v *viper.Viper) string {
	return strings.ToLower(v.GetString("app_name") + "-" + v.GetString("run_mode") + "-log")
}
