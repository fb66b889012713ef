package config

import "github.com/spf13/viper"

// OpenSearch opensearch config struct
type OpenSearch struct {
	Addresses   []string `json:"addresses" yaml:"addresses"`
	Username    string   `json:"username" yaml:"username"`
	Password    string   `json:"password" yaml:"password"`
	IndexName   string   `json:"index_name" yaml:"index_name"`
	RotateDaily bool     `json:"rotate_daily" yaml:"rotate_daily"`
}

// getOpenSearchConfigs reads OpenSearch configurations
func getOpenSearchConfigs(v *viper.Viper) *OpenSearch {
	if !v.IsSet("logger.opensearch") {
		return nil
	}
	c := &OpenSearch{
		Addresses:   v.GetStringSlice("logger.opensearch.addresses"),
		Username:    v.GetString("logger.opensearch.username"),
		Password:    v.GetString("logger.opensearch.password"),
		IndexName:   v.GetString("logger.opensearch.index_name"),
		RotateDaily: v.GetBool("logger.opensearch.rotate_daily"),
	}
	if c.IndexName == "" {
		c.IndexName = defaultIndexName(v)
	}
	return c
}
