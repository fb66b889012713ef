package config

import (
	"time"

	"github.com/ncobase/cargohold/oss"
	"github.com/spf13/viper"
)

// Storage is the object storage configuration.
type Storage = oss.Config

// getStorageConfig get storage config
func getStorageConfig(v *viper.Viper) *Storage {
	return &oss.Config{
		Provider: getStringOrDefault(v, "storage.provider", "filesystem"),
		ID:       v.GetString("storage.id"),
		Secret:   v.GetString("storage.secret"),
		Region:   v.GetString("storage.region"),
		Bucket:   getStringOrDefault(v, "storage.bucket", "files"),
		Endpoint: v.GetString("storage.endpoint"),
		Timeout:  getDurationOrDefault(v, "storage.timeout", 30*time.Second),
		Breaker: &oss.BreakerConfig{
			MaxRequests: getUint32OrDefault(v, "storage.breaker.max_requests", 1),
			Interval:    getDurationOrDefault(v, "storage.breaker.interval", time.Minute),
			Timeout:     getDurationOrDefault(v, "storage.breaker.timeout", 30*time.Second),
			Failures:    getUint32OrDefault(v, "storage.breaker.failures", 5),
		},
	}
}
