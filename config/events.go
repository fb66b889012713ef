package config

import (
	"time"

	"github.com/spf13/viper"
)

// Events configures lifecycle event delivery. Workers 0 publishes inline.
type Events struct {
	Workers        int
	QueueSize      int
	PublishTimeout time.Duration
}

func getEventsConfig(v *viper.Viper) *Events {
	return &Events{
		Workers:        getIntOrDefault(v, "events.workers", 4),
		QueueSize:      getIntOrDefault(v, "events.queue_size", 1024),
		PublishTimeout: getDurationOrDefault(v, "events.publish_timeout", 5*time.Second),
	}
}
