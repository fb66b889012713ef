package config

import (
	"time"

	"github.com/spf13/viper"
)

// RabbitMQ rabbitmq config struct. An empty URL disables event publishing.
type RabbitMQ struct {
	URL               string
	Username          string
	Password          string
	Vhost             string
	Exchange          string
	ConnectionTimeout time.Duration
	HeartbeatInterval time.Duration
}

// getRabbitMQConfigs reads RabbitMQ configurations
func getRabbitMQConfigs(v *viper.Viper) *RabbitMQ {
	v.SetDefault("data.rabbitmq.exchange", "cargohold.events")
	v.SetDefault("data.rabbitmq.connection_timeout", "10s")
	v.SetDefault("data.rabbitmq.heartbeat_interval", "10s")

	return &RabbitMQ{
		URL:               v.GetString("data.rabbitmq.url"),
		Username:          v.GetString("data.rabbitmq.username"),
		Password:          v.GetString("data.rabbitmq.password"),
		Vhost:             v.GetString("data.rabbitmq.vhost"),
		Exchange:          v.GetString("data.rabbitmq.exchange"),
		ConnectionTimeout: v.GetDuration("data.rabbitmq.connection_timeout"),
		HeartbeatInterval: v.GetDuration("data.rabbitmq.heartbeat_interval"),
	}
}
