// Package rabbitmq provides the RabbitMQ message driver for the data layer,
// backed by amqp091-go. It registers itself when imported:
//
//	import _ "github.com/ncobase/cargohold/data/rabbitmq"
package rabbitmq

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ncobase/cargohold/data"
	"github.com/ncobase/cargohold/data/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

type driver struct{}

func (d *driver) Name() string {
	return "rabbitmq"
}

// Connect dials the broker. URL may be a full amqp(s):// URL or host:port,
// in which case credentials and vhost are taken from the remaining fields.
func (d *driver) Connect(_ context.Context, cfg any) (any, error) {
	rmqCfg, ok := cfg.(*config.RabbitMQ)
	if !ok {
		return nil, fmt.Errorf("rabbitmq: invalid configuration type, expected *config.RabbitMQ")
	}

	connURL, err := dialURL(rmqCfg)
	if err != nil {
		return nil, err
	}

	amqpCfg := amqp.Config{Heartbeat: rmqCfg.HeartbeatInterval}
	if rmqCfg.ConnectionTimeout > 0 {
		amqpCfg.Dial = amqp.DefaultDial(rmqCfg.ConnectionTimeout)
	}

	conn, err := amqp.DialConfig(connURL, amqpCfg)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: failed to connect: %w", err)
	}

	return conn, nil
}

func dialURL(cfg *config.RabbitMQ) (string, error) {
	connURL := cfg.URL
	if connURL == "" {
		return "", fmt.Errorf("rabbitmq: URL is empty")
	}
	if strings.HasPrefix(connURL, "amqp://") || strings.HasPrefix(connURL, "amqps://") {
		return connURL, nil
	}

	u := url.URL{Scheme: "amqp", Host: connURL}
	if cfg.Username != "" || cfg.Password != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	if cfg.Vhost != "" {
		u.Path = "/" + strings.TrimPrefix(cfg.Vhost, "/")
	}
	return u.String(), nil
}

// Close terminates the RabbitMQ connection and releases resources.
func (d *driver) Close(conn any) error {
	amqpConn, ok := conn.(*amqp.Connection)
	if !ok {
		return fmt.Errorf("rabbitmq: invalid connection type, expected *amqp.Connection")
	}

	if amqpConn.IsClosed() {
		return nil
	}
	if err := amqpConn.Close(); err != nil {
		return fmt.Errorf("rabbitmq: failed to close connection: %w", err)
	}

	return nil
}

func init() {
	data.RegisterMessageDriver(&driver{})
}
