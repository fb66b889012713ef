package data

import (
	"context"
	"errors"
	"time"
)

var errAMQPClosed = errors.New("connection closed")

// Health checks all components.
func (d *Data) Health(ctx context.Context) map[string]any {
	services := make(map[string]any)
	healthy := true

	check := func(name string, fn func() error) {
		start := time.Now()
		err := fn()
		entry := map[string]any{"status": "healthy", "latency": time.Since(start).String()}
		if err != nil {
			entry["status"] = "unhealthy"
			entry["error"] = err.Error()
			healthy = false
		}
		services[name] = entry
	}

	check("database", func() error {
		if d.dbDriver != nil {
			return d.dbDriver.Ping(ctx, d.DB)
		}
		return d.DB.PingContext(ctx)
	})
	if d.Redis != nil {
		check("redis", func() error { return d.Redis.Ping(ctx).Err() })
	}
	if d.AMQP != nil {
		check("rabbitmq", func() error {
			if d.AMQP.IsClosed() {
				return errAMQPClosed
			}
			return nil
		})
	}

	status := "healthy"
	if !healthy {
		status = "degraded"
	}
	return map[string]any{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"services":  services,
	}
}
