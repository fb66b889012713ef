package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ publishes events as persistent JSON messages on a durable topic
// exchange, routed by event type.
type RabbitMQ struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

// NewRabbitMQ creates a publisher on an open connection.
func NewRabbitMQ(conn *amqp.Connection, exchange string) *RabbitMQ {
	return &RabbitMQ{conn: conn, exchange: exchange}
}

// IsConnected checks if the RabbitMQ connection is valid
func (r *RabbitMQ) IsConnected() bool {
	return r.conn != nil && !r.conn.IsClosed()
}

// channel returns the shared channel, reopening it and redeclaring the
// exchange after a close. Must be called with r.mu held.
func (r *RabbitMQ) channel() (*amqp.Channel, error) {
	if r.ch != nil && !r.ch.IsClosed() {
		return r.ch, nil
	}
	if !r.IsConnected() {
		return nil, errors.New("rabbitmq connection is not available")
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		r.exchange, // exchange name
		"topic",    // exchange type
		true,       // durable
		false,      // auto-delete
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	r.ch = ch
	return ch, nil
}

// Publish implements Publisher.
func (r *RabbitMQ) Publish(ctx context.Context, e *Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ch, err := r.channel()
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Timestamp:    e.Timestamp,
		Type:         string(e.Type),
		Body:         body,
	}
	if e.TraceID != "" {
		msg.Headers = amqp.Table{"trace_id": e.TraceID}
	}

	if err := ch.PublishWithContext(ctx, r.exchange, string(e.Type), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Close closes the channel. The connection belongs to the data layer.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch == nil || r.ch.IsClosed() {
		return nil
	}
	return r.ch.Close()
}
