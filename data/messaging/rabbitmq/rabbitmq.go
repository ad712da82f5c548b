// Package rabbitmq registers the "rabbitmq" message driver. Events go to a
// durable topic exchange with the topic as routing key, using publisher
// confirms.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/data/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ represents RabbitMQ implementation
type RabbitMQ struct {
	conn     *amqp.Connection
	exchange string
	mu       sync.Mutex
}

// New dials the broker and declares the exchange.
func New(cfg *config.RabbitMQ) (*RabbitMQ, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("rabbitmq: url is empty")
	}

	amqpCfg := amqp.Config{Vhost: cfg.Vhost, Heartbeat: cfg.HeartbeatInterval}
	if amqpCfg.Heartbeat <= 0 {
		amqpCfg.Heartbeat = 10 * time.Second
	}
	conn, err := amqp.DialConfig(cfg.URL, amqpCfg)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}

	r := &RabbitMQ{conn: conn, exchange: cfg.Exchange}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	defer ch.Close()

	// durable topic exchange, not auto-deleted
	if err := ch.ExchangeDeclare(r.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}
	return r, nil
}

// IsConnected checks if the RabbitMQ connection is valid
func (r *RabbitMQ) IsConnected() bool {
	return r.conn != nil && !r.conn.IsClosed()
}

// Publish publishes one persistent message and waits for the broker confirm.
func (r *RabbitMQ) Publish(ctx context.Context, topic string, key, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.IsConnected() {
		return errors.New("rabbitmq: connection is not available")
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("rabbitmq: confirm mode: %w", err)
	}
	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	err = ch.PublishWithContext(ctx, r.exchange, topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    string(key),
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}

	select {
	case c := <-confirms:
		if !c.Ack {
			return errors.New("rabbitmq: publish was nacked")
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("rabbitmq: waiting for confirm: %w", ctx.Err())
	}
}

// Close closes the connection.
func (r *RabbitMQ) Close() error {
	if r.conn == nil || r.conn.IsClosed() {
		return nil
	}
	return r.conn.Close()
}

type driver struct{}

func (d *driver) Name() string { return "rabbitmq" }

func (d *driver) Connect(_ context.Context, cfg any) (any, error) {
	c, ok := cfg.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("rabbitmq: invalid configuration type, expected *config.Config")
	}
	return New(c.RabbitMQ)
}

func (d *driver) Close(conn any) error {
	r, ok := conn.(*RabbitMQ)
	if !ok {
		return fmt.Errorf("rabbitmq: invalid connection type, expected *rabbitmq.RabbitMQ")
	}
	return r.Close()
}

func init() {
	data.RegisterMessageDriver(&driver{})
}
