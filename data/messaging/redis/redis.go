// Package redis registers the "redis" message driver, publishing events on a
// Redis pub/sub channel named after the topic.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/data/config"
	"github.com/redis/go-redis/v9"
)

// Redis publishes events with PUBLISH.
type Redis struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg *config.Redis) (*Redis, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, errors.New("redis: addr is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.Db,
		DialTimeout:  cfg.DialTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewWithClient(client), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Publish sends payload to the channel named topic. The key is not used by pub/sub.
func (r *Redis) Publish(ctx context.Context, topic string, _ []byte, payload []byte) error {
	if err := r.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish to %s: %w", topic, err)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

type driver struct{}

func (d *driver) Name() string { return "redis" }

func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	c, ok := cfg.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("redis: invalid configuration type, expected *config.Config")
	}
	return New(ctx, c.Redis)
}

func (d *driver) Close(conn any) error {
	r, ok := conn.(*Redis)
	if !ok {
		return fmt.Errorf("redis: invalid connection type, expected *redis.Redis")
	}
	return r.Close()
}

func init() {
	data.RegisterMessageDriver(&driver{})
}
