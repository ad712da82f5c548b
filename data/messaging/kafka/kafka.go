// Package kafka registers the "kafka" message driver. Events are written with
// segmentio/kafka-go; the event key becomes the message key so all events of
// one task land on the same partition.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/data/config"
	"github.com/segmentio/kafka-go"
)

// Kafka publishes events through a shared writer.
type Kafka struct {
	writer *kafka.Writer
}

// New creates a Kafka publisher for the given brokers.
func New(cfg *config.Kafka) (*Kafka, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}

	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}

	return &Kafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           writeTimeout,
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

// Publish writes one message to topic.
func (k *Kafka) Publish(ctx context.Context, topic string, key, payload []byte) error {
	err := k.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("kafka: publish to %s: %w", topic, err)
	}
	return nil
}

// Close flushes pending writes and releases the writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}

type driver struct{}

func (d *driver) Name() string { return "kafka" }

func (d *driver) Connect(_ context.Context, cfg any) (any, error) {
	c, ok := cfg.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("kafka: invalid configuration type, expected *config.Config")
	}
	return New(c.Kafka)
}

func (d *driver) Close(conn any) error {
	k, ok := conn.(*Kafka)
	if !ok {
		return fmt.Errorf("kafka: invalid connection type, expected *kafka.Kafka")
	}
	return k.Close()
}

func init() {
	data.RegisterMessageDriver(&driver{})
}
