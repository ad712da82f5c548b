package data

import (
	"context"
	"errors"
)

// Publisher delivers an event payload to a broker topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, payload []byte) error
}

// IsMessagingEnabled reports whether events have somewhere to go.
func (d *Data) IsMessagingEnabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.closed && d.publisher != nil
}

// Topic returns the topic events are published to.
func (d *Data) Topic() string {
	return d.topic
}

// Publish sends payload to the configured topic. It is a no-op when messaging is disabled.
func (d *Data) Publish(ctx context.Context, key, payload []byte) error {
	d.mu.RLock()
	p := d.publisher
	closed := d.closed
	d.mu.RUnlock()

	if closed {
		return ErrClosed
	}
	if p == nil {
		return nil
	}
	if len(payload) == 0 {
		return errors.New("data: empty event payload")
	}

	if d.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.publishTimeout)
		defer cancel()
	}
	return p.Publish(ctx, d.topic, key, payload)
}
