package config

import (
	"time"

	"github.com/spf13/viper"
)

// Messaging selects the broker task events are published to.
// An empty Driver disables publishing.
type Messaging struct {
	Driver         string        `json:"driver" yaml:"driver"`
	Topic          string        `json:"topic" yaml:"topic"`
	PublishTimeout time.Duration `json:"publish_timeout" yaml:"publish_timeout"`
}

// IsEnabled reports whether a broker is configured.
func (m *Messaging) IsEnabled() bool {
	return m != nil && m.Driver != ""
}

// getMessagingConfig reads messaging config
func getMessagingConfig(v *viper.Viper) *Messaging {
	timeout := 5 * time.Second
	if v.IsSet("data.messaging.publish_timeout") {
		timeout = v.GetDuration("data.messaging.publish_timeout")
	}
	topic := v.GetString("data.messaging.topic")
	if topic == "" {
		topic = "tasks"
	}
	return &Messaging{
		Driver:         v.GetString("data.messaging.driver"),
		Topic:          topic,
		PublishTimeout: timeout,
	}
}
