package config

import (
	"time"

	"github.com/spf13/viper"
)

// Kafka kafka config struct
type Kafka struct {
	Brokers      []string      `json:"brokers" yaml:"brokers"`
	ClientID     string        `json:"client_id" yaml:"client_id"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// getKafkaConfigs reads Kafka configurations
func getKafkaConfigs(v *viper.Viper) *Kafka {
	return &Kafka{
		Brokers:      v.GetStringSlice("data.kafka.brokers"),
		ClientID:     v.GetString("data.kafka.client_id"),
		WriteTimeout: v.GetDuration("data.kafka.write_timeout"),
	}
}
