package config

import (
	"time"

	"github.com/spf13/viper"
)

// RabbitMQ rabbitmq config struct
type RabbitMQ struct {
	URL               string        `json:"url" yaml:"url"`
	Exchange          string        `json:"exchange" yaml:"exchange"`
	Vhost             string        `json:"vhost" yaml:"vhost"`
	HeartbeatInterval time.Duration `json:"heartbeat_interval" yaml:"heartbeat_interval"`
}

// getRabbitMQConfigs reads RabbitMQ configurations
func getRabbitMQConfigs(v *viper.Viper) *RabbitMQ {
	exchange := v.GetString("data.rabbitmq.exchange")
	if exchange == "" {
		exchange = "taskmanager"
	}
	return &RabbitMQ{
		URL:               v.GetString("data.rabbitmq.url"),
		Exchange:          exchange,
		Vhost:             v.GetString("data.rabbitmq.vhost"),
		HeartbeatInterval: v.GetDuration("data.rabbitmq.heartbeat_interval"),
	}
}
