package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "taskmanager")
	v.SetDefault("environment", "debug")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.cors.allow_origins", []string{"*"})
	v.SetDefault("server.cors.allow_methods", []string{"*"})
	v.SetDefault("server.cors.allow_headers", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", true)
	v.SetDefault("server.cors.max_age", 12*time.Hour)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stdout")

	v.SetDefault("data.database.master.driver", "sqlite")
	v.SetDefault("data.database.master.source", "file:tasks.db?cache=shared&_fk=1")
	v.SetDefault("data.database.migrate", true)
	v.SetDefault("data.messaging.topic", "tasks")
	v.SetDefault("data.messaging.publish_timeout", 5*time.Second)
	v.SetDefault("data.rabbitmq.exchange", "taskmanager")

	v.SetDefault("observes.tracer.sampling_rate", 1.0)
	v.SetDefault("observes.sentry.sample_rate", 1.0)
}
