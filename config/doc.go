// Package config loads the service configuration with viper.
//
// Values come from a YAML, JSON or TOML file, overridden by TASKMANAGER_*
// environment variables (dots become underscores, so server.port is
// TASKMANAGER_SERVER_PORT). Every key has a default, so the service starts
// without a file and serves from a local SQLite database.
//
//	cfg, err := config.LoadConfig("config.yaml")
//	config.Watch(func(c *config.Config) { ... })
package config
