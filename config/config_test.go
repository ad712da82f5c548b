package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Data.Database.Master.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Data.Database.Master.Driver)
	}
	if !cfg.Data.Database.Migrate {
		t.Error("migrate should default to true")
	}
	if cfg.Data.Messaging.IsEnabled() {
		t.Error("messaging should be disabled by default")
	}
	if got := cfg.Server.CORS.AllowOrigins; len(got) != 1 || got[0] != "*" {
		t.Errorf("AllowOrigins = %v, want [*]", got)
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("Logger.Level = %q, want info", cfg.Logger.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	p := writeConfig(t, `
app_name: tasks-test
server:
  port: 9090
  shutdown_timeout: 5s
logger:
  level: debug
  format: json
data:
  database:
    master:
      driver: postgres
      source: postgres://localhost/tasks
      max_open_conn: 20
  messaging:
    driver: kafka
    topic: task-events
  kafka:
    brokers: ["localhost:9092"]
`)

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.AppName != "tasks-test" {
		t.Errorf("AppName = %q", cfg.AppName)
	}
	if cfg.Server.Addr() != "0.0.0.0:9090" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Logger.Level != "debug" || cfg.Logger.Format != "json" {
		t.Errorf("Logger = %+v", cfg.Logger)
	}
	master := cfg.Data.Database.Master
	if master.Driver != "postgres" || master.MaxOpenConn != 20 {
		t.Errorf("Master = %+v", master)
	}
	if !cfg.Data.Messaging.IsEnabled() || cfg.Data.Messaging.Topic != "task-events" {
		t.Errorf("Messaging = %+v", cfg.Data.Messaging)
	}
	if len(cfg.Data.Kafka.Brokers) != 1 || cfg.Data.Kafka.Brokers[0] != "localhost:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Data.Kafka.Brokers)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	p := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("TASKMANAGER_SERVER_PORT", "7070")

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestProviders(t *testing.T) {
	if ProvideDataConfig(nil) != nil || ProvideServerConfig(nil) != nil {
		t.Error("providers should return nil for nil config")
	}
	cfg := &Config{Server: &Server{Port: 1}}
	if ProvideServerConfig(cfg).Port != 1 {
		t.Error("ProvideServerConfig returned wrong value")
	}
}
