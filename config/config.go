package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	config *Config
	path   string
	mu     sync.RWMutex
	v      *viper.Viper
)

// Config represents the configuration implementation.
type Config struct {
	AppName     string
	Environment string
	Server      *Server
	Logger      *Logger
	Data        *Data
	Observes    *Observes
	Viper       *viper.Viper
}

// SetPath sets the configuration file used by GetConfig and Reload.
func SetPath(p string) {
	mu.Lock()
	defer mu.Unlock()
	path = p
	config = nil
}

// GetConfig returns the configuration, loading it on first use.
// It does not handle errors internally; instead, it returns the error for the caller to handle.
func GetConfig() (*Config, error) {
	mu.RLock()
	cfg := config
	mu.RUnlock()
	if cfg != nil {
		return cfg, nil
	}

	mu.Lock()
	defer mu.Unlock()
	if config != nil {
		return config, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	config = cfg
	return cfg, nil
}

// LoadConfig loads the configuration from the file.
// An empty path searches the default locations; a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	nv := viper.New()
	setDefaults(nv)

	nv.SetEnvPrefix("taskmanager")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.AddConfigPath("/etc/taskmanager")
		nv.AddConfigPath("$HOME/.taskmanager")
		nv.AddConfigPath(".")
		if ex, err := os.Executable(); err == nil {
			nv.AddConfigPath(filepath.Dir(ex))
		}
	}

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v = nv
	return fromViper(nv), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppName:     v.GetString("app_name"),
		Environment: v.GetString("environment"),
		Server:      getServerConfig(v),
		Logger:      getLoggerConfig(v),
		Data:        getDataConfig(v),
		Observes:    getObservesConfig(v),
		Viper:       v,
	}
}

// Reload reloads the configuration from the file.
func Reload() error {
	mu.Lock()
	defer mu.Unlock()

	newConfig, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	config = newConfig
	return nil
}

// Watch watches the configuration file and calls callback with the reloaded configuration.
func Watch(callback func(*Config)) {
	mu.RLock()
	wv := v
	mu.RUnlock()
	if wv == nil || wv.ConfigFileUsed() == "" {
		return
	}

	wv.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		mu.Lock()
		cfg := fromViper(wv)
		config = cfg
		mu.Unlock()
		callback(cfg)
	})
	wv.WatchConfig()
}
