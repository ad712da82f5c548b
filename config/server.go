package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Server http server config struct
type Server struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORS            *CORS         `json:"cors" yaml:"cors"`
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CORS cross-origin config struct
type CORS struct {
	AllowOrigins     []string      `json:"allow_origins" yaml:"allow_origins"`
	AllowMethods     []string      `json:"allow_methods" yaml:"allow_methods"`
	AllowHeaders     []string      `json:"allow_headers" yaml:"allow_headers"`
	AllowCredentials bool          `json:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           time.Duration `json:"max_age" yaml:"max_age"`
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Host:            v.GetString("server.host"),
		Port:            getIntOrDefault(v, "server.port", 8000),
		ReadTimeout:     getDurationOrDefault(v, "server.read_timeout", 15*time.Second),
		WriteTimeout:    getDurationOrDefault(v, "server.write_timeout", 15*time.Second),
		IdleTimeout:     getDurationOrDefault(v, "server.idle_timeout", 60*time.Second),
		ShutdownTimeout: getDurationOrDefault(v, "server.shutdown_timeout", 30*time.Second),
		CORS: &CORS{
			AllowOrigins:     getStringSliceOrDefault(v, "server.cors.allow_origins", []string{"*"}),
			AllowMethods:     getStringSliceOrDefault(v, "server.cors.allow_methods", []string{"*"}),
			AllowHeaders:     getStringSliceOrDefault(v, "server.cors.allow_headers", []string{"*"}),
			AllowCredentials: v.GetBool("server.cors.allow_credentials"),
			MaxAge:           v.GetDuration("server.cors.max_age"),
		},
	}
}
