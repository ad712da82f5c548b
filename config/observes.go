package config

import (
	"time"

	"github.com/spf13/viper"
)

// Observes groups the tracing and error reporting configuration.
type Observes struct {
	Tracer *Tracer `json:"tracer" yaml:"tracer"`
	Sentry *Sentry `json:"sentry" yaml:"sentry"`
}

// Sentry config struct
type Sentry struct {
	Endpoint   string  `json:"endpoint" yaml:"endpoint"`
	SampleRate float64 `json:"sample_rate" yaml:"sample_rate"`
}

// Tracer config struct for OpenTelemetry
type Tracer struct {
	Endpoint           string        `json:"endpoint" yaml:"endpoint"` // OTLP gRPC endpoint
	SamplingRate       float64       `json:"sampling_rate" yaml:"sampling_rate"`
	MaxExportBatchSize int           `json:"max_export_batch_size" yaml:"max_export_batch_size"`
	BatchTimeout       time.Duration `json:"batch_timeout" yaml:"batch_timeout"`
	ExportTimeout      time.Duration `json:"export_timeout" yaml:"export_timeout"`
}

func getObservesConfig(v *viper.Viper) *Observes {
	return &Observes{
		Tracer: &Tracer{
			Endpoint:           v.GetString("observes.tracer.endpoint"),
			SamplingRate:       getFloat64OrDefault(v, "observes.tracer.sampling_rate", 1.0),
			MaxExportBatchSize: getIntOrDefault(v, "observes.tracer.max_export_batch_size", 512),
			BatchTimeout:       getDurationOrDefault(v, "observes.tracer.batch_timeout", 5*time.Second),
			ExportTimeout:      getDurationOrDefault(v, "observes.tracer.export_timeout", 30*time.Second),
		},
		Sentry: &Sentry{
			Endpoint:   v.GetString("observes.sentry.endpoint"),
			SampleRate: getFloat64OrDefault(v, "observes.sentry.sample_rate", 1.0),
		},
	}
}
