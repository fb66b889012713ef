package config

import (
	"time"

	"github.com/spf13/viper"
)

// Tracer config struct for OpenTelemetry. Tracing is off when Endpoint is empty.
type Tracer struct {
	Endpoint       string  `json:"endpoint" yaml:"endpoint"` // OTLP gRPC endpoint
	ServiceName    string  `json:"service_name" yaml:"service_name"`
	ServiceVersion string  `json:"service_version" yaml:"service_version"`
	Environment    string  `json:"environment" yaml:"environment"`
	SamplingRate   float64 `json:"sampling_rate" yaml:"sampling_rate"` // 0.0 to 1.0

	MaxExportBatchSize int           `json:"max_export_batch_size" yaml:"max_export_batch_size"`
	BatchTimeout       time.Duration `json:"batch_timeout" yaml:"batch_timeout"`
	ExportTimeout      time.Duration `json:"export_timeout" yaml:"export_timeout"`
	Insecure           bool          `json:"insecure" yaml:"insecure"`
}

// getTracerConfig get tracer config with defaults
func getTracerConfig(v *viper.Viper) *Tracer {
	return &Tracer{
		Endpoint:       v.GetString("observes.tracer.endpoint"),
		ServiceName:    getStringOrDefault(v, "observes.tracer.service_name", v.GetString("app_name")),
		ServiceVersion: getStringOrDefault(v, "observes.tracer.service_version", v.GetString("version")),
		Environment:    getStringOrDefault(v, "observes.tracer.environment", v.GetString("run_mode")),
		SamplingRate:   getFloat64OrDefault(v, "observes.tracer.sampling_rate", 1.0),

		MaxExportBatchSize: getIntOrDefault(v, "observes.tracer.max_export_batch_size", 512),
		BatchTimeout:       getDurationOrDefault(v, "observes.tracer.batch_timeout", 5*time.Second),
		ExportTimeout:      getDurationOrDefault(v, "observes.tracer.export_timeout", 30*time.Second),
		Insecure:           v.GetBool("observes.tracer.insecure"),
	}
}
