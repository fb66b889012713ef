package config

import "github.com/spf13/viper"

// Sentry holds error reporting settings. Reporting is off when Dsn is empty.
type Sentry struct {
	Dsn         string  `json:"dsn" yaml:"dsn"`
	Environment string  `json:"environment" yaml:"environment"`
	Release     string  `json:"release" yaml:"release"`
	SampleRate  float64 `json:"sample_rate" yaml:"sample_rate"`
}

// getSentryConfig reads logger.sentry, falling back to run_mode and version.
func getSentryConfig(v *viper.Viper) *Sentry {
	c := &Sentry{
		Dsn:         v.GetString("logger.sentry.dsn"),
		Environment: v.GetString("logger.sentry.environment"),
		Release:     v.GetString("logger.sentry.release"),
		SampleRate:  1.0,
	}
	if c.Environment == "" {
		c.Environment = v.GetString("run_mode")
	}
	if c.Release == "" {
		c.Release = v.GetString("version")
	}
	if v.IsSet("logger.sentry.sample_rate") {
		c.SampleRate = v.GetFloat64("logger.sentry.sample_rate")
	}
	return c
}
