package config

import (
	lc "github.com/ncobase/cargohold/logging/logger/config"

	"github.com/spf13/viper"
)

// Logger is the logger configuration.
type Logger = lc.Config

func getLoggerConfig(v *viper.Viper) *Logger {
	return lc.GetConfig(v)
}
