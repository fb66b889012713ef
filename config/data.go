package config

import (
	dc "github.com/ncobase/cargohold/data/config"

	"github.com/spf13/viper"
)

// Data represents the data configuration
type Data = dc.Config

// getDataConfig returns data config
func getDataConfig(v *viper.Viper) *Data {
	return dc.GetConfig(v)
}
