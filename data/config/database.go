package config

import (
	"time"

	"github.com/spf13/viper"
)

// Database database config struct
type Database struct {
	Driver          string        `json:"driver" yaml:"driver"`
	Source          string        `json:"source" yaml:"source"`
	MaxIdleConn     int           `json:"max_idle_conn" yaml:"max_idle_conn"`
	MaxOpenConn     int           `json:"max_open_conn" yaml:"max_open_conn"`
	ConnMaxLifeTime time.Duration `json:"conn_max_life_time" yaml:"conn_max_life_time"`
	Migrate         bool          `json:"migrate" yaml:"migrate"`
}

// getDatabaseConfig reads database configurations
func getDatabaseConfig(v *viper.Viper) *Database {
	v.SetDefault("data.database.driver", "postgres")
	v.SetDefault("data.database.max_idle_conn", 5)
	v.SetDefault("data.database.max_open_conn", 10)
	v.SetDefault("data.database.migrate", true)

	return &Database{
		Driver:          v.GetString("data.database.driver"),
		Source:          v.GetString("data.database.source"),
		MaxIdleConn:     v.GetInt("data.database.max_idle_conn"),
		MaxOpenConn:     v.GetInt("data.database.max_open_conn"),
		ConnMaxLifeTime: v.GetDuration("data.database.conn_max_life_time"),
		Migrate:         v.GetBool("data.database.migrate"),
	}
}
