package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Snowflake identifies this process among id generators.
type Snowflake struct {
	WorkerID     int64
	DatacenterID int64
}

// Validate mirrors the bounds enforced by snowflake.New so startup fails early.
func (s *Snowflake) Validate() error {
	if s.WorkerID < 0 || s.WorkerID > 31 {
		return fmt.Errorf("snowflake.worker_id must be between 0 and 31, got %d", s.WorkerID)
	}
	if s.DatacenterID < 0 || s.DatacenterID > 31 {
		return fmt.Errorf("snowflake.datacenter_id must be between 0 and 31, got %d", s.DatacenterID)
	}
	return nil
}

func getSnowflakeConfig(v *viper.Viper) *Snowflake {
	return &Snowflake{
		WorkerID:     int64(getIntOrDefault(v, "snowflake.worker_id", 1)),
		DatacenterID: int64(getIntOrDefault(v, "snowflake.datacenter_id", 1)),
	}
}
