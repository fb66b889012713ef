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

// EnvPrefix prefixes every environment override, e.g. CARGOHOLD_SERVER_PUBLIC_PORT.
const EnvPrefix = "CARGOHOLD"

var (
	config *Config
	path   string
	mu     sync.RWMutex
	v      *viper.Viper
)

// Config represents the configuration implementation.
type Config struct {
	AppName   string
	RunMode   string
	Version   string
	Server    *Server
	Logger    *Logger
	Data      *Data
	Storage   *Storage
	Snowflake *Snowflake
	Files     *Files
	Paging    *Paging
	Events    *Events
	Tracer    *Tracer
	Viper     *viper.Viper
}

// Init loads the configuration from configPath (or the default search paths)
// and makes it the current configuration.
func Init(configPath string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	mu.Lock()
	config, path = cfg, configPath
	mu.Unlock()
	return cfg, nil
}

// GetConfig returns the current configuration, loading defaults on first use.
func GetConfig() (*Config, error) {
	mu.RLock()
	cfg := config
	mu.RUnlock()
	if cfg != nil {
		return cfg, nil
	}
	return Init("")
}

// LoadConfig loads the configuration from the file. A missing file is not an
// error when no explicit path was given: defaults and environment apply.
func LoadConfig(configPath string) (*Config, error) {
	nv := newViper()

	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.AddConfigPath("/etc/cargohold")
		nv.AddConfigPath("$HOME/.cargohold")
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

	cfg := &Config{
		AppName:   nv.GetString("app_name"),
		RunMode:   nv.GetString("run_mode"),
		Version:   nv.GetString("version"),
		Server:    getServerConfig(nv),
		Logger:    getLoggerConfig(nv),
		Data:      getDataConfig(nv),
		Storage:   getStorageConfig(nv),
		Snowflake: getSnowflakeConfig(nv),
		Files:     getFilesConfig(nv),
		Paging:    getPagingConfig(nv),
		Events:    getEventsConfig(nv),
		Tracer:    getTracerConfig(nv),
		Viper:     nv,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	v = nv
	mu.Unlock()
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if err := c.Snowflake.Validate(); err != nil {
		return err
	}
	if c.Files.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("files.max_file_size_bytes must be positive, got %d", c.Files.MaxFileSizeBytes)
	}
	if c.Paging.MaxLimit < 1 || c.Paging.DefaultLimit < 1 || c.Paging.DefaultLimit > c.Paging.MaxLimit {
		return fmt.Errorf("paging limits invalid: default %d, max %d", c.Paging.DefaultLimit, c.Paging.MaxLimit)
	}
	if c.Events.Workers < 0 || (c.Events.Workers > 0 && c.Events.QueueSize < 1) {
		return fmt.Errorf("events: invalid pool, workers %d, queue size %d", c.Events.Workers, c.Events.QueueSize)
	}
	if c.Files.MaxConcurrentUploads < 0 {
		return fmt.Errorf("files.max_concurrent_uploads must not be negative, got %d", c.Files.MaxConcurrentUploads)
	}
	return nil
}

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	nv.SetDefault("app_name", "cargohold")
	nv.SetDefault("run_mode", "release")
	nv.SetDefault("version", "dev")

	// Unprefixed names accepted for compatibility with existing deployments.
	for key, env := range legacyEnv {
		_ = nv.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
	return nv
}

var legacyEnv = map[string]string{
	"data.database.source":      "DATABASE_URL",
	"server.public.host":        "PUBLIC_HOST",
	"server.public.port":        "PUBLIC_PORT",
	"server.private.host":       "PRIVATE_HOST",
	"server.private.port":       "PRIVATE_PORT",
	"storage.endpoint":          "STORAGE_BASE_URL",
	"storage.bucket":            "STORAGE_BUCKET",
	"files.max_file_size_bytes": "MAX_FILE_SIZE_BYTES",
	"files.allowed_purposes":    "ALLOWED_PURPOSES",
	"snowflake.worker_id":       "WORKER_ID",
	"snowflake.datacenter_id":   "DATACENTER_ID",
}

// Reload reloads the configuration from the file.
func Reload() error {
	mu.RLock()
	p := path
	mu.RUnlock()

	newConfig, err := LoadConfig(p)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	mu.Lock()
	config = newConfig
	mu.Unlock()
	return nil
}

// Watch watches the configuration file and reloads it when it changes.
func Watch(callback func(*Config)) {
	mu.RLock()
	wv := v
	mu.RUnlock()
	if wv == nil || wv.ConfigFileUsed() == "" {
		return
	}

	wv.OnConfigChange(func(e fsnotify.Event) {
		if err := Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reloading config: %v\n", err)
			return
		}
		mu.RLock()
		cfg := config
		mu.RUnlock()
		callback(cfg)
	})
	wv.WatchConfig()
}
