package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Upload    UploadConfig    `yaml:"upload"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080" yaml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" yaml:"host"`
}

// StorageConfig holds registry storage configuration.
type StorageConfig struct {
	DataDir string `envconfig:"REGISTRY_DATA_DIR" default:"/data" yaml:"dataDir"`
}

// UploadConfig holds artifact upload limits.
type UploadConfig struct {
	MaxBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"104857600" yaml:"maxBytes"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requestsPerSecond"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// Load loads configuration from environment variables. When
// REGISTRY_CONFIG_FILE names a YAML file, its values are applied first
// and individual environment variables override them.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if path := os.Getenv("REGISTRY_CONFIG_FILE"); path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		merge(&cfg, fileCfg, envSet())
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Storage: StorageConfig{
			DataDir: "/data",
		},
		Upload: UploadConfig{
			MaxBytes: 104857600,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// envSet reports which envconfig keys were explicitly set.
func envSet() map[string]bool {
	keys := []string{
		"PORT", "HOST", "REGISTRY_DATA_DIR", "MAX_UPLOAD_BYTES",
		"LOG_LEVEL", "LOG_DEV",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_ENABLED",
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := os.LookupEnv(k); ok {
			set[k] = true
		}
	}
	return set
}

// merge applies file values onto cfg for every key the environment left unset.
func merge(cfg, file *Config, env map[string]bool) {
	if !env["PORT"] && file.Server.Port != "" {
		cfg.Server.Port = file.Server.Port
	}
	if !env["HOST"] && file.Server.Host != "" {
		cfg.Server.Host = file.Server.Host
	}
	if !env["REGISTRY_DATA_DIR"] && file.Storage.DataDir != "" {
		cfg.Storage.DataDir = file.Storage.DataDir
	}
	if !env["MAX_UPLOAD_BYTES"] && file.Upload.MaxBytes > 0 {
		cfg.Upload.MaxBytes = file.Upload.MaxBytes
	}
	if !env["LOG_LEVEL"] && file.Logging.Level != "" {
		cfg.Logging.Level = file.Logging.Level
	}
	if !env["LOG_DEV"] {
		cfg.Logging.Development = cfg.Logging.Development || file.Logging.Development
	}
	if !env["RATE_LIMIT_RPS"] && file.RateLimit.RequestsPerSecond > 0 {
		cfg.RateLimit.RequestsPerSecond = file.RateLimit.RequestsPerSecond
	}
	if !env["RATE_LIMIT_BURST"] && file.RateLimit.Burst > 0 {
		cfg.RateLimit.Burst = file.RateLimit.Burst
	}
	if !env["RATE_LIMIT_ENABLED"] {
		cfg.RateLimit.Enabled = cfg.RateLimit.Enabled && file.RateLimit.Enabled
	}
}
