// Package config provides unified configuration loading for fileforge.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the fileforge service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Limits        LimitsConfig        `yaml:"limits"`
	Registry      RegistryConfig      `yaml:"registry"`
	Convert       ConvertConfig       `yaml:"convert"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxConcurrent    int           `yaml:"max_concurrent"`
}

// LimitsConfig holds per route family upload size ceilings in bytes.
type LimitsConfig struct {
	MaxImageBytes    int64 `yaml:"max_image_bytes"`
	MaxPDFBytes      int64 `yaml:"max_pdf_bytes"`
	MaxVideoBytes    int64 `yaml:"max_video_bytes"`
	MaxCompressBytes int64 `yaml:"max_compress_bytes"`
}

// RegistryConfig holds artifact registry settings.
type RegistryConfig struct {
	Driver        string        `yaml:"driver"` // memory or redis
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	Redis         RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// ConvertConfig holds conversion engine settings.
type ConvertConfig struct {
	RenderScale float64       `yaml:"render_scale"` // PDF page render zoom factor
	JPEGQuality int           `yaml:"jpeg_quality"`
	SofficePath string        `yaml:"soffice_path"`
	FFmpegPath  string        `yaml:"ffmpeg_path"`
	ToolTimeout time.Duration `yaml:"tool_timeout"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
// A .env file next to the working directory is honoured when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      5 * time.Minute,
			WriteTimeout:     5 * time.Minute,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			MaxConcurrent:    32,
		},
		Limits: LimitsConfig{
			MaxImageBytes:    100 << 20,
			MaxPDFBytes:      100 << 20,
			MaxVideoBytes:    300 << 20,
			MaxCompressBytes: 500 << 20,
		},
		Registry: RegistryConfig{
			Driver:        "memory",
			TTL:           1 * time.Hour,
			SweepInterval: 5 * time.Minute,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Convert: ConvertConfig{
			RenderScale: 2.0,
			JPEGQuality: 90,
			SofficePath: "soffice",
			FFmpegPath:  "ffmpeg",
			ToolTimeout: 2 * time.Minute,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "fileforge",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Registry.Driver != "memory" && c.Registry.Driver != "redis" {
		return fmt.Errorf("invalid registry driver: %s", c.Registry.Driver)
	}

	if c.Registry.TTL <= 0 {
		return fmt.Errorf("registry ttl must be positive")
	}

	if c.Convert.RenderScale <= 0 {
		return fmt.Errorf("render_scale must be positive")
	}

	if c.Convert.JPEGQuality < 1 || c.Convert.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100")
	}

	for name, v := range map[string]int64{
		"max_image_bytes":    c.Limits.MaxImageBytes,
		"max_pdf_bytes":      c.Limits.MaxPDFBytes,
		"max_video_bytes":    c.Limits.MaxVideoBytes,
		"max_compress_bytes": c.Limits.MaxCompressBytes,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("REGISTRY_DRIVER"); v != "" {
		cfg.Registry.Driver = v
	}

	if v := os.Getenv("REGISTRY_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Registry.TTL = d
		}
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Registry.Driver = "redis"
		cfg.Registry.Redis.Addr = v
	}

	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Registry.Redis.Password = v
	}

	if v := os.Getenv("SOFFICE_PATH"); v != "" {
		cfg.Convert.SofficePath = v
	}

	if v := os.Getenv("FFMPEG_PATH"); v != "" {
		cfg.Convert.FFmpegPath = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
