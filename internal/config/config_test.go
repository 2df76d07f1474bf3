package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Registry.Driver)
	assert.Equal(t, time.Hour, cfg.Registry.TTL)
	assert.Equal(t, int64(100<<20), cfg.Limits.MaxImageBytes)
	assert.Equal(t, int64(300<<20), cfg.Limits.MaxVideoBytes)
	assert.Equal(t, int64(500<<20), cfg.Limits.MaxCompressBytes)
	assert.Equal(t, 2.0, cfg.Convert.RenderScale)

	require.NoError(t, cfg.Validate())
}

func TestLoad_NoPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9000
registry:
  driver: redis
  ttl: 30m
  redis:
    addr: redis.internal:6379
convert:
  render_scale: 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Registry.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Registry.TTL)
	assert.Equal(t, "redis.internal:6379", cfg.Registry.Redis.Addr)
	assert.Equal(t, 1.5, cfg.Convert.RenderScale)

	// Untouched sections keep defaults.
	assert.Equal(t, int64(100<<20), cfg.Limits.MaxImageBytes)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7777")
	t.Setenv("REGISTRY_TTL", "15m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Registry.TTL)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestLoad_RedisAddrSwitchesDriver(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Registry.Driver)
	assert.Equal(t, "cache:6379", cfg.Registry.Redis.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad driver", func(c *Config) { c.Registry.Driver = "postgres" }},
		{"zero ttl", func(c *Config) { c.Registry.TTL = 0 }},
		{"zero render scale", func(c *Config) { c.Convert.RenderScale = 0 }},
		{"quality over 100", func(c *Config) { c.Convert.JPEGQuality = 101 }},
		{"zero image limit", func(c *Config) { c.Limits.MaxImageBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
