// Package config provides YAML-based configuration for the viewer server.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the serve command. Any field left
// out of the file keeps its default.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Series SeriesConfig `yaml:"series"`
	Tail   TailConfig   `yaml:"tail"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	EnableCORS   bool   `yaml:"enableCORS"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
}

// SeriesConfig contains aggregation settings.
type SeriesConfig struct {
	SegmentDurationSeconds int64 `yaml:"segmentDurationSeconds"`
}

// TailConfig controls the live-follow loop.
type TailConfig struct {
	IntervalMillis int `yaml:"intervalMillis"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "127.0.0.1",
			EnableCORS:   true,
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
		},
		Series: SeriesConfig{
			SegmentDurationSeconds: 1,
		},
		Tail: TailConfig{
			IntervalMillis: 500,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Series.SegmentDurationSeconds <= 0 {
		return fmt.Errorf("config: segmentDurationSeconds must be positive, got %d", c.Series.SegmentDurationSeconds)
	}
	if c.Tail.IntervalMillis <= 0 {
		return fmt.Errorf("config: tail intervalMillis must be positive, got %d", c.Tail.IntervalMillis)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	return nil
}

// ServerAddr returns the host:port the server binds to.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// TailInterval returns the follow poll cadence as a Duration.
func (c *Config) TailInterval() time.Duration {
	return time.Duration(c.Tail.IntervalMillis) * time.Millisecond
}
