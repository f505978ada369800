/*
Package config loads the server configuration.

PRECEDENCE:
  Default() < config.toml < command-line flags

  Flags are applied by cmd/server after Load. A missing config file is not
  an error when no path was given explicitly.

EXAMPLE config.toml:

  [server]
  port = 8080
  dev_mode = false
  cors_origins = ["http://localhost:5173"]

  [data]
  dir = "data"
  db = ""
  watch = false
  debounce_ms = 300

  [analytics]
  compare_min = 2
  compare_max = 4
  ranking_exclude = ["sms"]

  [log]
  level = "info"
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/warp/welfare-intel/welfare"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "config.toml"

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int      `toml:"port"`
	DevMode         bool     `toml:"dev_mode"`
	CORSOrigins     []string `toml:"cors_origins"`
	ReadTimeoutSec  int      `toml:"read_timeout_sec"`
	WriteTimeoutSec int      `toml:"write_timeout_sec"`
}

// DataConfig selects the dataset source. DB wins over Dir when both are set.
type DataConfig struct {
	Dir        string `toml:"dir"`
	DB         string `toml:"db"`
	Watch      bool   `toml:"watch"`
	DebounceMS int    `toml:"debounce_ms"`
}

// AnalyticsConfig tunes the comparison and ranking views.
type AnalyticsConfig struct {
	CompareMin     int      `toml:"compare_min"`
	CompareMax     int      `toml:"compare_max"`
	RankingExclude []string `toml:"ranking_exclude"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 30,
		},
		Data: DataConfig{
			Dir:        "data",
			DebounceMS: 300,
		},
		Analytics: AnalyticsConfig{
			CompareMin:     2,
			CompareMax:     4,
			RankingExclude: []string{"sms"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadInfo describes where the configuration came from.
type LoadInfo struct {
	Path  string
	Found bool
}

// Load reads path over the defaults. An empty path tries DefaultPath and
// falls back to defaults when it does not exist.
func Load(path string) (*Config, LoadInfo, error) {
	cfg := Default()
	info := LoadInfo{Path: path}
	explicit := path != ""
	if !explicit {
		info.Path = DefaultPath
	}

	data, err := os.ReadFile(info.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, info, nil
		}
		return nil, info, fmt.Errorf("reading config: %w", err)
	}
	info.Found = true

	if err := Parse(data, cfg); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

// Parse decodes TOML over cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return cfg.Validate()
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Analytics.CompareMin < welfare.DefaultMinSelection {
		return fmt.Errorf("analytics.compare_min must be at least %d", welfare.DefaultMinSelection)
	}
	if c.Analytics.CompareMax != 0 && c.Analytics.CompareMax < c.Analytics.CompareMin {
		return fmt.Errorf("analytics.compare_max %d below compare_min %d",
			c.Analytics.CompareMax, c.Analytics.CompareMin)
	}
	if c.Data.DebounceMS < 0 {
		return fmt.Errorf("data.debounce_ms must not be negative")
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(c *Config) ([]byte, error) {
	return toml.Marshal(c)
}

// ReadTimeout returns the server read timeout.
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

// WriteTimeout returns the server write timeout.
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

// Debounce returns the reloader debounce interval.
func (d DataConfig) Debounce() time.Duration {
	return time.Duration(d.DebounceMS) * time.Millisecond
}
