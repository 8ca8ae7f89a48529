// Package config loads runtime configuration for the CLI, the HTTP server
// and the embedded database.
//
// Values come from three layers, later ones winning:
//  1. built-in defaults
//  2. an optional YAML/TOML/JSON file
//  3. environment variables prefixed with LIGHTOLA_, where "." becomes "_"
//     (server.read_timeout is LIGHTOLA_SERVER_READ_TIMEOUT)
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "LIGHTOLA"

// Config is the full configuration tree.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Bench    BenchConfig    `mapstructure:"bench"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json or style
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"` // requests per second, 0 disables
	RateBurst      int           `mapstructure:"rate_burst"`
}

// DatabaseConfig controls the embedded database.
type DatabaseConfig struct {
	StatementCacheSize int           `mapstructure:"statement_cache_size"`
	SlowQuery          time.Duration `mapstructure:"slow_query"`
}

// BenchConfig sizes the benchmark workload.
type BenchConfig struct {
	Rows      int `mapstructure:"rows"`
	BatchSize int `mapstructure:"batch_size"`
	Workers   int `mapstructure:"workers"`
	Queries   int `mapstructure:"queries"`
}

var defaults = map[string]any{
	"log.level":  "info",
	"log.format": "text",

	"server.addr":            ":8080",
	"server.read_timeout":    15 * time.Second,
	"server.write_timeout":   30 * time.Second,
	"server.request_timeout": 30 * time.Second,
	"server.rate_limit":      100.0,
	"server.rate_burst":      50,

	"database.statement_cache_size": 256,
	"database.slow_query":           500 * time.Millisecond,

	"bench.rows":       100000,
	"bench.batch_size": 1000,
	"bench.workers":    4,
	"bench.queries":    20,
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// Load reads the config file at path (skipped when empty) and overlays the
// environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Log.Format {
	case "text", "json", "style":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.Database.StatementCacheSize < 0 {
		errs = append(errs, errors.New("database.statement_cache_size must not be negative"))
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		errs = append(errs, errors.New("server.rate_limit and server.rate_burst must not be negative"))
	}
	if c.Bench.Rows < 0 || c.Bench.BatchSize <= 0 || c.Bench.Workers <= 0 {
		errs = append(errs, errors.New("bench: rows must be >= 0, batch_size and workers > 0"))
	}
	return errors.Join(errs...)
}
