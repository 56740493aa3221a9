// Package config defines service configuration and its loading layers.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and SQUADUP_* env vars.
// - Validation failures wrap ErrInvalidConfig; provider failures wrap ErrLoadConfig.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, tees logs into a rotating file.
	LogFile string `koanf:"log_file"`

	// LogMaxSizeMB, LogMaxBackups and LogMaxAgeDays bound log file rotation.
	LogMaxSizeMB  int `koanf:"log_max_size_mb"`
	LogMaxBackups int `koanf:"log_max_backups"`
	LogMaxAgeDays int `koanf:"log_max_age_days"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseDSN selects the Postgres store. Empty uses the in-memory store.
	DatabaseDSN string `koanf:"database_dsn"`

	// DBConnectAttempts bounds connection retries at startup.
	DBConnectAttempts int `koanf:"db_connect_attempts"`

	// QueueSize bounds the background job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of background workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the number of pending job keys tracked.
	DedupeSize int `koanf:"dedupe_size"`

	// AutoAggregate enqueues an aggregation job after each rating submission.
	AutoAggregate bool `koanf:"auto_aggregate"`

	// ModifierDecay is the factor applied to every modifier row per award run.
	ModifierDecay float64 `koanf:"modifier_decay"`

	// DefaultAttribute is the attribute value of players without a profile.
	DefaultAttribute float64 `koanf:"default_attribute"`

	// RateLimitRPS and RateLimitBurst throttle write endpoints. RPS <= 0 disables.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// MaxProfileLimit caps GET /profiles?limit.
	MaxProfileLimit int `koanf:"max_profile_limit"`
}

// New creates a Config with defaults. Context is accepted first to satisfy the
// project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogMaxSizeMB:      50,
		LogMaxBackups:     3,
		LogMaxAgeDays:     28,
		Addr:              ":9080",
		DBConnectAttempts: 5,
		QueueSize:         64,
		WorkerCount:       max(1, runtime.NumCPU()/2),
		DedupeSize:        1024,
		AutoAggregate:     false,
		ModifierDecay:     0.98,
		DefaultAttribute:  3.0,
		RateLimitRPS:      20,
		RateLimitBurst:    40,
		MaxProfileLimit:   100,
	}
}
