// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Input   InputConfig
	Persist PersistConfig
	Run     RunConfig
	Logging LoggingConfig
}

// InputConfig holds where account sources are read from.
type InputConfig struct {
	// DataDir is walked recursively for source files (default: data)
	DataDir string `env:"DATA_DIR" default:"data"`

	// Files is an explicit comma-separated list of source files. When set,
	// DataDir is not walked and the files are read in the order given.
	Files []string `env:"DATA_FILES"`
}

// PersistConfig holds the create_database target.
type PersistConfig struct {
	// Target is a SQLite file path or a postgres:// URL (default: users_database.db)
	// Supports both PERSIST_TARGET and DATABASE_URL env vars
	Target string `env:"PERSIST_TARGET" envAlt:"DATABASE_URL" default:"users_database.db"`
}

// RunConfig holds per-invocation limits.
type RunConfig struct {
	// Timeout bounds one whole command, import included (default: 2m)
	Timeout time.Duration `env:"RUN_TIMEOUT" default:"2m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
