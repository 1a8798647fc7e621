package common

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable, e.g. ITINERARY_DB_DSN.
const EnvPrefix = "ITINERARY"

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `envconfig:"DB"`
	Server   ServerConfig   `envconfig:"SERVER"`
	Parse    ParseConfig    `envconfig:"PARSE"`
	Ingest   IngestConfig   `envconfig:"INGEST"`
	Export   ExportConfig   `envconfig:"EXPORT"`
	LogLevel string         `envconfig:"LOG_LEVEL" default:"info"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string        `envconfig:"DRIVER" default:"sqlite"`
	DSN              string        `envconfig:"DSN" default:"itinerary.db"`
	MaxConns         int32         `envconfig:"MAX_CONNS" default:"20"`
	MinConns         int32         `envconfig:"MIN_CONNS" default:"2"`
	MaxConnLifetime  time.Duration `envconfig:"MAX_CONN_LIFETIME" default:"30m"`
	MaxConnIdleTime  time.Duration `envconfig:"MAX_CONN_IDLE_TIME" default:"5m"`
	DialTimeout      time.Duration `envconfig:"DIAL_TIMEOUT" default:"3s"`
	StatementTimeout time.Duration `envconfig:"STATEMENT_TIMEOUT" default:"0s"`
	AutoMigrate      bool          `envconfig:"AUTO_MIGRATE" default:"true"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr       string        `envconfig:"GRPC_ADDR" default:":8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// ParseConfig controls how M/D dates are completed.
type ParseConfig struct {
	// DefaultYear <= 0 means the current year.
	DefaultYear int `envconfig:"DEFAULT_YEAR" default:"0"`
}

// IngestConfig holds directory ingest and watcher settings
type IngestConfig struct {
	Roots      []string      `envconfig:"ROOTS"`
	Debounce   time.Duration `envconfig:"DEBOUNCE" default:"500ms"`
	Workers    int           `envconfig:"WORKERS" default:"4"`
	Queue      int           `envconfig:"QUEUE" default:"64"`
	SkipHidden bool          `envconfig:"SKIP_HIDDEN" default:"true"`
}

// ExportConfig holds document export settings
type ExportConfig struct {
	OutDir   string `envconfig:"OUT_DIR" default:"./exports"`
	FontPath string `envconfig:"FONT_PATH"`
}

// LoadConfig loads configuration from ITINERARY_* environment variables
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	return &cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unsupported %s_DB_DRIVER %q", EnvPrefix, c.Database.Driver), ErrInvalidInput)
	}
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", EnvPrefix+"_DB_DSN is required", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", EnvPrefix+"_SERVER_GRPC_ADDR is required", ErrInvalidInput)
	}
	if c.Ingest.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", EnvPrefix+"_INGEST_WORKERS must be positive", ErrInvalidInput)
	}
	if c.Parse.DefaultYear < 0 {
		return NewAppError("CONFIG_ERROR", EnvPrefix+"_PARSE_DEFAULT_YEAR must not be negative", ErrInvalidInput)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
