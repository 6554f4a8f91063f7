// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrS3RegionRequired is returned when S3_BUCKET is set without S3_REGION.
	ErrS3RegionRequired = errors.New("config: S3_REGION is required when S3_BUCKET is set")
	// ErrInvalidSeasonRetries is returned when SEASON_RETRIES is negative.
	ErrInvalidSeasonRetries = errors.New("config: SEASON_RETRIES must not be negative")
	// ErrInvalidPort is returned when PORT is outside 1-65535.
	ErrInvalidPort = errors.New("config: PORT must be between 1 and 65535")
	// ErrInvalidStagingTTL is returned when STAGING_TTL is not positive.
	ErrInvalidStagingTTL = errors.New("config: STAGING_TTL must be positive")
	// ErrInvalidSweepInterval is returned when STAGING_SWEEP_INTERVAL is not positive.
	ErrInvalidSweepInterval = errors.New("config: STAGING_SWEEP_INTERVAL must be positive")
	// ErrInvalidTraceExporter is returned when TRACE_EXPORTER is not "none" or "stdout".
	ErrInvalidTraceExporter = errors.New(`config: TRACE_EXPORTER must be "none" or "stdout"`)
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8001" json:"port"`

	// Storage settings
	MediaDir             string        `env:"MEDIA_DIR, default=./media" json:"media_dir"`
	StagingDir           string        `env:"STAGING_DIR, default=/tmp/media-stash" json:"staging_dir"`
	StagingTTL           time.Duration `env:"STAGING_TTL, default=24h" json:"staging_ttl"`
	StagingSweepInterval time.Duration `env:"STAGING_SWEEP_INTERVAL, default=1h" json:"staging_sweep_interval"`

	// Naming settings
	SeasonRetries int               `env:"SEASON_RETRIES, default=1" json:"season_retries"`
	TypeDirs      map[string]string `env:"TYPE_DIRS" json:"type_dirs,omitempty"` // e.g. "movie:Movies,tv:TV Shows"
	TypesFile     string            `env:"TYPES_FILE" json:"types_file,omitempty"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"` // MinIO and other S3-compatible stores
	S3MaxAttempts      int    `env:"S3_MAX_ATTEMPTS, default=3" json:"s3_max_attempts"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"

	// Tracing settings
	TraceExporter string `env:"TRACE_EXPORTER, default=none" json:"trace_exporter"` // "none" or "stdout"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is consistent.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.S3Bucket != "" && c.S3Region == "" {
		return ErrS3RegionRequired
	}
	if c.SeasonRetries < 0 {
		return ErrInvalidSeasonRetries
	}
	if c.StagingTTL <= 0 {
		return ErrInvalidStagingTTL
	}
	if c.StagingSweepInterval <= 0 {
		return ErrInvalidSweepInterval
	}
	switch strings.ToLower(c.TraceExporter) {
	case "", "none", "stdout":
	default:
		return ErrInvalidTraceExporter
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	return c.newLogger(os.Stdout)
}

func (c *Config) newLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.LogLevel)}

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, MediaDir: %s, StagingDir: %s, StagingTTL: %s, SeasonRetries: %d, TypesFile: %s, S3Bucket: %s, S3Region: %s, S3Endpoint: %s, LogFormat: %s, LogLevel: %s, TraceExporter: %s}",
		c.Port,
		c.MediaDir,
		c.StagingDir,
		c.StagingTTL,
		c.SeasonRetries,
		c.TypesFile,
		c.S3Bucket,
		c.S3Region,
		c.S3Endpoint,
		c.LogFormat,
		c.LogLevel,
		c.TraceExporter,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
