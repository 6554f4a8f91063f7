package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "MEDIA_DIR", "STAGING_DIR", "STAGING_TTL", "STAGING_SWEEP_INTERVAL",
	"SEASON_RETRIES", "TYPE_DIRS", "TYPES_FILE",
	"S3_BUCKET", "S3_REGION", "S3_ENDPOINT", "S3_MAX_ATTEMPTS",
	"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
	"LOG_FORMAT", "LOG_LEVEL", "TRACE_EXPORTER",
}

// clearEnv unsets every variable Config reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "./media", cfg.MediaDir)
	assert.Equal(t, "/tmp/media-stash", cfg.StagingDir)
	assert.Equal(t, 24*time.Hour, cfg.StagingTTL)
	assert.Equal(t, time.Hour, cfg.StagingSweepInterval)
	assert.Equal(t, 1, cfg.SeasonRetries)
	assert.Equal(t, 3, cfg.S3MaxAttempts)
	assert.Empty(t, cfg.TypeDirs)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "none", cfg.TraceExporter)
	assert.False(t, cfg.S3Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("MEDIA_DIR", "/srv/media")
	t.Setenv("STAGING_DIR", "/custom/staging")
	t.Setenv("STAGING_TTL", "2h")
	t.Setenv("STAGING_SWEEP_INTERVAL", "10m")
	t.Setenv("SEASON_RETRIES", "3")
	t.Setenv("TYPE_DIRS", "movie:Movies,tv:TV Shows")
	t.Setenv("S3_BUCKET", "my-bucket")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_MAX_ATTEMPTS", "5")
	t.Setenv("AWS_ACCESS_KEY_ID", "access-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret-key")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TRACE_EXPORTER", "stdout")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "/srv/media", cfg.MediaDir)
	assert.Equal(t, "/custom/staging", cfg.StagingDir)
	assert.Equal(t, 2*time.Hour, cfg.StagingTTL)
	assert.Equal(t, 10*time.Minute, cfg.StagingSweepInterval)
	assert.Equal(t, 3, cfg.SeasonRetries)
	assert.Equal(t, map[string]string{"movie": "Movies", "tv": "TV Shows"}, cfg.TypeDirs)
	assert.Equal(t, "my-bucket", cfg.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Equal(t, "http://localhost:9000", cfg.S3Endpoint)
	assert.Equal(t, 5, cfg.S3MaxAttempts)
	assert.Equal(t, "access-key", cfg.AWSAccessKeyID)
	assert.Equal(t, "secret-key", cfg.AWSSecretAccessKey)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.True(t, cfg.S3Enabled())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"PORT":           "not-a-number",
		"STAGING_TTL":    "forever",
		"SEASON_RETRIES": "one",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			// go-envconfig returns an error when parsing fails
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestConfig_S3Enabled(t *testing.T) {
	tests := []struct {
		name     string
		bucket   string
		region   string
		expected bool
	}{
		{"both set", "bucket", "region", true},
		{"only bucket", "bucket", "", false},
		{"only region", "", "region", false},
		{"neither set", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				S3Bucket: tt.bucket,
				S3Region: tt.region,
			}
			assert.Equal(t, tt.expected, cfg.S3Enabled())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{Port: 8001, SeasonRetries: 1, StagingTTL: 24 * time.Hour, StagingSweepInterval: time.Hour}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("bucket without region", func(t *testing.T) {
		cfg := valid()
		cfg.S3Bucket = "bucket"
		assert.ErrorIs(t, cfg.Validate(), ErrS3RegionRequired)
	})

	t.Run("negative season retries", func(t *testing.T) {
		cfg := valid()
		cfg.SeasonRetries = -1
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidSeasonRetries)
	})

	t.Run("zero season retries allowed", func(t *testing.T) {
		cfg := valid()
		cfg.SeasonRetries = 0
		assert.NoError(t, cfg.Validate())
	})

	t.Run("port out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Port = 70000
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidPort)
	})

	t.Run("non-positive staging ttl", func(t *testing.T) {
		for _, ttl := range []time.Duration{0, -time.Minute} {
			cfg := valid()
			cfg.StagingTTL = ttl
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidStagingTTL, "ttl %s", ttl)
		}
	})

	t.Run("trace exporters", func(t *testing.T) {
		for _, name := range []string{"", "none", "stdout", "STDOUT"} {
			cfg := valid()
			cfg.TraceExporter = name
			assert.NoError(t, cfg.Validate(), "exporter %q", name)
		}

		cfg := valid()
		cfg.TraceExporter = "zipkin"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidTraceExporter)
	})

	t.Run("non-positive sweep interval", func(t *testing.T) {
		for _, interval := range []time.Duration{0, -time.Second} {
			cfg := valid()
			cfg.StagingSweepInterval = interval
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidSweepInterval, "interval %s", interval)
		}
	})
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{
		Port:               8001,
		MediaDir:           "/srv/media",
		StagingDir:         "/tmp/test",
		S3Bucket:           "bucket",
		S3Region:           "region",
		AWSAccessKeyID:     "access-key-id",
		AWSSecretAccessKey: "secret-key",
		LogFormat:          "json",
		LogLevel:           "info",
	}

	str := cfg.String()

	// Should contain non-sensitive values
	assert.Contains(t, str, "8001")
	assert.Contains(t, str, "/srv/media")
	assert.Contains(t, str, "/tmp/test")

	// Should NOT contain sensitive values
	assert.NotContains(t, str, "secret-key")
	assert.NotContains(t, str, "access-key-id")
}

func TestConfig_NewLogger_JSON(t *testing.T) {
	cfg := &Config{
		LogFormat: "json",
		LogLevel:  "info",
	}
	require.NotNil(t, cfg.NewLogger())

	var buf bytes.Buffer
	logger := cfg.newLogger(&buf)
	logger.Debug("hidden")
	logger.Info("test message", slog.String("entry_id", "abc"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "test message", record["msg"])
	assert.Equal(t, "abc", record["entry_id"])
}

func TestConfig_NewLogger_Text(t *testing.T) {
	cfg := &Config{
		LogFormat: "text",
		LogLevel:  "debug",
	}

	var buf bytes.Buffer
	cfg.newLogger(&buf).Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo}, // defaults to info
		{"", slog.LevelInfo},        // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}
