package bootstrap

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maauso/media-stash/internal/config"
	"github.com/maauso/media-stash/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Port:                 8001,
		MediaDir:             filepath.Join(dir, "media"),
		StagingDir:           filepath.Join(dir, "staging"),
		StagingTTL:           24 * time.Hour,
		StagingSweepInterval: time.Hour,
		SeasonRetries:        1,
	}
}

func TestNewDependencies_Local(t *testing.T) {
	cfg := baseConfig(t)

	deps, err := NewDependencies(cfg, testLogger())
	require.NoError(t, err)

	require.NotNil(t, deps.MediaService)
	assert.Equal(t, cfg.StagingDir, deps.Staging.Dir())

	local, ok := deps.Backend.(*storage.LocalBackend)
	require.True(t, ok, "expected local backend, got %T", deps.Backend)
	assert.Equal(t, cfg.MediaDir, local.Root())
}

func TestNewDependencies_Tracing(t *testing.T) {
	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	})

	cfg := baseConfig(t)
	cfg.TraceExporter = "stdout"

	deps, err := NewDependencies(cfg, testLogger())
	require.NoError(t, err)
	require.NotNil(t, deps.TracerProvider)
	t.Cleanup(func() { _ = deps.TracerProvider.Shutdown(context.Background()) })

	assert.Same(t, deps.TracerProvider, otel.GetTracerProvider())
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestNewDependencies_S3(t *testing.T) {
	cfg := baseConfig(t)
	cfg.S3Bucket = "media"
	cfg.S3Region = "eu-west-1"
	cfg.S3Endpoint = "http://localhost:9000"
	cfg.AWSAccessKeyID = "key"
	cfg.AWSSecretAccessKey = "secret"

	deps, err := NewDependencies(cfg, testLogger())
	require.NoError(t, err)

	s3Backend, ok := deps.Backend.(*storage.S3Backend)
	require.True(t, ok, "expected S3 backend, got %T", deps.Backend)
	assert.Equal(t, "media", s3Backend.Bucket())
}

func TestNewDependencies_InvalidConfig(t *testing.T) {
	cfg := baseConfig(t)
	cfg.S3Bucket = "media"

	_, err := NewDependencies(cfg, testLogger())
	assert.ErrorIs(t, err, config.ErrS3RegionRequired)
}

func TestNewDependencies_ZeroSweepInterval(t *testing.T) {
	cfg := baseConfig(t)
	cfg.StagingSweepInterval = 0

	_, err := NewDependencies(cfg, testLogger())
	assert.ErrorIs(t, err, config.ErrInvalidSweepInterval)
}

func TestNewDependencies_BadTypesFile(t *testing.T) {
	cfg := baseConfig(t)
	cfg.TypesFile = filepath.Join(t.TempDir(), "types.yaml")
	require.NoError(t, os.WriteFile(cfg.TypesFile, []byte("types: [broken"), 0600))

	_, err := NewDependencies(cfg, testLogger())
	assert.ErrorContains(t, err, "parse types file")
}
