// Package bootstrap provides dependency initialization for media-stash.
package bootstrap

import (
	"fmt"
	"log/slog"
	"os"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/maauso/media-stash/internal/config"
	"github.com/maauso/media-stash/internal/media"
	"github.com/maauso/media-stash/internal/storage"
	"github.com/maauso/media-stash/internal/telemetry"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	MediaService *media.Service
	Staging      *storage.Staging
	Backend      storage.Backend
	// TracerProvider is installed globally; the caller shuts it down on exit.
	TracerProvider *sdktrace.TracerProvider
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := initBackend(cfg, logger)
	if err != nil {
		return nil, err
	}

	staging, err := storage.NewStaging(cfg.StagingDir)
	if err != nil {
		return nil, fmt.Errorf("create staging area: %w", err)
	}

	typeDirs, err := cfg.TypeDirectories()
	if err != nil {
		return nil, err
	}
	if len(typeDirs) > 0 {
		logger.Info("type directories configured", slog.Any("type_dirs", typeDirs))
	}

	svc := media.NewService(
		media.NewMemoryRegistry(),
		backend,
		logger,
		media.WithTypeDirs(typeDirs),
		media.WithSeasonRetries(cfg.SeasonRetries),
	)

	tp, err := telemetry.NewTracerProvider(cfg.TraceExporter, os.Stderr)
	if err != nil {
		return nil, err
	}
	telemetry.Install(tp)
	logger.Info("tracing configured", slog.String("exporter", cfg.TraceExporter))

	return &Dependencies{
		MediaService:   svc,
		Staging:        staging,
		Backend:        backend,
		TracerProvider: tp,
	}, nil
}

// initBackend creates the storage backend selected by configuration.
func initBackend(cfg *config.Config, logger *slog.Logger) (storage.Backend, error) {
	if cfg.S3Enabled() {
		s3Backend, err := storage.NewS3Backend(storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			MaxAttempts:     cfg.S3MaxAttempts,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 backend: %w", err)
		}
		logger.Info("S3 backend configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
			slog.String("endpoint", cfg.S3Endpoint),
		)
		return s3Backend, nil
	}

	local, err := storage.NewLocalBackend(cfg.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("create local backend: %w", err)
	}
	logger.Info("local backend configured",
		slog.String("media_dir", local.Root()),
	)
	return local, nil
}
