// Package cleanup removes staged uploads that outlived their request.
//
// A request that dies between staging its upload and handing it to the
// backend (process crash, killed connection mid-ingest) leaves the staged
// file behind. RunPeriodic deletes staging files whose mtime is older than
// the configured TTL.
package cleanup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Sweep removes regular files in stagingDir older than ttl and returns how
// many were removed. Files of in-flight uploads are recent and left alone.
func Sweep(stagingDir string, ttl time.Duration, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("staging sweep: readdir failed",
				slog.String("dir", stagingDir),
				slog.String("error", err.Error()),
			)
		}
		return 0
	}

	cutoff := time.Now().Add(-ttl)
	var removed int
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		age := time.Since(info.ModTime()).Round(time.Minute)
		if err := os.Remove(filepath.Join(stagingDir, e.Name())); err != nil {
			logger.Warn("staging sweep: remove failed",
				slog.String("file", e.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		removed++
		logger.Info("staging sweep: removed stale upload",
			slog.String("file", e.Name()),
			slog.Duration("age", age),
		)
	}
	if removed > 0 {
		logger.Info("staging sweep: cycle complete", slog.Int("removed", removed))
	}
	return removed
}

// RunPeriodic starts a background goroutine that calls Sweep every interval
// until ctx is cancelled. The first pass runs immediately to clear uploads
// left by a previous run. A non-positive interval disables the ticker and only
// that first pass runs. The returned channel is closed when the goroutine exits.
func RunPeriodic(ctx context.Context, stagingDir string, ttl, interval time.Duration, logger *slog.Logger) <-chan struct{} {
	if logger == nil {
		logger = slog.Default()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		Sweep(stagingDir, ttl, logger)

		if interval <= 0 {
			logger.Warn("staging sweep: periodic sweep disabled",
				slog.Duration("interval", interval),
			)
			<-ctx.Done()
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				Sweep(stagingDir, ttl, logger)
			case <-ctx.Done():
				return
			}
		}
	}()
	return done
}
