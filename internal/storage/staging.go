package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Staging is the local directory uploads are written to before ingestion.
// Files left behind by crashed requests are swept by the cleanup package.
type Staging struct {
	dir string
}

// NewStaging creates a new Staging area.
// If dir is empty, a "media-stash" directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewStaging(dir string) (*Staging, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "media-stash")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	return &Staging{dir: dir}, nil
}

// Dir returns the staging directory path.
func (s *Staging) Dir() string {
	return s.dir
}

// SaveTemp streams data into a new staging file and returns its path.
// The name is used as a prefix for the filename with a unique suffix.
func (s *Staging) SaveTemp(ctx context.Context, name string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	f, err := os.CreateTemp(s.dir, name+"_*")
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}

	fileName := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(fileName)
		return "", fmt.Errorf("write staging file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(fileName)
		return "", fmt.Errorf("close staging file: %w", err)
	}

	return fileName, nil
}

// CleanupTemp removes the specified staging files. Files that were already
// moved into a backend are ignored. It continues cleanup even if some files
// fail to delete, returning the first error encountered.
func (s *Staging) CleanupTemp(ctx context.Context, paths []string) error {
	var firstErr error
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove staging file %s: %w", p, err)
			}
		}
	}
	return firstErr
}
