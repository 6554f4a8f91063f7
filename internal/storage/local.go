package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// Compile-time check that LocalBackend implements Backend.
var _ Backend = (*LocalBackend)(nil)

// LocalBackend stores media on the local filesystem under a root directory.
// Every path is scoped under root; paths that would escape it are rejected
// before the filesystem is touched.
type LocalBackend struct {
	root string
}

// NewLocalBackend creates a LocalBackend rooted at root.
// The directory is created if it doesn't exist and resolved to an absolute
// path so relative roots are stable across working-directory changes.
func NewLocalBackend(root string) (*LocalBackend, error) {
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media directory: %w", err)
	}

	return &LocalBackend{root: absRoot}, nil
}

// Root returns the absolute root directory.
func (b *LocalBackend) Root() string {
	return b.root
}

// resolve maps a logical path to a filesystem path under root.
func (b *LocalBackend) resolve(p Path) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	joined := filepath.Join(b.root, filepath.Clean(filepath.FromSlash(string(p))))
	rel, err := filepath.Rel(b.root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return joined, nil
}

// PathExists reports whether p exists under root.
func (b *LocalBackend) PathExists(_ context.Context, p Path) bool {
	full, err := b.resolve(p)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// Unlink removes the file at p.
func (b *LocalBackend) Unlink(ctx context.Context, p Path) error {
	full, err := b.resolve(p)
	if err != nil {
		return err
	}

	if !b.PathExists(ctx, p) {
		return fmt.Errorf("unlink %s: %w", p, ErrNotFound)
	}

	if err := os.Remove(full); err != nil {
		return &BackendError{Op: "unlink", Path: p, Err: err}
	}
	return nil
}

// Create moves the file at src to dst, creating parent directories as needed.
// A rename is attempted first; when src and root live on different devices
// the file is copied and src removed afterwards.
func (b *LocalBackend) Create(ctx context.Context, src string, dst Path) error {
	full, err := b.resolve(dst)
	if err != nil {
		return err
	}

	if b.PathExists(ctx, dst) {
		return fmt.Errorf("create %s: %w", dst, ErrAlreadyExists)
	}

	if err := os.MkdirAll(filepath.Dir(full), 0750); err != nil {
		return &BackendError{Op: "mkdir", Path: dst, Err: err}
	}

	if err := move(src, full); err != nil {
		return &BackendError{Op: "create", Path: dst, Err: err}
	}
	return nil
}

// move renames src to dst, falling back to copy and remove across devices.
func move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// copyFile copies src into dst through a ".part" file that is renamed into
// place only after a complete write, so dst never holds a partial file.
func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 - src is a staged upload owned by this process
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	tmp := dst + ".part"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640) // #nosec G304
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close destination: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename destination: %w", err)
	}
	return nil
}
