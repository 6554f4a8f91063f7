// Package storage provides the backends media files are persisted into.
// It defines the Backend interface (port) and implementations for the local
// filesystem and S3-compatible object storage, plus the local staging area
// uploads are written to before they are ingested.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Static errors for backend operations.
var (
	// ErrNotFound is returned by Unlink when the path does not exist.
	ErrNotFound = errors.New("storage: path not found")
	// ErrAlreadyExists is returned by Create when the destination is occupied.
	ErrAlreadyExists = errors.New("storage: path already exists")
	// ErrPathTraversal is returned when a path contains a ".." segment or
	// would resolve outside the backend root.
	ErrPathTraversal = errors.New("storage: path escapes storage root")
	// ErrEmptyPath is returned when a path has no segments.
	ErrEmptyPath = errors.New("storage: empty path")
)

// Backend defines where ingested media ends up.
// Implementations must validate every path before performing any I/O.
type Backend interface {
	// PathExists reports whether p is occupied. Backend failures are
	// reported as false; callers recover through their own cleanup policy.
	PathExists(ctx context.Context, p Path) bool

	// Unlink removes p. It returns ErrNotFound when p does not exist and a
	// *BackendError wrapping the cause for any other failure.
	Unlink(ctx context.Context, p Path) error

	// Create moves the local file at src into p. It returns ErrAlreadyExists
	// when p is occupied. On success src no longer exists.
	Create(ctx context.Context, src string, dst Path) error
}

// BackendError wraps an I/O or connectivity failure from a backend.
type BackendError struct {
	// Op is the backend operation that failed.
	Op string
	// Path is the logical path the operation targeted.
	Path Path
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BackendError) Unwrap() error {
	return e.Err
}
