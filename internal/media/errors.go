package media

import (
	"errors"
	"fmt"

	"github.com/maauso/media-stash/internal/storage"
)

var (
	// ErrValidation is returned when a required input is missing.
	ErrValidation = errors.New("media: validation failed")
	// ErrUnsupportedInput is returned for uploads the service does not handle,
	// such as more than one file in a single request.
	ErrUnsupportedInput = errors.New("media: unsupported input")
	// ErrStagedFileMissing is returned when the staged upload is gone before ingestion.
	ErrStagedFileMissing = errors.New("media: staged file missing")
)

// IngestError describes a failed ingestion step.
// Retryable tells the caller whether the same upload may succeed if sent again.
type IngestError struct {
	Op        string
	Path      storage.Path
	Retryable bool
	Err       error
}

func (e *IngestError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("ingest %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("ingest %s: %v", e.Op, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is worth retrying with the same input.
// Backend failures and destination conflicts are retryable; validation,
// lookup and unsupported input errors are not.
func IsRetryable(err error) bool {
	var ingestErr *IngestError
	if errors.As(err, &ingestErr) {
		return ingestErr.Retryable
	}
	if errors.Is(err, storage.ErrAlreadyExists) {
		return true
	}
	var backendErr *storage.BackendError
	return errors.As(err, &backendErr)
}
