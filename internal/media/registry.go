package media

import (
	"context"
	"errors"
)

// ErrEntryNotFound is returned when no entry is registered under an ID.
var ErrEntryNotFound = errors.New("media: entry not found")

// Registry defines the interface for entry persistence.
type Registry interface {
	// Save stores an entry, replacing any entry with the same ID.
	Save(ctx context.Context, entry *Entry) error

	// FindByID retrieves an entry by its ID.
	// Returns ErrEntryNotFound if the entry does not exist.
	FindByID(ctx context.Context, id string) (*Entry, error)
}
