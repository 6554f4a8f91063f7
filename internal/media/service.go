package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/maauso/media-stash/internal/naming"
	"github.com/maauso/media-stash/internal/storage"
)

// DefaultSeasonRetries is how many times a colliding series upload advances
// the season before writing anyway.
const DefaultSeasonRetries = 1

// OutcomeStatus is the result kind of a successful Ingest call.
type OutcomeStatus string

const (
	// OutcomeStored means the file was written to the backend.
	OutcomeStored OutcomeStatus = "stored"
	// OutcomeSkipped means the file was recognized as not storable and ignored.
	OutcomeSkipped OutcomeStatus = "skipped"
)

// Outcome describes what Ingest did with an upload.
type Outcome struct {
	Status   OutcomeStatus
	Path     storage.Path
	Filename string
	// Season and Episode are zero for movies and skipped uploads.
	Season  int
	Episode int
	// Reason explains a skip.
	Reason string
}

// RegisterInput contains the fields needed to register an entry.
type RegisterInput struct {
	Type string
	Name string
	ID   string
}

// UploadedFile is a file staged on local disk by the transport.
type UploadedFile struct {
	// TempPath is where the upload was staged; it is consumed on success.
	TempPath string
	// OriginalName is the client-supplied filename used for episode resolution.
	OriginalName string
}

// Service registers media entries and ingests uploads into a storage backend.
// Ingest calls for the same entry are serialized; different entries proceed
// concurrently.
type Service struct {
	registry      Registry
	backend       storage.Backend
	logger        *slog.Logger
	typeDirs      map[string]string
	seasonRetries int
	locks         entryLocks
}

// Option configures a Service.
type Option func(*Service)

// WithTypeDirs sets the top-level directory used for each registration type.
// Types without a mapping are stored under a directory named after the type.
func WithTypeDirs(dirs map[string]string) Option {
	return func(s *Service) {
		for typ, dir := range dirs {
			s.typeDirs[strings.ToLower(typ)] = dir
		}
	}
}

// WithSeasonRetries sets how many times a colliding series upload advances
// the season. Negative values are ignored.
func WithSeasonRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.seasonRetries = n
		}
	}
}

// NewService creates a new Service.
func NewService(registry Registry, backend storage.Backend, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		registry:      registry,
		backend:       backend,
		logger:        logger,
		typeDirs:      make(map[string]string),
		seasonRetries: DefaultSeasonRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates or replaces the entry for input.ID.
// The name is normalized so "Show Season 2" registers as "Show".
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Entry, error) {
	if err := requireFields(map[string]string{
		"id":   input.ID,
		"name": input.Name,
		"type": input.Type,
	}); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(input.ID)
	defer unlock()

	entry := NewEntry(input.ID, naming.NormalizeSeriesName(input.Name), input.Type)

	s.logger.Info("registering media",
		slog.String("entry_id", entry.ID),
		slog.String("name", entry.Name),
		slog.String("type", entry.Type),
		slog.String("kind", string(entry.Kind)),
	)

	if err := s.registry.Save(ctx, entry); err != nil {
		s.logger.Error("failed to save entry",
			slog.String("entry_id", entry.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return entry, nil
}

// GetEntry retrieves an entry by ID.
func (s *Service) GetEntry(ctx context.Context, id string) (*Entry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	return s.registry.FindByID(ctx, id)
}

// Ingest names the staged upload, resolves destination collisions and writes
// it to the backend.
//
// The workflow:
//  1. Resolve a filename: movies use the title, series parse the episode marker
//  2. Build the destination path under the type directory and entry name
//  3. On collision, advance the season (series) or remove the old file (movies)
//  4. Create the file, rolling back the destination on failure
//
// The entry is saved back after every attempt so a season advanced during
// collision handling sticks even when the write fails.
func (s *Service) Ingest(ctx context.Context, id string, file UploadedFile) (*Outcome, error) {
	if err := requireFields(map[string]string{
		"id":       id,
		"file":     file.TempPath,
		"filename": file.OriginalName,
	}); err != nil {
		return nil, err
	}

	// Unknown ids are rejected before a lock is created for them.
	if _, err := s.registry.FindByID(ctx, id); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(id)
	defer unlock()

	// Read again under the lock: a concurrent Ingest may have advanced the season.
	entry, err := s.registry.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(file.TempPath); err != nil {
		return nil, &IngestError{
			Op:        "stage",
			Retryable: true,
			Err:       fmt.Errorf("%w: %s", ErrStagedFileMissing, file.OriginalName),
		}
	}

	outcome, err := s.ingest(ctx, entry, file)

	if saveErr := s.registry.Save(ctx, entry); saveErr != nil {
		s.logger.Error("failed to save entry",
			slog.String("entry_id", entry.ID),
			slog.String("error", saveErr.Error()),
		)
		if err == nil {
			err = saveErr
			outcome = nil
		}
	}

	return outcome, err
}

func (s *Service) ingest(ctx context.Context, entry *Entry, file UploadedFile) (*Outcome, error) {
	logger := s.logger.With(
		slog.String("entry_id", entry.ID),
		slog.String("filename", file.OriginalName),
	)

	var resolved naming.ResolvedName
	if entry.IsMovie() {
		resolved.Filename = naming.MovieFilename(entry.Name)
	} else {
		r, ok := naming.ResolveEpisodeName(entry.Name, file.OriginalName, entry.Season)
		if !ok {
			logger.Info("media skipped")
			return &Outcome{
				Status: OutcomeSkipped,
				Reason: fmt.Sprintf("no episode number found in %q", file.OriginalName),
			}, nil
		}
		resolved = r
	}

	dest, err := s.destination(entry, resolved.Filename)
	if err != nil {
		return nil, err
	}

	if s.backend.PathExists(ctx, dest) {
		if entry.IsMovie() {
			logger.Info("replacing existing movie", slog.String("path", dest.String()))
			err := s.backend.Unlink(ctx, dest)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				logger.Debug("movie vanished before unlink", slog.String("path", dest.String()))
			case err != nil:
				return nil, &IngestError{Op: "unlink", Path: dest, Retryable: true, Err: err}
			}
		} else {
			dest, resolved, err = s.advanceSeason(ctx, entry, file.OriginalName, dest, resolved)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := s.backend.Create(ctx, file.TempPath, dest); err != nil {
		logger.Error("failed to store media",
			slog.String("path", dest.String()),
			slog.String("error", err.Error()),
		)
		s.rollback(ctx, dest, file.TempPath, err)
		return nil, &IngestError{Op: "create", Path: dest, Retryable: true, Err: err}
	}

	logger.Info("media stored",
		slog.String("path", dest.String()),
		slog.Int("season", resolved.Season),
		slog.Int("episode", resolved.Episode),
	)

	return &Outcome{
		Status:   OutcomeStored,
		Path:     dest,
		Filename: resolved.Filename,
		Season:   resolved.Season,
		Episode:  resolved.Episode,
	}, nil
}

// advanceSeason moves a colliding episode to the following season, up to
// seasonRetries times. It stops as soon as the destination is free and returns
// the last candidate otherwise, leaving Create to report the conflict.
func (s *Service) advanceSeason(ctx context.Context, entry *Entry, raw string, dest storage.Path, resolved naming.ResolvedName) (storage.Path, naming.ResolvedName, error) {
	for attempt := 0; attempt < s.seasonRetries; attempt++ {
		entry.SetSeason(entry.Season + 1)

		r, ok := naming.ResolveEpisodeName(entry.Name, raw, entry.Season)
		if !ok {
			break
		}
		if r.Season != entry.Season {
			// The filename names its season explicitly; it wins over the bump.
			entry.SetSeason(r.Season)
		}

		next, err := s.destination(entry, r.Filename)
		if err != nil {
			return dest, resolved, err
		}

		s.logger.Info("destination exists, advancing season",
			slog.String("entry_id", entry.ID),
			slog.String("from", dest.String()),
			slog.String("to", next.String()),
			slog.Int("season", entry.Season),
		)

		dest, resolved = next, r
		if !s.backend.PathExists(ctx, dest) {
			break
		}
	}
	return dest, resolved, nil
}

// rollback removes what a failed Create may have left behind.
// Failures here are logged and never returned.
func (s *Service) rollback(ctx context.Context, dest storage.Path, tempPath string, cause error) {
	if !s.backend.PathExists(ctx, dest) {
		return
	}

	if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove staged file",
			slog.String("temp_path", tempPath),
			slog.String("error", err.Error()),
		)
	}

	// The existing object belongs to an earlier upload.
	if errors.Is(cause, storage.ErrAlreadyExists) {
		return
	}

	if err := s.backend.Unlink(ctx, dest); err != nil {
		s.logger.Warn("failed to remove partial destination",
			slog.String("path", dest.String()),
			slog.String("error", err.Error()),
		)
	}
}

// destination builds the backend path for filename under entry.
func (s *Service) destination(entry *Entry, filename string) (storage.Path, error) {
	p, err := storage.ParsePath(s.typeDir(entry.Type), entry.Name, filename)
	if err != nil {
		return "", &IngestError{Op: "path", Err: err}
	}
	return p, nil
}

// typeDir returns the configured directory for typ, or typ itself.
func (s *Service) typeDir(typ string) string {
	if dir, ok := s.typeDirs[strings.ToLower(typ)]; ok {
		return dir
	}
	return typ
}

// requireFields returns ErrValidation listing every blank field.
func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
}
