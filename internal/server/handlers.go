package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/maauso/media-stash/internal/media"
	"github.com/maauso/media-stash/internal/storage"
)

// maxFieldBytes bounds non-file multipart fields such as "id".
const maxFieldBytes = 1 << 10

var (
	// errMissingFile is returned by stageUpload when the request carried no file part.
	errMissingFile = errors.New("no file in request")
	// errMalformedMultipart marks request bodies that are not valid multipart.
	errMalformedMultipart = errors.New("malformed multipart body")
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   *media.Service
	staging   *storage.Staging
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *media.Service, staging *storage.Staging, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		staging:   staging,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Register handles POST /v1/media requests.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON", false)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR", false)
		return
	}

	entry, err := h.service.Register(r.Context(), media.RegisterInput{
		Type: req.Type,
		Name: req.Name,
		ID:   req.ID,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// GetEntry handles GET /v1/media/{id} requests.
func (h *Handlers) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "media ID is required", "MISSING_ID", false)
		return
	}

	entry, err := h.service.GetEntry(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// Upload handles PUT /v1/media/{id} requests.
// The body is multipart with exactly one file part; an optional "id" field
// overrides the ID in the path.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart/form-data body", "INVALID_MULTIPART", false)
		return
	}

	file, formID, staged, err := h.stageUpload(ctx, reader)
	defer func() {
		// Staged files that reached the backend are already gone.
		if cleanupErr := h.staging.CleanupTemp(context.WithoutCancel(ctx), staged); cleanupErr != nil {
			h.logger.Warn("failed to clean up staged upload",
				slog.String("error", cleanupErr.Error()),
			)
		}
	}()
	if err != nil {
		switch {
		case errors.Is(err, errMissingFile):
			writeError(w, http.StatusBadRequest, "a file is required", "MISSING_FILE", false)
		case errors.Is(err, media.ErrUnsupportedInput):
			writeError(w, http.StatusBadRequest, err.Error(), "UNSUPPORTED_INPUT", false)
		case errors.Is(err, errMalformedMultipart):
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_MULTIPART", false)
		default:
			h.logger.Error("failed to stage upload", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "failed to stage upload", "STAGING_FAILED", true)
		}
		return
	}

	id := r.PathValue("id")
	if formID != "" {
		id = formID
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("media.id", id),
		attribute.String("media.filename", file.OriginalName),
	)

	outcome, err := h.service.Ingest(ctx, id, file)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if outcome.Status == media.OutcomeSkipped {
		writeJSON(w, http.StatusOK, IngestResponse{
			Status:  string(outcome.Status),
			Message: "media was skipped",
			Reason:  outcome.Reason,
		})
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		Status:   string(outcome.Status),
		Path:     outcome.Path.String(),
		Filename: outcome.Filename,
		Season:   outcome.Season,
		Episode:  outcome.Episode,
	})
}

// stageUpload streams the file part into staging and collects the "id" field.
// It returns every staged path, including on error, so the caller can clean up.
func (h *Handlers) stageUpload(ctx context.Context, reader *multipart.Reader) (media.UploadedFile, string, []string, error) {
	var (
		file   media.UploadedFile
		formID string
		staged []string
		files  int
	)

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return file, formID, staged, fmt.Errorf("%w: %v", errMalformedMultipart, err)
		}

		if part.FileName() == "" {
			if part.FormName() == "id" {
				value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
				if err != nil {
					_ = part.Close()
					return file, formID, staged, fmt.Errorf("%w: %v", errMalformedMultipart, err)
				}
				formID = strings.TrimSpace(string(value))
			}
			_ = part.Close()
			continue
		}

		files++
		if files > 1 {
			_ = part.Close()
			return file, formID, staged, fmt.Errorf("%w: only one file per request", media.ErrUnsupportedInput)
		}

		tempPath, err := h.staging.SaveTemp(ctx, "upload", part)
		_ = part.Close()
		if err != nil {
			return file, formID, staged, err
		}
		staged = append(staged, tempPath)
		file = media.UploadedFile{TempPath: tempPath, OriginalName: part.FileName()}
	}

	if files == 0 {
		return file, formID, staged, errMissingFile
	}
	return file, formID, staged, nil
}

// toEntryResponse converts an entry to its HTTP representation.
func toEntryResponse(e *media.Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		Name:      e.Name,
		Type:      e.Type,
		Kind:      string(e.Kind),
		Season:    e.Season,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// writeServiceError maps service errors onto HTTP status codes.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	retryable := media.IsRetryable(err)

	switch {
	case errors.Is(err, media.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR", false)
		return
	case errors.Is(err, storage.ErrPathTraversal), errors.Is(err, storage.ErrEmptyPath):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_PATH", false)
		return
	case errors.Is(err, media.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, "media not found", "ENTRY_NOT_FOUND", false)
		return
	case errors.Is(err, media.ErrUnsupportedInput):
		writeError(w, http.StatusBadRequest, err.Error(), "UNSUPPORTED_INPUT", false)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if errors.Is(err, storage.ErrAlreadyExists) {
		h.logger.Warn("destination already exists",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusConflict, err.Error(), "ALREADY_EXISTS", true)
		return
	}

	h.logger.Error("ingest failed",
		slog.String("path", r.URL.Path),
		slog.Bool("retryable", retryable),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, err.Error(), "INGEST_FAILED", retryable)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string, retryable bool) {
	writeJSON(w, status, ErrorResponse{
		Error:     message,
		Code:      code,
		Retryable: retryable,
	})
}
