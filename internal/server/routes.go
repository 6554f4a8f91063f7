package server

import (
	"log/slog"
	"net/http"
)

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /v1/media", h.Register)
	mux.HandleFunc("GET /v1/media/{id}", h.GetEntry)
	mux.HandleFunc("PUT /v1/media/{id}", h.Upload)

	// Request IDs and spans must exist before the logger reads them.
	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		TracingMiddleware(tracerName),
		LoggingMiddleware(logger),
	)

	return chain(mux)
}
