// Package server provides the HTTP transport for media-stash.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "time"

// RegisterRequest is the HTTP request body for registering a media entry.
type RegisterRequest struct {
	// Type selects the top-level directory and whether the entry is a movie.
	Type string `json:"type" validate:"required"`
	// Name is the title; a trailing "Season N" is stripped.
	Name string `json:"name" validate:"required"`
	// ID is the identifier uploads are sent to.
	ID string `json:"id" validate:"required"`
}

// EntryResponse is the HTTP response describing a registered entry.
type EntryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Kind      string    `json:"kind"`
	Season    int       `json:"season"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IngestResponse is the HTTP response after an upload was handled.
type IngestResponse struct {
	// Status is "stored" or "skipped".
	Status   string `json:"status"`
	Path     string `json:"path,omitempty"`
	Filename string `json:"filename,omitempty"`
	Season   int    `json:"season,omitempty"`
	Episode  int    `json:"episode,omitempty"`
	// Message and Reason are set for skipped uploads.
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
	// Retryable tells the client whether sending the same request again may succeed.
	Retryable bool `json:"retryable"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
