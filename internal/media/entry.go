// Package media provides the Entry aggregate for registered media and the
// Service that ingests uploaded files for it.
// An Entry is either a movie or a series; series entries track the season the
// next upload is expected to belong to.
package media

import (
	"strings"
	"time"
)

// Kind tells how uploads for an entry are named.
type Kind string

const (
	// KindMovie entries store a single file named after the title.
	KindMovie Kind = "movie"
	// KindSeries entries store one file per episode.
	KindSeries Kind = "series"
)

// movieTypes are the registration types that denote a movie.
var movieTypes = map[string]struct{}{
	"movie":  {},
	"movies": {},
	"film":   {},
}

// KindFromType derives the Kind of an entry from its registration type.
// Matching is case-insensitive; any type that is not a movie type is a series.
func KindFromType(typ string) Kind {
	if _, ok := movieTypes[strings.ToLower(strings.TrimSpace(typ))]; ok {
		return KindMovie
	}
	return KindSeries
}

// Entry is a registered media title that uploads are filed under.
type Entry struct {
	// ID is the caller-chosen identifier uploads refer to.
	ID string
	// Name is the normalized title, used as the directory and filename stem.
	Name string
	// Type is the raw registration type; it selects the top-level directory.
	Type string
	// Kind is derived from Type.
	Kind Kind
	// Season is the season the next series upload is expected to belong to.
	Season int
	// CreatedAt is when the entry was first registered.
	CreatedAt time.Time
	// UpdatedAt is when the entry was last changed.
	UpdatedAt time.Time
}

// NewEntry creates an Entry starting at season 1.
func NewEntry(id, name, typ string) *Entry {
	now := time.Now()
	return &Entry{
		ID:        id,
		Name:      name,
		Type:      typ,
		Kind:      KindFromType(typ),
		Season:    1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsMovie reports whether the entry is a movie.
func (e *Entry) IsMovie() bool {
	return e.Kind == KindMovie
}

// SetSeason changes the expected season and bumps UpdatedAt when it differs.
func (e *Entry) SetSeason(season int) {
	if season == e.Season {
		return
	}
	e.Season = season
	e.UpdatedAt = time.Now()
}

// Clone returns a copy of the entry for safe reads.
func (e *Entry) Clone() *Entry {
	c := *e
	return &c
}
