package storage

import (
	"path"
	"strings"
)

// Path is a backend-relative location such as "TV Shows/Show/Show - S1E5.mkv".
// It always uses forward slashes, has no leading slash and never contains a
// ".." segment when built with ParsePath.
type Path string

// ParsePath joins parts into a Path. Backslashes are treated as separators,
// empty and "." segments are dropped, and any ".." segment is rejected with
// ErrPathTraversal before anything is cleaned away.
func ParsePath(parts ...string) (Path, error) {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		for _, seg := range strings.Split(strings.ReplaceAll(part, `\`, "/"), "/") {
			switch seg {
			case "", ".":
				continue
			case "..":
				return "", ErrPathTraversal
			}
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return "", ErrEmptyPath
	}
	return Path(path.Join(segments...)), nil
}

// Validate checks a Path that may not have been built by ParsePath.
func (p Path) Validate() error {
	if p == "" {
		return ErrEmptyPath
	}
	for _, seg := range strings.Split(strings.ReplaceAll(string(p), `\`, "/"), "/") {
		if seg == ".." {
			return ErrPathTraversal
		}
	}
	return nil
}

// Base returns the last element of the path.
func (p Path) Base() string {
	return path.Base(string(p))
}

// String returns the path as a string.
func (p Path) String() string {
	return string(p)
}
