package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// typesFile is the layout of TYPES_FILE:
//
//	types:
//	  movie: Movies
//	  tv: TV Shows
type typesFile struct {
	Types map[string]string `yaml:"types"`
}

// LoadTypeDirs reads a type to directory mapping from a YAML file.
// A missing file yields an empty mapping.
func LoadTypeDirs(path string) (map[string]string, error) {
	dirs := make(map[string]string)
	if path == "" {
		return dirs, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - path comes from operator configuration
	if err != nil {
		if os.IsNotExist(err) {
			return dirs, nil
		}
		return nil, fmt.Errorf("config: read types file: %w", err)
	}

	var file typesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse types file: %w", err)
	}

	for typ, dir := range file.Types {
		dirs[typ] = cleanDir(dir)
	}
	return dirs, nil
}

// TypeDirectories returns the effective type to directory mapping: entries
// from TypesFile overridden by TYPE_DIRS.
func (c *Config) TypeDirectories() (map[string]string, error) {
	dirs, err := LoadTypeDirs(c.TypesFile)
	if err != nil {
		return nil, err
	}
	for typ, dir := range c.TypeDirs {
		dirs[strings.TrimSpace(typ)] = cleanDir(dir)
	}
	return dirs, nil
}

// cleanDir strips surrounding space and leading slashes so the directory is
// always relative to the backend root.
func cleanDir(dir string) string {
	return strings.TrimLeft(strings.TrimSpace(dir), "/")
}
