package data

// Package data provides concrete allow-list sources and the Redis-backed
// dataset cache.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
)

// FileAllowlistSource loads the allow-list from a JSON file: an array of
// objects with at least an "email" field. Extra fields pass through ignored.
type FileAllowlistSource struct {
	path string
}

// NewFileAllowlistSource creates a file-backed allow-list source.
func NewFileAllowlistSource(path string) *FileAllowlistSource {
	return &FileAllowlistSource{path: path}
}

// Load reads and parses the allow-list file.
func (s *FileAllowlistSource) Load(_ context.Context) ([]domainauth.AllowlistEntry, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read allowlist file %s: %w", s.path, err)
	}

	var entries []domainauth.AllowlistEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse allowlist file %s: %w", s.path, err)
	}
	return entries, nil
}
