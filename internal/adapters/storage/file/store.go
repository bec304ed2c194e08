// Package file keeps the key/value pairs in a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/PabloGalante/weatherchat/internal/domain"
	"github.com/PabloGalante/weatherchat/internal/observability"
)

type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewStore opens the document at path, creating its directory if needed.
// A missing file starts empty. A file that does not decode is moved aside
// to path+".corrupt" and the store starts empty.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	s := &Store{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			log := observability.WithFields("path", path)
			log.Error("ignoring corrupt storage file", "error", err)
			if err := os.Rename(path, path+".corrupt"); err != nil {
				log.Warn("could not move corrupt storage file aside", "error", err)
			}
			s.values = make(map[string]string)
		}
	}
	return s, nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

// Set updates the key and rewrites the file atomically via rename.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
