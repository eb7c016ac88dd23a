// Package cas implements a content-addressed store of JSON documents.
package cas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	fsutil "go.trai.ch/bounds/internal/adapters/fs"
	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store keeps one JSON file per key in a flat directory.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// NewStore creates a Store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Key derives the address of a document from its identifying parts.
func Key(parts ...string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(parts, "\x00")))
}

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get decodes the document stored under key into v.
// It reports false, with no error, when nothing is stored.
func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	//nolint:gosec // Path is the store directory and a hashed filename
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to read cached document"), "key", key)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to decode cached document"), "key", key)
	}
	return true, nil
}

// Put stores v under key, replacing any previous document atomically.
func (s *Store) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode document"), "key", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fsutil.WriteFileAtomic(s.Path(key), data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write cached document"), "key", key)
	}
	return nil
}
