// Package fs persists the NoteFlow document as a single JSON file.
package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/NUMNIMx/noteflow/pkg/core"
)

// FileName is the state file inside the data directory.
const FileName = core.StorageKey + ".json"

// CorruptSuffix is appended to a state file that could not be parsed.
const CorruptSuffix = ".corrupt"

// Config holds the filesystem store settings.
type Config struct {
	Dir      string
	ReadOnly bool
	Logger   *slog.Logger
	// ErrorHandler receives watcher failures that would otherwise only be logged.
	ErrorHandler func(error)
}

// Store is a core.LocalStore backed by one JSON file.
type Store struct {
	config Config
	path   string

	mu            sync.RWMutex
	cache         writeCache
	lastErr       error
	watcherActive bool
}

// NewStore creates a store rooted at config.Dir. The directory is created on
// first save unless the store is read-only.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Store{
		config: config,
		path:   filepath.Join(config.Dir, FileName),
	}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load implements core.LocalStore. A blob that is not a JSON object is moved
// aside and reported as core.ErrNotFound so the app starts fresh.
func (s *Store) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		s.setErr(err)
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var probe map[string]json.RawMessage
	if len(bytes.TrimSpace(data)) == 0 || json.Unmarshal(data, &probe) != nil {
		s.quarantine(data)
		return nil, core.ErrNotFound
	}
	return data, nil
}

// Save implements core.LocalStore.
func (s *Store) Save(data []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := os.MkdirAll(s.config.Dir, 0o755); err != nil {
		s.setErr(err)
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		s.setErr(err)
		return err
	}
	s.cache.record(data, time.Now())
	s.setErr(nil)
	return nil
}

func (s *Store) quarantine(data []byte) {
	if s.config.ReadOnly {
		s.config.Logger.Warn("state file is corrupt, ignoring it", "path", s.path)
		return
	}
	dst := s.path + CorruptSuffix
	if err := writeFileAtomic(dst, data, 0o644); err != nil {
		s.config.Logger.Error("failed to keep corrupt state file", "path", dst, "error", err)
		return
	}
	s.config.Logger.Warn("state file is corrupt, starting fresh", "path", s.path, "backup", dst)
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

var _ core.LocalStore = (*Store)(nil)
