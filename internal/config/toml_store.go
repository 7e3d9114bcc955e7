package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
)

// DefaultPath is the production location of the appliance configuration.
const DefaultPath = "/etc/spotipi/spotipi.toml"

// TOMLStore persists the configuration as a TOML file with atomic writes,
// falling back to environment variables while the file does not exist.
// External edits to the file are picked up through fsnotify.
type TOMLStore struct {
	mu      sync.RWMutex
	path    string
	cached  Config
	watcher *fsnotify.Watcher
}

// NewTOMLStore creates a store for the given path and loads the current
// configuration. The watcher is best-effort: if it cannot be created the
// store still works, it just won't see external edits.
func NewTOMLStore(path string) (*TOMLStore, error) {
	s := &TOMLStore{path: path}
	if err := s.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("config: could not create fsnotify watcher", "err", err)
		return s, nil
	}
	s.watcher = watcher
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		slog.Warn("config: could not watch config dir", "path", path, "err", err)
	}
	go s.watchLoop()
	return s, nil
}

// Path returns the file path used by this store.
func (s *TOMLStore) Path() string { return s.path }

// Load returns a copy of the current configuration.
func (s *TOMLStore) Load() (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.cached
	return &cfg, nil
}

// Save writes the configuration atomically with owner-only permissions and
// updates the cached copy.
func (s *TOMLStore) Save(cfg *Config) error {
	data, err := toml.Marshal(*cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	// Write to temp file, then rename (atomic on Linux). Credentials live
	// here, so 0600.
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return err
	}

	s.mu.Lock()
	s.cached = *cfg
	s.mu.Unlock()
	return nil
}

// Close stops the file watcher.
func (s *TOMLStore) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}

// reload re-reads the file, or derives a development configuration from the
// environment when the file is absent.
func (s *TOMLStore) reload() error {
	var cfg Config
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			slog.Warn("config: corrupt TOML config, keeping previous", "path", s.path, "err", err)
			return nil
		}
	case errors.Is(err, os.ErrNotExist):
		cfg = FromEnv()
	default:
		return err
	}

	s.mu.Lock()
	s.cached = cfg
	s.mu.Unlock()
	return nil
}

func (s *TOMLStore) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name == s.path && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				if err := s.reload(); err != nil {
					slog.Warn("config: failed to reload", "err", err)
				} else {
					slog.Debug("config: reloaded after external edit", "path", s.path)
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config: watcher error", "err", err)
		}
	}
}

// Ensure TOMLStore implements Store.
var _ Store = (*TOMLStore)(nil)
