// Package session persists the Spotify OAuth token between daemon restarts.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

const tokenFileName = "token.json"

// Store holds the single operator's OAuth token as one JSON document in the
// daemon's state directory.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a token store inside the given state directory.
func NewStore(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, tokenFileName)}
}

// Path returns the token file path.
func (s *Store) Path() string { return s.path }

// Load reads the persisted token. Returns (nil, nil) when no token is stored.
func (s *Store) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Save persists the token atomically with owner-only permissions.
func (s *Store) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}

// Clear removes the persisted token. Clearing an already-empty store is not
// an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
