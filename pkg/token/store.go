package token

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Store keeps the bearer token, optionally mirrored to a JSON file. An empty
// path keeps the token in memory only.
type Store struct {
	mu    sync.RWMutex
	path  string
	value Session
}

func NewStore(storage string) (*Store, error) {
	s := &Store{path: storage}
	if storage == "" {
		return s, nil
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err = os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
			return nil, err
		}
		return s, nil
	}

	if len(b) == 0 {
		return s, nil
	}
	if err = json.Unmarshal(b, &s.value); err != nil {
		return nil, errors.Wrap(err, "corrupted session file")
	}
	return s, nil
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}

	b, err := json.Marshal(s.value)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0600)
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value.AccessToken
}

func (s *Store) Set(accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = Session{AccessToken: accessToken, TokenType: "bearer"}
	return s.save()
}

// Clear forgets the token and removes the session file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = Session{}
	if s.path == "" {
		return nil
	}
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
