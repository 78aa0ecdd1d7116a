// Package session keeps the logged-in identity and is the single
// owner of the durable username/password storage.
package session

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ChiHao144/CloudStorageApp/api"
)

// ErrNotLoggedIn gates every authenticated view: callers seeing it
// must send the user to the login screen.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrNoStoredPassword means a username survived in storage but its
// password did not. The only way out is logging out and back in.
var ErrNoStoredPassword = errors.New("stored password missing, log out and log in again")

type state struct {
	Username string `yaml:"username"`
	Password string `yaml:"password,omitempty"`
}

// Store persists the session to a single file. The backend has no
// token scheme, so the password is kept alongside the username and
// resent on every call through the CredentialProvider interface.
type Store struct {
	path   string
	logger *zap.Logger

	mu    sync.Mutex
	state state
}

var _ api.CredentialProvider = (*Store)(nil)

func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Restore loads a previously persisted session. A present username is
// trusted without re-validating against the backend.
func (s *Store) Restore() {
	d, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("read session state", zap.Error(err))
		}

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := yaml.Unmarshal(d, &s.state); err != nil {
		s.logger.Warn("unmarshal session state", zap.Error(err))
		s.state = state{}
		return
	}

	if s.state.Username != "" {
		s.logger.Info("session restored", zap.String("username", s.state.Username))
	}
}

// Login stores the identity. It does not verify anything: the caller
// must already hold a successful authentication response.
func (s *Store) Login(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state{Username: username, Password: password}

	return s.persist()
}

// Logout clears the identity from memory and durable storage.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state{}

	return s.persist()
}

func (s *Store) persist() error {
	d, err := yaml.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}

	if err := os.WriteFile(s.path, d, 0o600); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}

	return nil
}

func (s *Store) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Username
}

func (s *Store) IsAuthenticated() bool {
	return s.Username() != ""
}

// Credentials hands the current username/password pair to API call
// sites.
func (s *Store) Credentials() (api.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Username == "" {
		return api.Credentials{}, ErrNotLoggedIn
	}

	if s.state.Password == "" {
		return api.Credentials{}, ErrNoStoredPassword
	}

	return api.Credentials{Username: s.state.Username, Password: s.state.Password}, nil
}
