// Package credentials persists the Sweven account credentials and the
// cached bearer token across server restarts.
package credentials

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/josedlucas/sweven-mcp-server/internal/errortypes"
)

// Environment variables consulted when the store is created with WithEnv.
const (
	EnvEmail    = "SWEVEN_EMAIL"
	EnvPassword = "SWEVEN_PASSWORD"
	EnvToken    = "SWEVEN_TOKEN"
)

// Credentials holds the persisted account state. All fields are optional;
// a token may be present without a locally known email/password pair.
type Credentials struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

// Store is a file-backed credential holder. Save failures are logged and
// swallowed; persistence is best-effort and never fails a tool call.
type Store struct {
	path    string
	fromEnv bool

	mu    sync.Mutex
	creds Credentials
}

// Option configures a Store.
type Option func(*Store)

// WithEnv makes Load merge SWEVEN_EMAIL, SWEVEN_PASSWORD and SWEVEN_TOKEN
// over file-sourced values. Used by the streaming-transport mode.
func WithEnv() Option {
	return func(s *Store) { s.fromEnv = true }
}

// NewStore creates a Store backed by the given path and loads any
// persisted state.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// Load reads the persisted file and merges it under anything already set:
// values set in memory win over the file, and environment values (when
// enabled) win over both. Read or parse failures are logged and leave the
// in-memory state untouched.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.creds

	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		var fileCreds Credentials
		if jsonErr := json.Unmarshal(data, &fileCreds); jsonErr != nil {
			errortypes.LogError(nil, errortypes.PersistenceError(jsonErr, "failed to parse credential file").
				WithField("path", s.path))
		} else {
			merged = overlay(fileCreds, s.creds)
		}
	case os.IsNotExist(err):
		// No file yet; an empty starting state, not an error.
	default:
		errortypes.LogError(nil, errortypes.PersistenceError(err, "failed to read credential file").
			WithField("path", s.path))
	}

	if s.fromEnv {
		merged = overlay(merged, Credentials{
			Email:    os.Getenv(EnvEmail),
			Password: os.Getenv(EnvPassword),
			Token:    os.Getenv(EnvToken),
		})
	}

	s.creds = merged
}

// overlay returns base with every non-empty field of top applied on top.
func overlay(base, top Credentials) Credentials {
	if top.Email != "" {
		base.Email = top.Email
	}
	if top.Password != "" {
		base.Password = top.Password
	}
	if top.Token != "" {
		base.Token = top.Token
	}
	return base
}

// save writes the current state to disk. Failures are logged, never
// returned. Callers must hold s.mu.
func (s *Store) save() {
	data, err := json.MarshalIndent(s.creds, "", "  ")
	if err != nil {
		errortypes.LogError(nil, errortypes.PersistenceError(err, "failed to serialize credentials"))
		return
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		errortypes.LogError(nil, errortypes.PersistenceError(err, "failed to write credential file").
			WithField("path", s.path))
		return
	}

	slog.Debug("Credentials persisted", "path", s.path)
}

// Set overwrites the email and password together and persists the change.
func (s *Store) Set(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds.Email = email
	s.creds.Password = password
	s.save()
}

// SetToken overwrites the cached bearer token and persists the change.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds.Token = token
	s.save()
}

// Email returns the current email, or an empty string.
func (s *Store) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Email
}

// Password returns the current password, or an empty string.
func (s *Store) Password() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Password
}

// Token returns the cached bearer token, or an empty string.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Token
}

// Snapshot returns a copy of the current credential state.
func (s *Store) Snapshot() Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

// Path returns the location of the persisted file.
func (s *Store) Path() string {
	return s.path
}
