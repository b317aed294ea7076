// Package auth manages the login lifecycle against the Sweven identity
// endpoint: lazy token acquisition, caching, and credential overwrite.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/josedlucas/sweven-mcp-server/internal/credentials"
	"github.com/josedlucas/sweven-mcp-server/internal/errortypes"
)

var (
	// ErrCredentialsMissing is returned when no email or password is
	// available for a login attempt.
	ErrCredentialsMissing = errors.New("credentials not set: please use the set_credentials tool first")

	// ErrInvalidLoginResponse is returned when the login endpoint answered
	// but carried no usable token.
	ErrInvalidLoginResponse = errors.New("invalid login response")
)

// LoginClient performs the remote login round trip. It returns the bearer
// token from the response, or an empty string when the response carried
// none.
type LoginClient interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Session wraps a credential store with the login lifecycle. A single
// Session is shared by all concurrent tool invocations; the mutex
// serializes logins so two racing calls do not both hit the network when
// one freshly cached token would do.
type Session struct {
	store  *credentials.Store
	client LoginClient
	mu     sync.Mutex
}

// NewSession creates a Session over the given store and login client.
func NewSession(store *credentials.Store, client LoginClient) *Session {
	return &Session{store: store, client: client}
}

// Login performs a remote login. When email and password are both given
// they overwrite the stored credentials first. A successful login caches
// and returns the new token. Repeated calls with the same credentials
// simply refresh the token; every call costs a network round trip.
func (s *Session) Login(ctx context.Context, email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.login(ctx, email, password)
}

// EnsureAuthenticated returns the cached token when present and logs in
// otherwise. It does not track token freshness: a stale token is only
// replaced by an explicit Login.
func (s *Session) EnsureAuthenticated(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token := s.store.Token(); token != "" {
		return token, nil
	}
	return s.login(ctx, "", "")
}

// Token returns the cached token without triggering a login.
func (s *Session) Token() string {
	return s.store.Token()
}

// login holds the shared login path. Callers must hold s.mu.
func (s *Session) login(ctx context.Context, email, password string) (string, error) {
	if email != "" && password != "" {
		s.store.Set(email, password)
	}

	if s.store.Email() == "" || s.store.Password() == "" {
		return "", ErrCredentialsMissing
	}

	token, err := s.client.Login(ctx, s.store.Email(), s.store.Password())
	if err != nil {
		return "", errortypes.AuthError(err, "login failed")
	}
	if token == "" {
		return "", ErrInvalidLoginResponse
	}

	s.store.SetToken(token)
	slog.Info("Login successful, token cached")
	return token, nil
}
