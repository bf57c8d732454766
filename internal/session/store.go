package session

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store holds the bearer token for the current session. When a path is
// configured the token survives restarts in a file, which is the only
// state this application persists. Set on login, cleared on logout.
type Store struct {
	mu    sync.Mutex
	path  string
	token string
}

// NewStore creates a store backed by the given file path. An empty path
// keeps the token in memory only. A pre-existing token file is loaded;
// read errors are ignored and the session simply starts unauthenticated.
func NewStore(path string) *Store {
	s := &Store{path: path}
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			s.token = strings.TrimSpace(string(b))
		}
	}
	return s
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if s.path == "" {
		return nil
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// ExpiresAt reports the exp claim of the stored token. The token is not
// verified (the client does not hold the signing key); this is only used
// to warn the user about a stale session before the service rejects it.
func (s *Store) ExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the stored token carries an exp claim in the past.
func (s *Store) Expired() bool {
	exp, ok := s.ExpiresAt()
	return ok && exp.Before(time.Now())
}
