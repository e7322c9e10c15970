// Package session holds the authenticated identity for the running client
// and persists it across restarts as a single JSON blob.
package session

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/traceai/trace-client/internal/models"
)

// Store is the process-wide session holder. Reads come from every screen;
// writes happen only on successful login and on sign-out. The identity is
// always replaced wholesale, never patched field by field.
type Store struct {
	path string
	log  *zap.Logger

	mu       sync.Mutex
	current  *models.Identity
	token    string
	tokenExp time.Time
	watchers []func(*models.Identity)
}

// NewStore creates a Store persisting to the given file path.
func NewStore(path string, log *zap.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load reads the persisted identity. A missing file means no session; a
// malformed file is treated the same way, logged, and never surfaced as an
// error to the caller.
func (s *Store) Load() (*models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error("failed to read session file", zap.Error(err))
		}
		s.current = nil
		return nil, false
	}

	var id models.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		s.log.Error("malformed session file, treating as signed out", zap.Error(err))
		s.current = nil
		return nil, false
	}

	s.current = &id
	out := id
	return &out, true
}

// Current returns the in-memory identity without touching the file.
func (s *Store) Current() (*models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false
	}
	out := *s.current
	return &out, true
}

// Save replaces the persisted identity. Called once per successful login.
func (s *Store) Save(id models.Identity) error {
	s.mu.Lock()
	data, err := json.Marshal(&id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = &id
	watchers, out := s.watchers, id
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(&out)
	}
	return nil
}

// Clear removes the persisted identity and drops the in-memory copy and
// token. Watchers fire so role-gated state cannot outlive the session.
func (s *Store) Clear() error {
	s.mu.Lock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.mu.Unlock()
		return err
	}
	s.current = nil
	s.token = ""
	s.tokenExp = time.Time{}
	watchers := s.watchers
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(nil)
	}
	return nil
}

// Watch registers fn to run after every Save and Clear. The argument is the
// new identity, or nil after a Clear.
func (s *Store) Watch(fn func(*models.Identity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// SetToken keeps the login token in memory for the lifetime of the process.
// The token is never persisted. Its expiry claim is read without verifying
// the signature; verification is the server's job on every request.
func (s *Store) SetToken(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = raw
	s.tokenExp = time.Time{}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		s.log.Debug("login token is not a parseable JWT", zap.Error(err))
		return
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.tokenExp = exp.Time
	}
}

// Token returns the in-memory login token, if any.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// TokenExpiry reports when the login token expires, when that claim was
// present and readable.
func (s *Store) TokenExpiry() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenExp, !s.tokenExp.IsZero()
}
