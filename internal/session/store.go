package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"ufscompras/internal/domain"
	"ufscompras/internal/observability"
)

// ErrIncompleteSession is returned when an authenticator yields a session
// without both token and user.
var ErrIncompleteSession = errors.New("session requires both token and user")

// StorageKey is the key under which the session record is persisted.
const StorageKey = "ufscompras:auth"

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
}

// Store is the single source of truth for the client's authentication state.
// Memory and storage change together: a login that cannot be persisted leaves
// the previous state in place.
type Store struct {
	storage Storage
	auth    Authenticator

	mu      sync.RWMutex
	current domain.Session
}

// New creates a logged-out store. Call Initialize to restore a persisted session.
func New(storage Storage, auth Authenticator) *Store {
	return &Store{storage: storage, auth: auth}
}

// Initialize restores the persisted session. Read and parse failures are
// logged and leave the store logged out.
func (s *Store) Initialize(ctx context.Context) {
	restored := s.restore(ctx)

	s.mu.Lock()
	s.current = restored
	s.mu.Unlock()
}

func (s *Store) restore(ctx context.Context) domain.Session {
	logger := observability.FromContext(ctx)

	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		logger.Warn("failed to read stored session", slog.String("error", err.Error()))
		return domain.Session{}
	}
	if !ok {
		return domain.Session{}
	}

	var stored domain.Session
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.Warn("failed to parse stored session", slog.String("error", err.Error()))
		return domain.Session{}
	}
	if !stored.IsAuthenticated() || !stored.Valid() {
		logger.Warn("ignoring incomplete stored session")
		return domain.Session{}
	}

	logger.Debug("session restored", slog.String("user_id", stored.User.ID))
	return stored
}

// Login authenticates and persists the new session. On failure the previous
// state is kept and the error is returned unchanged, so callers can match
// *domain.AuthenticationError.
func (s *Store) Login(ctx context.Context, email, password string) error {
	next, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if !next.IsAuthenticated() || !next.Valid() {
		return ErrIncompleteSession
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.current = next

	observability.FromContext(ctx).Info("user logged in",
		slog.String("user_id", next.User.ID),
		slog.Bool("is_admin", next.User.IsAdmin),
	)
	return nil
}

// Logout clears the session. Memory is cleared even when removing the
// persisted record fails; that failure is returned.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = domain.Session{}

	if err := s.storage.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to remove stored session: %w", err)
	}
	return nil
}

// Current returns a copy of the session.
func (s *Store) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.current
	if current.User != nil {
		user := *current.User
		current.User = &user
	}
	return current
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// User returns a copy of the logged-in user.
func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return domain.User{}, false
	}
	return *s.current.User, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAuthenticated()
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAdmin()
}
