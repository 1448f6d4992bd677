package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenKey is the fixed key the bearer token is persisted under
const TokenKey = "auth_token"

// ErrNoToken is returned by Claims when no token is held
var ErrNoToken = errors.New("no auth token")

// Store persists the bearer token between runs
type Store interface {
	// Load returns the stored token, or "" when none is stored
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// Session owns the single active bearer token. Only SetToken and Clear mutate it.
type Session struct {
	mu     sync.RWMutex
	token  string
	store  Store
	logger *zap.Logger
}

// New creates a session and restores any token persisted in store
func New(ctx context.Context, store Store, logger *zap.Logger) (*Session, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	token, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	return &Session{token: token, store: store, logger: logger}, nil
}

// Token returns the current bearer token, or "" when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// HasToken reports whether a token is held
func (s *Session) HasToken() bool {
	return s.Token() != ""
}

// Matches reports whether token is the active token. It is false while
// logged out.
func (s *Session) Matches(token string) bool {
	current := s.Token()
	if current == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(current), []byte(token)) == 1
}

// SetToken replaces the active token and persists it
func (s *Session) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := s.store.Save(ctx, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Clear drops the active token. The in-memory token is cleared even if the
// store fails, so later calls go out unauthenticated either way.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Delete(ctx); err != nil {
		s.logger.Warn("Failed to delete persisted token", zap.Error(err))
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// TokenClaims is what the console reads out of a JWT bearer token
type TokenClaims struct {
	Subject   string
	ExpiresAt *time.Time
}

// Expired reports whether the token carries an expiry in the past
func (c TokenClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Claims decodes the held token without verifying its signature.
// The backend is the only verifier; this is for display.
func (s *Session) Claims() (*TokenClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNoToken
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("token is not a JWT: %w", err)
	}

	out := &TokenClaims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		out.ExpiresAt = &exp
	}
	return out, nil
}
