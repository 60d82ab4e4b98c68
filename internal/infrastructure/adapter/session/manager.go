package session

import (
	"context"
	"errors"
	"time"

	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/persistence"
	"github.com/google/uuid"
)

// Manager creates, resolves and destroys sessions.
// The store maps a random session ID to a serialized user ID; the client
// only ever holds a signed token naming the session ID.
type Manager struct {
	store  persistence.SessionStore
	codec  *TokenCodec
	ttl    time.Duration
	logger coreport.Logger
}

// NewManager creates a session manager
func NewManager(store persistence.SessionStore, codec *TokenCodec, ttl time.Duration, logger coreport.Logger) *Manager {
	return &Manager{
		store:  store,
		codec:  codec,
		ttl:    ttl,
		logger: logger.With(map[string]any{"component": "session"}),
	}
}

// TTL returns the lifetime of new sessions
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session for subject and returns the token for the cookie
func (m *Manager) Create(ctx context.Context, subject string) (string, error) {
	sessionID := uuid.NewString()
	if err := m.store.Save(ctx, sessionID, subject, m.ttl); err != nil {
		return "", err
	}

	token, err := m.codec.Issue(sessionID, m.ttl)
	if err != nil {
		_ = m.store.Delete(ctx, sessionID)
		return "", err
	}

	m.logger.Debug("Session created", map[string]any{"subject": subject})
	return token, nil
}

// Resolve returns the subject of the session named by token.
// A bad signature, an expired token, or a missing session yield ErrUnauthenticated.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errs.ErrUnauthenticated
	}

	sessionID, err := m.codec.Parse(token)
	if err != nil {
		m.logger.Debug("Rejected session token", map[string]any{"error": err.Error()})
		return "", errs.ErrUnauthenticated
	}

	subject, err := m.store.Get(ctx, sessionID)
	if errors.Is(err, errs.ErrNotFound) {
		return "", errs.ErrUnauthenticated
	}
	if err != nil {
		return "", err
	}
	return subject, nil
}

// Destroy deletes the session named by token, unknown tokens are ignored
func (m *Manager) Destroy(ctx context.Context, token string) error {
	sessionID, err := m.codec.Parse(token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, sessionID)
}
