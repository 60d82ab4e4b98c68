package persistence

import (
	"context"
	"time"
)

// SessionStore keeps server-side sessions: an opaque session ID mapped to a serialized user ID
type SessionStore interface {
	// Save stores the subject under sessionID for ttl
	Save(ctx context.Context, sessionID, subject string, ttl time.Duration) error

	// Get returns the subject stored under sessionID
	//
	// Possible errors:
	// - ErrNotFound: If the session doesn't exist or expired
	// - ErrStore: If the session backend fails
	Get(ctx context.Context, sessionID string) (string, error)

	// Delete removes the session, deleting a missing session is not an error
	Delete(ctx context.Context, sessionID string) error
}
