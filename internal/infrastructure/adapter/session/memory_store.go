package session

import (
	"context"
	"sync"
	"time"

	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
)

type memoryEntry struct {
	subject   string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory.
// Sessions are lost on restart and not shared between instances.
type MemoryStore struct {
	mu           sync.Mutex
	sessions     map[string]memoryEntry
	timeProvider coreport.TimeProvider
}

// NewMemoryStore creates an in-process session store
func NewMemoryStore(timeProvider coreport.TimeProvider) *MemoryStore {
	return &MemoryStore{
		sessions:     make(map[string]memoryEntry),
		timeProvider: timeProvider,
	}
}

// Save stores the subject under sessionID for ttl
func (s *MemoryStore) Save(_ context.Context, sessionID, subject string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timeProvider.Now()
	s.sweep(now)
	s.sessions[sessionID] = memoryEntry{subject: subject, expiresAt: now.Add(ttl)}
	return nil
}

// Get returns the subject stored under sessionID
func (s *MemoryStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return "", errs.ErrNotFound
	}
	if !s.timeProvider.Now().Before(entry.expiresAt) {
		delete(s.sessions, sessionID)
		return "", errs.ErrNotFound
	}
	return entry.subject, nil
}

// Delete removes the session
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// sweep drops expired sessions, caller holds mu
func (s *MemoryStore) sweep(now time.Time) {
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
