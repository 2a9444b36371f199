package memory

import (
	"context"
	"strings"
	"sync"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

// SessionRepository records issued session identifiers so logout can revoke them.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

var _ repositories.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository constructs an empty session store.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]domain.Session)}
}

// Insert records an issued session.
func (r *SessionRepository) Insert(_ context.Context, session domain.Session) error {
	id := strings.TrimSpace(session.ID)
	if id == "" || strings.TrimSpace(session.UserID) == "" {
		return invalidError("session repository: insert", "session id and user id are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return conflictError("session repository: insert", "session %s already recorded", id)
	}
	r.sessions[id] = session
	return nil
}

// Find returns the session for the identifier, if still registered.
func (r *SessionRepository) Find(_ context.Context, sessionID string) (domain.Session, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return domain.Session{}, invalidError("session repository: find", "session id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, notFoundError("session repository: find", "no session %s", id)
	}
	return session, nil
}

// Delete revokes the session. Deleting an absent session is a no-op.
func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return invalidError("session repository: delete", "session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}
