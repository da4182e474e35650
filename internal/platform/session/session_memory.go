package session

import (
	"context"
	"sync"
	"time"

	"dashboard_backend/internal/feature/auth/domain/entity"
	"dashboard_backend/internal/feature/auth/usecase"
)

// SessionMemory implements usecase.SessionRepository with an in-process map.
// It is the fallback when Redis is unavailable; sessions do not survive a
// restart.
type SessionMemory struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewSessionMemory creates a new SessionMemory instance.
func NewSessionMemory() *SessionMemory {
	return &SessionMemory{sessions: make(map[string]*entity.Session)}
}

// Create stores a new session.
func (r *SessionMemory) Create(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

// FindByID retrieves a session by its ID. Expired sessions are dropped on read.
func (r *SessionMemory) FindByID(_ context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, usecase.ErrSessionNotFound
	}
	if time.Now().After(s.ExpiresAt) {
		delete(r.sessions, id)
		return nil, usecase.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

// Revoke marks a session as revoked.
func (r *SessionMemory) Revoke(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return usecase.ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}
