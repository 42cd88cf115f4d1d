// SPDX-License-Identifier: MIT

package sessions

import (
	"context"
	"sync"
)

type (
	// InMemoryRepository is the non-durable Repository used by tests.
	InMemoryRepository struct {
		sessions map[string][]*Session
		mx       sync.RWMutex
	}
)

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{sessions: make(map[string][]*Session)}
}

func (r *InMemoryRepository) ListSessions(_ context.Context, accountID string) ([]*Session, error) {
	r.mx.RLock()
	defer r.mx.RUnlock()

	return copySessions(r.sessions[accountID]), nil
}

func (r *InMemoryRepository) SaveSessions(_ context.Context, accountID string, sessions []*Session) error {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.sessions[accountID] = copySessions(sessions)

	return nil
}

func (r *InMemoryRepository) DeleteSessions(_ context.Context, accountID string) error {
	r.mx.Lock()
	defer r.mx.Unlock()
	delete(r.sessions, accountID)

	return nil
}

func copySessions(sessions []*Session) []*Session {
	clones := make([]*Session, 0, len(sessions))
	for _, session := range sessions {
		clone := *session
		clones = append(clones, &clone)
	}

	return clones
}
