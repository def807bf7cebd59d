package service

import (
	"sync"

	"github.com/neronlabs/neron/internal/models"
)

// SearchSession holds the ranked results of one user's most recent search.
// The results slice is never mutated after the session is published, so
// concurrent pagination reads of a stable session are consistent.
type SearchSession struct {
	Query   string
	Results []models.RankedResult
}

// sessionRegistry is a volatile per-user session store backed by a process
// local map. Safe for concurrent access. A new search replaces the user's
// previous session; on racing replacements the last writer wins.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[int64]*SearchSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[int64]*SearchSession)}
}

// get returns the user's current session, or nil when none exists (never
// searched, or process restart wiped in-memory state).
func (r *sessionRegistry) get(userID int64) *SearchSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sessions[userID]
}

// put stores a session for the user, replacing any previous one.
func (r *sessionRegistry) put(userID int64, session *SearchSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = session
}
