package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Session is one user's live wizard plus its autosaver teardown hook.
// DraftID names the Redis snapshot this session writes; manual saves and the
// autosaver share it so the stored draft id stays stable across writes.
type Session struct {
	Wizard  *Wizard
	DraftID string
	stop    func()
}

// Registry holds the active wizard sessions, one per user. A cron job reaps
// sessions idle past the configured window so abandoned drafts stop ticking
// and release their staged image bytes (the Redis snapshot remains the
// recovery path).
type Registry struct {
	mu         sync.Mutex
	sessions   map[uuid.UUID]*Session
	idleWindow time.Duration
	cron       *cron.Cron
}

// NewRegistry builds a registry and schedules the reaper every ten minutes.
func NewRegistry(idleWindow time.Duration) *Registry {
	r := &Registry{
		sessions:   make(map[uuid.UUID]*Session),
		idleWindow: idleWindow,
		cron:       cron.New(),
	}
	_, _ = r.cron.AddFunc("@every 10m", func() {
		if n := r.Reap(time.Now()); n > 0 {
			log.Info().Int("reaped", n).Msg("Evicted idle wizard sessions")
		}
	})
	r.cron.Start()
	return r
}

// Get returns the user's active session, if any.
func (r *Registry) Get(userID uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// Put registers a session for the user, replacing (and stopping) any prior
// one. stop is invoked on eviction, replacement, and Remove.
func (r *Registry) Put(userID uuid.UUID, w *Wizard, draftID string, stop func()) *Session {
	r.mu.Lock()
	prev := r.sessions[userID]
	s := &Session{Wizard: w, DraftID: draftID, stop: stop}
	r.sessions[userID] = s
	r.mu.Unlock()
	if prev != nil && prev.stop != nil {
		prev.stop()
	}
	return s
}

// Remove drops the user's session and stops its autosaver.
func (r *Registry) Remove(userID uuid.UUID) {
	r.mu.Lock()
	s := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()
	if s != nil && s.stop != nil {
		s.stop()
	}
}

// Reap evicts sessions idle past the window and returns how many went.
func (r *Registry) Reap(now time.Time) int {
	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if now.Sub(s.Wizard.LastActive()) > r.idleWindow {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()
	for _, s := range expired {
		if s.stop != nil {
			s.stop()
		}
	}
	return len(expired)
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops the reaper and every session.
func (r *Registry) Close() {
	r.cron.Stop()
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		sessions = append(sessions, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	for _, s := range sessions {
		if s.stop != nil {
			s.stop()
		}
	}
}
