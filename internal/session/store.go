// Package session keeps one branch.Controller per browser session in memory.
// Nothing is persisted; a restart forgets every tree.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/karolswdev/gamescout/internal/branch"
)

// CookieName is the cookie carrying the session id.
const CookieName = "gamescout_session"

// DefaultMaxSessions bounds the number of live sessions held by a Store.
const DefaultMaxSessions = 10000

type entry struct {
	ctrl     *branch.Controller
	lastSeen time.Time
}

// Store maps session ids to controllers. Idle sessions are evicted lazily,
// on the next access to the store, once they exceed the TTL.
type Store struct {
	src         branch.Source
	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
}

// Option configures a Store.
type Option func(*Store)

// WithMaxSessions caps the number of live sessions. When a new session would
// exceed the cap, the least recently used one is dropped. n <= 0 removes the cap.
func WithMaxSessions(n int) Option {
	return func(s *Store) { s.maxSessions = n }
}

// NewStore returns a Store whose controllers use src. A zero ttl keeps
// sessions until they are pushed out by the session cap.
func NewStore(src branch.Source, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		src:         src,
		ttl:         ttl,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the controller for id, creating a new session when id is empty,
// malformed, unknown or expired. The returned id is the one to hand back to
// the client.
func (s *Store) Get(id string) (uuid.UUID, *branch.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	if parsed, err := uuid.Parse(id); err == nil {
		if e, ok := s.sessions[parsed]; ok {
			e.lastSeen = now
			return parsed, e.ctrl
		}
	}

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}
	newID := uuid.New()
	ctrl := branch.NewController(s.src)
	s.sessions[newID] = &entry{ctrl: ctrl, lastSeen: now}
	log.Debug().Str("session", newID.String()).Int("active", len(s.sessions)).Msg("Created session")
	return newID, ctrl
}

// Lookup returns the controller for id without creating one.
func (s *Store) Lookup(id string) (*branch.Controller, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.evictLocked(now)
	e, ok := s.sessions[parsed]
	if !ok {
		return nil, false
	}
	e.lastSeen = now
	return e.ctrl, true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(s.now())
	return len(s.sessions)
}

func (s *Store) evictLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			log.Debug().Str("session", id.String()).Msg("Evicted idle session")
		}
	}
}

func (s *Store) evictOldestLocked() {
	var (
		oldestID uuid.UUID
		oldest   *entry
	)
	for id, e := range s.sessions {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, e
		}
	}
	if oldest != nil {
		delete(s.sessions, oldestID)
		log.Debug().Str("session", oldestID.String()).Int("max", s.maxSessions).Msg("Evicted least recently used session")
	}
}
