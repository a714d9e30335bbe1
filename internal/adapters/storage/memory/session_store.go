package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/PabloGalante/syntax-chat/internal/app/conversation"
	"github.com/PabloGalante/syntax-chat/internal/domain"
	"github.com/PabloGalante/syntax-chat/internal/observability"
)

// SessionStore keeps live sessions in process memory. Sessions die with the
// process, or earlier when an idle timeout is set.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*entry
	idle     time.Duration
}

type entry struct {
	session  *conversation.Session
	lastSeen time.Time
}

type Option func(*SessionStore)

// WithIdleTimeout makes ExpireIdle drop sessions not looked up for d.
// Zero keeps sessions forever.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *SessionStore) {
		s.idle = d
	}
}

func NewSessionStore(opts ...Option) *SessionStore {
	s := &SessionStore{
		sessions: make(map[domain.SessionID]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Create(session *conversation.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return errors.New("session already exists")
	}

	s.sessions[session.ID] = &entry{session: session, lastSeen: time.Now()}
	return nil
}

// Get returns the session and marks it as seen.
func (s *SessionStore) Get(id domain.SessionID) (*conversation.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, conversation.ErrSessionNotFound
	}
	e.lastSeen = time.Now()
	return e.session, nil
}

func (s *SessionStore) Delete(id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return conversation.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ExpireIdle deletes the sessions last seen more than the idle timeout before
// now and returns how many it removed. A session awaiting a reply is kept.
func (s *SessionStore) ExpireIdle(now time.Time) int {
	if s.idle <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) <= s.idle {
			continue
		}
		if e.session.State() == domain.TurnAwaitingReply {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}

// Run calls ExpireIdle every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if s.idle <= 0 || interval <= 0 {
		return
	}

	log := observability.WithFields("component", "session_store")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.ExpireIdle(now); n > 0 {
				log.Info("expired idle sessions", "count", n, "remaining", s.Len())
			}
		}
	}
}
