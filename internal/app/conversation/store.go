package conversation

import (
	"errors"
	"strings"
	"sync"

	"github.com/PabloGalante/syntax-chat/internal/domain"
)

// ErrNoPendingUser is returned when an assistant reply has no user message
// to answer.
var ErrNoPendingUser = errors.New("no pending user message")

// Store owns the transcript and the display log of one session.
type Store struct {
	mu         sync.RWMutex
	transcript domain.Transcript
	display    []domain.DisplayEntry
}

func NewStore() *Store {
	return &Store{}
}

// AppendUser appends a user message. Blank text is ignored and reported as false.
func (s *Store) AppendUser(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript = append(s.transcript, domain.Message{Role: domain.RoleUser, Content: text})
	return true
}

// AppendAssistant appends the reply to the last user message. The display log
// receives the user line and the bot line together.
func (s *Store) AppendAssistant(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.transcript.Last()
	if !ok || last.Role != domain.RoleUser {
		return ErrNoPendingUser
	}

	s.transcript = append(s.transcript, domain.Message{Role: domain.RoleAssistant, Content: text})
	s.display = append(s.display,
		domain.DisplayEntry{Label: domain.LabelUser, Content: last.Content},
		domain.DisplayEntry{Label: domain.LabelBot, Content: text},
	)
	return nil
}

// Reset clears transcript and display log together.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript = nil
	s.display = nil
}

// Snapshot returns a copy of the transcript.
func (s *Store) Snapshot() domain.Transcript {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(domain.Transcript, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transcript)
}

// DisplayLog returns a copy of the display log.
func (s *Store) DisplayLog() []domain.DisplayEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DisplayEntry, len(s.display))
	copy(out, s.display)
	return out
}

// ActivityLog lists the user queries of the display log, newest first.
func (s *Store) ActivityLog() []domain.ActivityItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var queries []string
	for _, e := range s.display {
		if e.Label == domain.LabelUser {
			queries = append(queries, e.Content)
		}
	}

	out := make([]domain.ActivityItem, 0, len(queries))
	for i := len(queries) - 1; i >= 0; i-- {
		out = append(out, domain.ActivityItem{Number: i + 1, Query: queries[i]})
	}
	return out
}
