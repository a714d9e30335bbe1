package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/syntax-chat/internal/domain"
	"github.com/PabloGalante/syntax-chat/internal/observability"
)

// ErrTurnInFlight rejects a submission while the previous turn awaits its reply.
var ErrTurnInFlight = errors.New("a message is already awaiting a reply")

// TurnResult describes how one submission ended.
type TurnResult struct {
	State domain.TurnState

	// Ignored is set for blank submissions. Nothing was sent.
	Ignored bool

	// Discarded is set when the session was cleared while the reply was in
	// flight. The reply is dropped.
	Discarded bool

	UserMessage      *domain.Message
	AssistantMessage *domain.Message
	Notice           *domain.Notice
}

// Session runs the turns of one interactive conversation. At most one turn
// is in flight at a time.
type Session struct {
	ID        domain.SessionID
	CreatedAt time.Time

	store   *Store
	gateway *Gateway
	display domain.Display

	mu         sync.Mutex
	state      domain.TurnState
	generation uint64
}

func NewSession(id domain.SessionID, gateway *Gateway, display domain.Display) *Session {
	if display == nil {
		display = domain.NopDisplay{}
	}
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		store:     NewStore(),
		gateway:   gateway,
		display:   display,
		state:     domain.TurnIdle,
	}
}

// SubmitMessage runs one turn: append the user text, call the gateway and
// either append the reply or surface a notice. A failed turn keeps the user
// message so the next submission carries it as context.
func (s *Session) SubmitMessage(ctx context.Context, text string) (*TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return &TurnResult{State: s.State(), Ignored: true}, nil
	}

	s.mu.Lock()
	if s.state == domain.TurnAwaitingReply {
		s.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	s.store.AppendUser(text)
	s.state = domain.TurnAwaitingReply
	gen := s.generation
	transcript := s.store.Snapshot()
	s.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("session_id", s.ID)
	log.Debug("turn dispatched", "messages", len(transcript))

	reply, failure := s.gateway.Complete(ctx, transcript)

	s.mu.Lock()
	userMsg := domain.Message{Role: domain.RoleUser, Content: text}

	// Clear already moved the session on. A newer turn may own the state.
	if gen != s.generation {
		s.mu.Unlock()
		log.Info("reply dropped, session cleared during turn")
		return &TurnResult{State: domain.TurnIdle, Discarded: true}, nil
	}

	if failure != nil {
		s.state = domain.TurnFailed
		s.mu.Unlock()

		notice := NewNotice(failure)
		s.display.OnError(notice)
		return &TurnResult{
			State:       domain.TurnFailed,
			UserMessage: &userMsg,
			Notice:      &notice,
		}, nil
	}

	if err := s.store.AppendAssistant(reply.Content); err != nil {
		s.state = domain.TurnIdle
		s.mu.Unlock()
		return nil, err
	}
	s.state = domain.TurnDone
	s.mu.Unlock()

	assistantMsg := domain.Message{Role: domain.RoleAssistant, Content: reply.Content}
	s.display.OnMessageAppended(domain.RoleUser, text)
	s.display.OnMessageAppended(domain.RoleAssistant, reply.Content)

	return &TurnResult{
		State:            domain.TurnDone,
		UserMessage:      &userMsg,
		AssistantMessage: &assistantMsg,
	}, nil
}

// Clear resets transcript and display log and returns the session to Idle
// at once. A reply still in flight is dropped when it arrives.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Reset()
	s.generation++
	s.state = domain.TurnIdle
}

// State reports the state of the latest turn. Done and Failed accept a new
// submission just like Idle.
func (s *Session) State() domain.TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() domain.Transcript {
	return s.store.Snapshot()
}

func (s *Session) DisplayLog() []domain.DisplayEntry {
	return s.store.DisplayLog()
}

func (s *Session) ActivityLog() []domain.ActivityItem {
	return s.store.ActivityLog()
}
