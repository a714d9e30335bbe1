package conversation

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/PabloGalante/syntax-chat/internal/domain"
	"github.com/PabloGalante/syntax-chat/internal/observability"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRegistry keeps the live sessions of the process.
type SessionRegistry interface {
	Create(session *Session) error
	Get(id domain.SessionID) (*Session, error)
	Delete(id domain.SessionID) error
}

type Service struct {
	gateway  *Gateway
	sessions SessionRegistry
}

func NewService(gateway *Gateway, sessions SessionRegistry) *Service {
	return &Service{
		gateway:  gateway,
		sessions: sessions,
	}
}

type StartSessionInput struct {
	// Display receives the turn notifications. Nil means structured logs.
	Display domain.Display
}

type StartSessionOutput struct {
	Session *Session
}

func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	id := domain.SessionID(uuid.NewString())

	log := observability.LoggerFromContext(ctx).With("session_id", id)

	display := in.Display
	if display == nil {
		display = NewLogDisplay(log)
	}

	session := NewSession(id, s.gateway, display)
	if err := s.sessions.Create(session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	log.Info("session started")
	return &StartSessionOutput{Session: session}, nil
}

type SubmitMessageInput struct {
	SessionID domain.SessionID
	Text      string
}

func (s *Service) SubmitMessage(ctx context.Context, in SubmitMessageInput) (*TurnResult, error) {
	session, err := s.sessions.Get(in.SessionID)
	if err != nil {
		return nil, err
	}

	ctx = observability.WithSessionID(ctx, string(session.ID))
	log := observability.LoggerFromContext(ctx)

	res, err := session.SubmitMessage(ctx, in.Text)
	if err != nil {
		log.Warn("submit rejected", "error", err)
		return nil, err
	}

	switch {
	case res.Ignored:
		log.Debug("blank submission ignored")
	case res.Notice != nil:
		log.Info("turn failed", "kind", res.Notice.Kind)
	default:
		log.Info("turn completed", "state", res.State)
	}
	return res, nil
}

func (s *Service) ClearSession(ctx context.Context, id domain.SessionID) error {
	session, err := s.sessions.Get(id)
	if err != nil {
		return err
	}
	session.Clear()

	observability.LoggerFromContext(ctx).Info("session cleared", "session_id", id)
	return nil
}

// EndSession destroys the session. Its transcript is gone for good.
func (s *Service) EndSession(ctx context.Context, id domain.SessionID) error {
	if err := s.sessions.Delete(id); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info("session ended", "session_id", id)
	return nil
}

// Timeline is a read-only view of a session.
type Timeline struct {
	Session    *Session
	State      domain.TurnState
	Transcript domain.Transcript
	Display    []domain.DisplayEntry
	Activity   []domain.ActivityItem
}

func (s *Service) GetTimeline(ctx context.Context, id domain.SessionID) (*Timeline, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	t := &Timeline{
		Session:    session,
		State:      session.State(),
		Transcript: session.Snapshot(),
		Display:    session.DisplayLog(),
		Activity:   session.ActivityLog(),
	}

	observability.LoggerFromContext(ctx).Debug("fetched session timeline",
		"session_id", id,
		"message_count", len(t.Transcript),
	)
	return t, nil
}
