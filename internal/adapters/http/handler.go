package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/syntax-chat/internal/app/conversation"
	"github.com/PabloGalante/syntax-chat/internal/domain"
	"github.com/PabloGalante/syntax-chat/internal/observability"
)

type Server struct {
	svc          *conversation.Service
	defaultTheme domain.Theme
}

func NewServer(svc *conversation.Service, defaultTheme domain.Theme) http.Handler {
	s := &Server{svc: svc, defaultTheme: defaultTheme}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /sessions → create session (POST)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}          →  GET: timeline, DELETE: end session
	// /sessions/{id}/messages →  POST: submit, DELETE: clear
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	// web page
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/chat", s.handleChatForm)
	mux.HandleFunc("/clear", s.handleClearForm)

	return chainMiddlewares(mux, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type sessionResponse struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

type createSessionResponse struct {
	Session sessionResponse `json:"session"`
}

type messageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type displayResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type activityResponse struct {
	Number int    `json:"number"`
	Query  string `json:"query"`
}

type noticeResponse struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Hint        string `json:"hint"`
}

type submitMessageRequest struct {
	Text string `json:"text"`
}

type submitMessageResponse struct {
	State            string           `json:"state"`
	Ignored          bool             `json:"ignored,omitempty"`
	Discarded        bool             `json:"discarded,omitempty"`
	UserMessage      *messageResponse `json:"user_message,omitempty"`
	AssistantMessage *messageResponse `json:"assistant_message,omitempty"`
}

type getSessionResponse struct {
	Session  sessionResponse    `json:"session"`
	Messages []messageResponse  `json:"messages"`
	Display  []displayResponse  `json:"display"`
	Activity []activityResponse `json:"activity"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id} or /sessions/{id}/messages
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSession(w, r, id)
		case http.MethodDelete:
			s.handleEndSession(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "messages" {
		switch r.Method {
		case http.MethodPost:
			s.handleSubmitMessage(w, r, id)
		case http.MethodDelete:
			s.handleClearSession(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	http.NotFound(w, r)
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.StartSession(r.Context(), conversation.StartSessionInput{})
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		Session: toSessionResponse(out.Session, out.Session.State()),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	tl, err := s.svc.GetTimeline(r.Context(), id)
	if err != nil {
		sessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, getSessionResponse{
		Session:  toSessionResponse(tl.Session, tl.State),
		Messages: toMessagesResponse(tl.Transcript),
		Display:  toDisplayResponse(tl.Display),
		Activity: toActivityResponse(tl.Activity),
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.svc.EndSession(r.Context(), id); err != nil {
		sessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.svc.ClearSession(r.Context(), id); err != nil {
		sessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmitMessage(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req submitMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	res, err := s.svc.SubmitMessage(r.Context(), conversation.SubmitMessageInput{
		SessionID: id,
		Text:      req.Text,
	})
	if err != nil {
		sessionError(w, r, err)
		return
	}

	if res.Notice != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"state": string(res.State),
			"error": noticeResponse{
				Kind:        string(res.Notice.Kind),
				Description: res.Notice.Description,
				Hint:        res.Notice.Hint,
			},
		})
		return
	}

	resp := submitMessageResponse{
		State:     string(res.State),
		Ignored:   res.Ignored,
		Discarded: res.Discarded,
	}
	if res.UserMessage != nil {
		m := toMessageResponse(*res.UserMessage)
		resp.UserMessage = &m
	}
	if res.AssistantMessage != nil {
		m := toMessageResponse(*res.AssistantMessage)
		resp.AssistantMessage = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func toSessionResponse(s *conversation.Session, state domain.TurnState) sessionResponse {
	return sessionResponse{
		ID:        string(s.ID),
		State:     string(state),
		CreatedAt: s.CreatedAt,
	}
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		Role:    string(m.Role),
		Content: m.Content,
	}
}

func toMessagesResponse(msgs domain.Transcript) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

func toDisplayResponse(entries []domain.DisplayEntry) []displayResponse {
	out := make([]displayResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, displayResponse{Role: string(e.Label), Content: e.Content})
	}
	return out
}

func toActivityResponse(items []domain.ActivityItem) []activityResponse {
	out := make([]activityResponse, 0, len(items))
	for _, it := range items {
		out = append(out, activityResponse{Number: it.Number, Query: it.Query})
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

// sessionError maps service errors to status codes.
func sessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, conversation.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
	case errors.Is(err, conversation.ErrTurnInFlight):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		internalError(w, r, err)
	}
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
