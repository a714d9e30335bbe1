package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/PabloGalante/syntax-chat/internal/adapters/http"
	"github.com/PabloGalante/syntax-chat/internal/adapters/llm"
	"github.com/PabloGalante/syntax-chat/internal/adapters/storage/memory"
	"github.com/PabloGalante/syntax-chat/internal/app/conversation"
	"github.com/PabloGalante/syntax-chat/internal/domain"
)

// failingLLM fails every call with the same error.
type failingLLM struct{ err error }

func (f failingLLM) Generate(context.Context, []domain.Message, domain.GenerationOptions) (string, error) {
	return "", f.err
}

func newTestServer(t *testing.T, model domain.CompletionModel) http.Handler {
	t.Helper()
	srv, _ := newTestServerWithStore(t, model)
	return srv
}

func newTestServerWithStore(t *testing.T, model domain.CompletionModel) (http.Handler, *memory.SessionStore) {
	t.Helper()

	if model == nil {
		model = llm.NewMockLLM()
	}
	gw := conversation.NewGateway(model, domain.GenerationOptions{Model: "gemini-test", Temperature: 0.7}, time.Second)
	store := memory.NewSessionStore()
	svc := conversation.NewService(gw, store)
	return httpadapter.NewServer(svc, domain.ThemeDark), store
}

func createSession(t *testing.T, srv http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Session.ID == "" {
		t.Fatal("expected session id")
	}
	return resp.Session.ID
}

func postMessage(srv http.Handler, id, text string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"text": text})
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/messages", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestCreateSessionAndSendMessage(t *testing.T) {
	srv := newTestServer(t, nil)
	id := createSession(t, srv)

	w := postMessage(srv, id, "Hello")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		State            string `json:"state"`
		AssistantMessage struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"assistant_message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.State != "done" || resp.AssistantMessage.Role != "assistant" || resp.AssistantMessage.Content == "" {
		t.Fatalf("unexpected response %+v", resp)
	}

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var tl struct {
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
		Activity []struct {
			Number int    `json:"number"`
			Query  string `json:"query"`
		} `json:"activity"`
	}
	if err := json.NewDecoder(w.Body).Decode(&tl); err != nil {
		t.Fatal(err)
	}
	if len(tl.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(tl.Messages))
	}
	if len(tl.Activity) != 1 || tl.Activity[0].Query != "Hello" {
		t.Fatalf("unexpected activity %+v", tl.Activity)
	}
}

func TestBlankMessageIsIgnored(t *testing.T) {
	srv := newTestServer(t, nil)
	id := createSession(t, srv)

	w := postMessage(srv, id, "   ")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ignored":true`) {
		t.Fatalf("expected ignored flag, body=%s", w.Body.String())
	}
}

func TestGatewayFailureReturnsNotice(t *testing.T) {
	srv := newTestServer(t, failingLLM{err: errors.New("Error 429: quota exceeded")})
	id := createSession(t, srv)

	w := postMessage(srv, id, "Hello")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}

	var resp struct {
		Error struct {
			Kind string `json:"kind"`
			Hint string `json:"hint"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Kind != string(domain.FailureRateLimited) || resp.Error.Hint == "" {
		t.Fatalf("unexpected error body %+v", resp)
	}
}

func TestClearAndDeleteSession(t *testing.T) {
	srv := newTestServer(t, nil)
	id := createSession(t, srv)
	postMessage(srv, id, "Hello")

	req := httptest.NewRequest(http.MethodDelete, "/sessions/"+id+"/messages", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on clear, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/sessions/"+id, nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", w.Code)
	}

	w = postMessage(srv, id, "Hello")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestWebPageFlow(t *testing.T) {
	srv, store := newTestServerWithStore(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/?theme=light", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("viewing the page must not start a session")
	}
	if !strings.Contains(w.Body.String(), "No recent activity.") {
		t.Error("expected empty activity log")
	}
	if !strings.Contains(w.Body.String(), "#FF9A9E") {
		t.Error("expected light palette")
	}

	form := url.Values{"message": {"<b>Hello</b>"}, "theme": {"light"}}
	req = httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie after the first message")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}

	body := w.Body.String()
	if !strings.Contains(body, `user-bubble"`) || !strings.Contains(body, `bot-bubble"`) {
		t.Error("expected both chat bubbles")
	}
	if strings.Contains(body, "<b>Hello</b>") {
		t.Error("message content must be escaped")
	}

	req = httptest.NewRequest(http.MethodPost, "/clear", strings.NewReader("theme=light"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if strings.Contains(w.Body.String(), `user-bubble"`) {
		t.Error("expected no bubbles after clear")
	}
	if !strings.Contains(w.Body.String(), "No recent activity.") {
		t.Error("expected empty activity log after clear")
	}
}

func TestCookielessRequestsDoNotCreateSessions(t *testing.T) {
	srv, store := newTestServerWithStore(t, nil)

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/clear", strings.NewReader("theme=dark"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}

	if store.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", store.Len())
	}
}

func TestStaleCookieIsNotRecreatedOnView(t *testing.T) {
	srv, store := newTestServerWithStore(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "syntax_session", Value: "expired-id"})
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", store.Len())
	}
}
