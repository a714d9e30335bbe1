package httpadapter

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/PabloGalante/syntax-chat/internal/app/conversation"
	"github.com/PabloGalante/syntax-chat/internal/domain"
	"github.com/PabloGalante/syntax-chat/internal/theme"
)

const sessionCookie = "syntax_session"

// cssPalette marks the palette values as trusted CSS. They come from
// theme constants, never from user input.
type cssPalette struct {
	Background template.CSS
	UserBG     template.CSS
	UserBorder template.CSS
	BotBG      template.CSS
	BotBorder  template.CSS
	Text       template.CSS
	TitleBG    template.CSS
	InputText  template.CSS
}

func toCSSPalette(p theme.Palette) cssPalette {
	return cssPalette{
		Background: template.CSS(p.Background),
		UserBG:     template.CSS(p.UserBG),
		UserBorder: template.CSS(p.UserBorder),
		BotBG:      template.CSS(p.BotBG),
		BotBorder:  template.CSS(p.BotBorder),
		Text:       template.CSS(p.Text),
		TitleBG:    template.CSS(p.TitleBG),
		InputText:  template.CSS(p.InputText),
	}
}

type pageData struct {
	Palette     cssPalette
	Theme       domain.Theme
	OtherTheme  domain.Theme
	Entries     []domain.DisplayEntry
	Activity    []domain.ActivityItem
	Notice      *domain.Notice
	Busy        bool
	BusyMessage string
}

// GET /
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	session, err := s.lookupSession(r)
	if err != nil {
		internalError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, session, nil, "")
}

// POST /chat
func (s *Server) handleChatForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, "failed to parse form")
		return
	}

	session, err := s.sessionFromCookie(w, r)
	if err != nil {
		internalError(w, r, err)
		return
	}

	res, err := s.svc.SubmitMessage(r.Context(), conversation.SubmitMessageInput{
		SessionID: session.ID,
		Text:      r.PostFormValue("message"),
	})
	if errors.Is(err, conversation.ErrTurnInFlight) {
		s.renderPage(w, r, http.StatusConflict, session, nil, "Still waiting for the previous reply.")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}

	s.renderPage(w, r, http.StatusOK, session, res.Notice, "")
}

// POST /clear
func (s *Server) handleClearForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	session, err := s.lookupSession(r)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if session != nil {
		if err := s.svc.ClearSession(r.Context(), session.ID); err != nil {
			internalError(w, r, err)
			return
		}
	}

	target := "/?" + url.Values{"theme": {string(s.themeFor(r))}}.Encode()
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// lookupSession returns the browser's session, or nil when the cookie is
// missing or points at a session that is gone.
func (s *Server) lookupSession(r *http.Request) (*conversation.Session, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil, nil
	}

	tl, err := s.svc.GetTimeline(r.Context(), domain.SessionID(c.Value))
	if errors.Is(err, conversation.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tl.Session, nil
}

// sessionFromCookie is lookupSession that starts a new session when there is
// none. Only a submitted message creates one.
func (s *Server) sessionFromCookie(w http.ResponseWriter, r *http.Request) (*conversation.Session, error) {
	session, err := s.lookupSession(r)
	if err != nil || session != nil {
		return session, err
	}

	out, err := s.svc.StartSession(r.Context(), conversation.StartSessionInput{})
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    string(out.Session.ID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return out.Session, nil
}

func (s *Server) themeFor(r *http.Request) domain.Theme {
	v := r.FormValue("theme")
	if v == "" {
		return s.defaultTheme
	}
	return domain.ParseTheme(v)
}

// renderPage draws the chat. A nil session renders the empty page.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, session *conversation.Session, notice *domain.Notice, busy string) {
	t := s.themeFor(r)
	data := pageData{
		Palette:     toCSSPalette(theme.For(t)),
		Theme:       t,
		OtherTheme:  theme.Toggle(t),
		Notice:      notice,
		Busy:        busy != "",
		BusyMessage: busy,
	}
	if session != nil {
		data.Entries = session.DisplayLog()
		data.Activity = session.ActivityLog()
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Syntax Chatbot</title>
<style>
body { font-family: 'Poppins', sans-serif; color: {{.Palette.Text}}; margin: 0; }
.app { min-height: 100vh; display: flex; background: {{.Palette.Background}}; background-size: 400% 400%; animation: gradient 15s ease infinite; }
@keyframes gradient { 0% { background-position: 0% 50%; } 50% { background-position: 100% 50%; } 100% { background-position: 0% 50%; } }
aside { width: 260px; padding: 20px; background: {{.Palette.TitleBG}}; }
main { flex: 1; max-width: 860px; margin: 0 auto; padding: 20px; }
.title-container { text-align: center; padding: 25px; margin-bottom: 30px; background: {{.Palette.TitleBG}}; backdrop-filter: blur(20px); border-radius: 20px; }
.main-title { font-size: 50px; font-weight: 800; margin: 0; }
.subtitle { font-size: 16px; opacity: 0.9; font-weight: 300; }
.chat-container { display: flex; flex-direction: column; gap: 15px; }
.chat-bubble { padding: 15px 25px; border-radius: 20px; backdrop-filter: blur(15px); border: 1px solid; max-width: 80%; white-space: pre-wrap; }
.user-bubble { background: {{.Palette.UserBG}}; border-color: {{.Palette.UserBorder}}; color: white; margin-left: auto; border-bottom-right-radius: 5px; }
.bot-bubble { background: {{.Palette.BotBG}}; border-color: {{.Palette.BotBorder}}; margin-right: auto; border-bottom-left-radius: 5px; }
.error { background: rgba(211, 47, 47, 0.85); color: white; padding: 12px 20px; border-radius: 12px; margin-bottom: 15px; }
form.chat { display: flex; gap: 8px; margin-bottom: 20px; }
form.chat input[type=text] { flex: 1; background: {{.Palette.TitleBG}}; color: {{.Palette.InputText}}; border-radius: 12px; padding: 10px; font-size: 16px; border: 1px solid rgba(255,255,255,0.3); }
</style>
</head>
<body>
<div class="app">
<aside>
  <h2>Settings</h2>
  <p><a href="/?theme={{.OtherTheme}}">Switch to {{.OtherTheme}} theme</a></p>
  <form method="post" action="/clear"><input type="hidden" name="theme" value="{{.Theme}}"><button type="submit">Clear Chat</button></form>
  <hr>
  <h2>Activity Log</h2>
  {{- if .Activity}}
  {{- range .Activity}}
  <p><strong>{{.Number}}.</strong> {{.Query}}</p>
  {{- end}}
  {{- else}}
  <p><em>No recent activity.</em></p>
  {{- end}}
</aside>
<main>
  <div class="title-container">
    <h1 class="main-title">Syntax Chatbot</h1>
    <p class="subtitle">Experience the future of conversation</p>
  </div>
  <form class="chat" method="post" action="/chat">
    <input type="hidden" name="theme" value="{{.Theme}}">
    <input type="text" name="message" placeholder="Type your message here..." autocomplete="off" autofocus>
    <button type="submit">Send</button>
  </form>
  {{- if .Busy}}
  <div class="error">{{.BusyMessage}}</div>
  {{- end}}
  {{- with .Notice}}
  <div class="error" data-kind="{{.Kind}}">API Error: {{.Description}}<br>{{.Hint}}</div>
  {{- end}}
  <div class="chat-container">
  {{- range .Entries}}
    {{- if eq (print .Label) "user"}}
    <div class="chat-bubble user-bubble">{{.Content}}</div>
    {{- else}}
    <div class="chat-bubble bot-bubble">{{.Content}}</div>
    {{- end}}
  {{- end}}
  </div>
</main>
</div>
</body>
</html>
`))
